package odds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mildminihi/CardLoopChallengeGame/internal/cards"
	"github.com/mildminihi/CardLoopChallengeGame/internal/odds"
	"github.com/mildminihi/CardLoopChallengeGame/internal/stage"
)

func card(s cards.Suit, r cards.Rank) cards.Card { return cards.Card{Suit: s, Rank: r} }

func TestFullDeckPercentages(t *testing.T) {
	deck := cards.Canonical()

	assert.InDelta(t, 50.0, odds.PercentRed(deck), 1e-9)
	assert.InDelta(t, 50.0, odds.PercentBlack(deck), 1e-9)
	assert.InDelta(t, 25.0, odds.PercentSuit(deck, cards.Clubs), 1e-9)
	// 2-10: 36 number cards, 16 faces (J,Q,K,A)
	assert.InDelta(t, 36.0/52*100, odds.PercentNumber(deck), 1e-9)
	assert.InDelta(t, 16.0/52*100, odds.PercentFace(deck), 1e-9)
	// odd ranks: 3,5,7,9,J,K,A = 7 per suit
	assert.InDelta(t, 28.0/52*100, odds.PercentOdd(deck), 1e-9)
	assert.InDelta(t, 24.0/52*100, odds.PercentEven(deck), 1e-9)
}

func TestHigherLowerEqualCoverDeck(t *testing.T) {
	deck := cards.Canonical()
	for _, ref := range cards.Ranks {
		sum := odds.PercentHigher(deck, ref) + odds.PercentLower(deck, ref) + odds.PercentEqual(deck, ref)
		assert.InDelta(t, 100.0, sum, 1e-9, "ref=%d", ref)
	}
	// nothing outranks the ace
	assert.Zero(t, odds.PercentHigher(deck, cards.Ace))
	assert.InDelta(t, 4.0/52*100, odds.PercentEqual(deck, 7), 1e-9)
}

func TestRangeIsInclusive(t *testing.T) {
	deck := []cards.Card{
		card(cards.Hearts, 4), card(cards.Spades, 6), card(cards.Clubs, 9),
		card(cards.Hearts, cards.Queen),
	}
	a, b := card(cards.Diamonds, 9), card(cards.Clubs, 4)
	assert.InDelta(t, 75.0, odds.PercentInRange(deck, a, b), 1e-9)
	assert.InDelta(t, 25.0, odds.PercentOutOfRange(deck, a, b), 1e-9)
}

func TestEmptyDeckIsZero(t *testing.T) {
	var deck []cards.Card
	assert.Zero(t, odds.PercentRed(deck))
	assert.Zero(t, odds.PercentHigher(deck, 7))
	assert.Zero(t, odds.PercentInRange(deck, card(cards.Hearts, 2), card(cards.Hearts, 9)))
	assert.Zero(t, odds.PercentNumber(deck))
}

func TestComplementsSumTo100(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		deck := cards.BuildShuffledDeck(cards.NewSeededRNG(seed)).Cards()
		for n := len(deck); n > 0; n -= 7 {
			rest := deck[:n]
			assert.InDelta(t, 100, odds.Display(odds.PercentRed(rest))+odds.Display(odds.PercentBlack(rest)), 1)
			assert.InDelta(t, 100, odds.Display(odds.PercentNumber(rest))+odds.Display(odds.PercentFace(rest)), 1)
			assert.InDelta(t, 100, odds.Display(odds.PercentOdd(rest))+odds.Display(odds.PercentEven(rest)), 1)
		}
	}
}

func TestForGuess(t *testing.T) {
	deck := cards.Canonical()

	tbl := odds.ForGuess(stage.Color, deck, nil)
	assert.Equal(t, odds.Table{"red": 50, "black": 50}, tbl)

	assert.Nil(t, odds.ForGuess(stage.HigherLower, deck, nil))
	tbl = odds.ForGuess(stage.HigherLower, deck, []cards.Card{card(cards.Spades, 2)})
	assert.Equal(t, 92, tbl["higher"])
	assert.Equal(t, 0, tbl["lower"])
	assert.Equal(t, 8, tbl["equal"])

	tbl = odds.ForGuess(stage.Suit, deck, nil)
	assert.Len(t, tbl, 4)
	assert.Equal(t, 25, tbl["hearts"])

	assert.Nil(t, odds.ForGuess(stage.InsideOutside, deck, []cards.Card{card(cards.Spades, 2)}))
	tbl = odds.ForGuess(stage.InsideOutside, deck, []cards.Card{card(cards.Spades, 2), card(cards.Spades, cards.Ace)})
	assert.Equal(t, 100, tbl["inside"])
	assert.Equal(t, 0, tbl["outside"])
}
