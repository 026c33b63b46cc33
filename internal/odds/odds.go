// internal/odds/odds.go
//
// Hint percentages for easy mode.
// Every function answers "what share of the remaining deck satisfies this
// predicate" as a value in [0,100]. An empty deck yields 0 rather than NaN.
//
// Higher/lower use strict comparisons, the same ones the engine evaluates with.
// Equal ranks are reported separately as the "equal" (lucky) share.

package odds

import (
	"math"

	"github.com/mildminihi/CardLoopChallengeGame/internal/cards"
	"github.com/mildminihi/CardLoopChallengeGame/internal/stage"
)

func percent(deck []cards.Card, match func(cards.Card) bool) float64 {
	if len(deck) == 0 {
		return 0
	}
	n := 0
	for _, c := range deck {
		if match(c) {
			n++
		}
	}
	return float64(n) / float64(len(deck)) * 100
}

func PercentRed(deck []cards.Card) float64 { return percent(deck, cards.Card.IsRed) }

func PercentBlack(deck []cards.Card) float64 {
	return percent(deck, func(c cards.Card) bool { return !c.IsRed() })
}

// PercentHigher is the share of cards ranked strictly above ref.
func PercentHigher(deck []cards.Card, ref cards.Rank) float64 {
	return percent(deck, func(c cards.Card) bool { return c.Rank > ref })
}

// PercentLower is the share of cards ranked strictly below ref.
func PercentLower(deck []cards.Card, ref cards.Rank) float64 {
	return percent(deck, func(c cards.Card) bool { return c.Rank < ref })
}

// PercentEqual is the share of cards tying ref.
func PercentEqual(deck []cards.Card, ref cards.Rank) float64 {
	return percent(deck, func(c cards.Card) bool { return c.Rank == ref })
}

func bounds(a, b cards.Card) (lo, hi cards.Rank) {
	if a.Rank <= b.Rank {
		return a.Rank, b.Rank
	}
	return b.Rank, a.Rank
}

// PercentInRange counts ranks within [min, max] of the two references, inclusive.
func PercentInRange(deck []cards.Card, a, b cards.Card) float64 {
	lo, hi := bounds(a, b)
	return percent(deck, func(c cards.Card) bool { return c.Rank >= lo && c.Rank <= hi })
}

// PercentOutOfRange is the complement of PercentInRange.
func PercentOutOfRange(deck []cards.Card, a, b cards.Card) float64 {
	lo, hi := bounds(a, b)
	return percent(deck, func(c cards.Card) bool { return c.Rank < lo || c.Rank > hi })
}

func PercentSuit(deck []cards.Card, s cards.Suit) float64 {
	return percent(deck, func(c cards.Card) bool { return c.Suit == s })
}

func PercentOdd(deck []cards.Card) float64 { return percent(deck, cards.Card.IsOdd) }

func PercentEven(deck []cards.Card) float64 {
	return percent(deck, func(c cards.Card) bool { return !c.IsOdd() })
}

func PercentNumber(deck []cards.Card) float64 { return percent(deck, cards.Card.IsNumber) }

func PercentFace(deck []cards.Card) float64 {
	return percent(deck, func(c cards.Card) bool { return !c.IsNumber() })
}

// Display rounds a percentage to the nearest whole number.
func Display(p float64) int { return int(math.Round(p)) }

// Table maps a choice name ("red", "higher", "hearts", ...) to its display percent.
type Table map[string]int

// ForGuess builds the hint table for one guess type.
// refs are the reference cards the engine will compare against; a guess that
// needs more references than given yields nil.
func ForGuess(t stage.GuessType, deck, refs []cards.Card) Table {
	if len(refs) < t.References() {
		return nil
	}
	switch t {
	case stage.Color:
		return Table{"red": Display(PercentRed(deck)), "black": Display(PercentBlack(deck))}
	case stage.HigherLower:
		ref := refs[0].Rank
		return Table{
			"higher": Display(PercentHigher(deck, ref)),
			"lower":  Display(PercentLower(deck, ref)),
			"equal":  Display(PercentEqual(deck, ref)),
		}
	case stage.InsideOutside:
		return Table{
			"inside":  Display(PercentInRange(deck, refs[0], refs[1])),
			"outside": Display(PercentOutOfRange(deck, refs[0], refs[1])),
		}
	case stage.Suit:
		out := make(Table, len(cards.Suits))
		for _, s := range cards.Suits {
			out[string(s)] = Display(PercentSuit(deck, s))
		}
		return out
	case stage.OddEven:
		return Table{"odd": Display(PercentOdd(deck)), "even": Display(PercentEven(deck))}
	case stage.NumberFace:
		return Table{"number": Display(PercentNumber(deck)), "face": Display(PercentFace(deck))}
	}
	return nil
}
