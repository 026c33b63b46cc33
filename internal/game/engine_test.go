package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mildminihi/CardLoopChallengeGame/internal/cards"
	"github.com/mildminihi/CardLoopChallengeGame/internal/game"
	"github.com/mildminihi/CardLoopChallengeGame/internal/stage"
)

// scriptedRNG replays values (mod n), then returns 0.
type scriptedRNG struct {
	values []int
	idx    int
}

func (r *scriptedRNG) Intn(n int) int {
	if r.idx >= len(r.values) {
		return 0
	}
	v := r.values[r.idx] % n
	r.idx++
	return v
}

type recordingSink struct{ events []game.Event }

func (s *recordingSink) Record(ev game.Event) { s.events = append(s.events, ev) }

func (s *recordingSink) kinds() []game.EventKind {
	out := make([]game.EventKind, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Kind
	}
	return out
}

func c(s cards.Suit, r cards.Rank) cards.Card { return cards.Card{Suit: s, Rank: r} }

// fixedDeck always deals cs in order. Remaining slots are irrelevant to the tests.
func fixedDeck(cs ...cards.Card) func(cards.RNG) *cards.Deck {
	return func(cards.RNG) *cards.Deck { return cards.NewDeck(cs) }
}

func newNormal(t *testing.T, sink game.Sink, cs ...cards.Card) *game.Engine {
	t.Helper()
	return game.New(game.ModeNormal, game.Options{Sink: sink, NewDeck: fixedDeck(cs...)})
}

func mustAdvance(t *testing.T, e *game.Engine) game.Snapshot {
	t.Helper()
	snap, ok := e.Advance()
	require.True(t, ok, "advance")
	require.Equal(t, game.OutcomePlaying, snap.Outcome)
	return snap
}

func TestNewGame_InitialState(t *testing.T) {
	e := game.New(game.ModeNormal, game.Options{})
	snap := e.Snapshot()

	assert.Equal(t, game.ModeNormal, snap.Mode)
	assert.Equal(t, 1, snap.Stage)
	assert.Equal(t, stage.Color, snap.Guess)
	assert.Equal(t, 52, snap.DeckCount)
	assert.Empty(t, snap.Revealed)
	assert.Equal(t, game.OutcomePlaying, snap.Outcome)
	assert.Nil(t, snap.Feedback)
	assert.Equal(t, game.CueNone, snap.Cue)
	assert.Nil(t, snap.Odds)

	assert.Equal(t, game.CueStart, e.StartNewGame().Cue)
}

func TestCueIsCarriedOnlyByTheTriggeringSnapshot(t *testing.T) {
	e := newNormal(t, nil, c(cards.Hearts, 5))
	var pushed []game.Cue
	e.Subscribe(func(s game.Snapshot) { pushed = append(pushed, s.Cue) })

	snap, ok := e.GuessColor(false)
	require.True(t, ok)
	assert.Equal(t, game.CueWrong, snap.Cue)
	assert.Equal(t, []game.Cue{game.CueWrong}, pushed)

	assert.Equal(t, game.CueNone, e.Snapshot().Cue)
	snap, ok = e.GuessColor(false)
	assert.False(t, ok)
	assert.Equal(t, game.CueNone, snap.Cue)
	assert.Len(t, pushed, 1)
}

func TestGuessColor_Deterministic(t *testing.T) {
	heart := c(cards.Hearts, 5)

	e := newNormal(t, nil, heart)
	snap, ok := e.GuessColor(true)
	require.True(t, ok)
	assert.Equal(t, game.OutcomeAdvance, snap.Outcome)
	assert.Equal(t, game.CodeCorrectCard, snap.Feedback.Code)
	assert.Equal(t, heart, snap.Feedback.Card)
	assert.Equal(t, game.CueCorrect, snap.Cue)

	e = newNormal(t, nil, heart)
	snap, ok = e.GuessColor(false)
	require.True(t, ok)
	assert.Equal(t, game.OutcomeLost, snap.Outcome)
	assert.Equal(t, game.CodeWrongCard, snap.Feedback.Code)
	assert.Equal(t, game.CueWrong, snap.Cue)
}

func TestHigherLower_TieIsLucky(t *testing.T) {
	for _, higher := range []bool{true, false} {
		e := newNormal(t, nil, c(cards.Spades, 7), c(cards.Hearts, 7))
		_, ok := e.GuessColor(false)
		require.True(t, ok)
		mustAdvance(t, e)

		snap, ok := e.GuessHigherLower(higher)
		require.True(t, ok)
		assert.Equal(t, game.OutcomeAdvance, snap.Outcome, "higher=%v", higher)
		assert.Equal(t, game.CodeLuckyRanks, snap.Feedback.Code)
		require.NotNil(t, snap.Feedback.Reference)
		assert.Equal(t, c(cards.Spades, 7), *snap.Feedback.Reference)
	}
}

func TestHigherLower_Directions(t *testing.T) {
	tests := []struct {
		name    string
		next    cards.Rank
		higher  bool
		outcome game.Outcome
		code    game.FeedbackCode
	}{
		{"higher correct", 10, true, game.OutcomeAdvance, game.CodeCorrectHigher},
		{"lower correct", 3, false, game.OutcomeAdvance, game.CodeCorrectLower},
		{"higher wrong", 3, true, game.OutcomeLost, game.CodeWrongLower},
		{"lower wrong", cards.Ace, false, game.OutcomeLost, game.CodeWrongHigher},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newNormal(t, nil, c(cards.Spades, 7), c(cards.Clubs, tt.next))
			e.GuessColor(false)
			mustAdvance(t, e)
			snap, ok := e.GuessHigherLower(tt.higher)
			require.True(t, ok)
			assert.Equal(t, tt.outcome, snap.Outcome)
			assert.Equal(t, tt.code, snap.Feedback.Code)
		})
	}
}

func TestInsideOutside_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		next    cards.Rank
		inside  bool
		outcome game.Outcome
		code    game.FeedbackCode
	}{
		{"low boundary", 4, false, game.OutcomeAdvance, game.CodeLuckyBoundary},
		{"high boundary", 9, true, game.OutcomeAdvance, game.CodeLuckyBoundary},
		{"inside", 6, true, game.OutcomeAdvance, game.CodeCorrectInside},
		{"outside", 2, false, game.OutcomeAdvance, game.CodeCorrectOutside},
		{"queen guessed inside", cards.Queen, true, game.OutcomeLost, game.CodeWrongOutside},
		{"six guessed outside", 6, false, game.OutcomeLost, game.CodeWrongInside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newNormal(t, nil, c(cards.Hearts, 4), c(cards.Spades, 9), c(cards.Clubs, tt.next))
			_, ok := e.GuessColor(true)
			require.True(t, ok)
			mustAdvance(t, e)
			_, ok = e.GuessHigherLower(true)
			require.True(t, ok)
			snap := mustAdvance(t, e)
			assert.Equal(t, stage.InsideOutside, snap.Guess)
			assert.Equal(t, []cards.Card{c(cards.Hearts, 4), c(cards.Spades, 9)}, snap.References)

			snap, ok = e.GuessInsideOutside(tt.inside)
			require.True(t, ok)
			assert.Equal(t, tt.outcome, snap.Outcome)
			assert.Equal(t, tt.code, snap.Feedback.Code)
		})
	}
}

func TestNormalMode_WinsAfterFourStages(t *testing.T) {
	sink := &recordingSink{}
	e := newNormal(t, sink,
		c(cards.Hearts, 4), c(cards.Spades, 9), c(cards.Clubs, 6), c(cards.Diamonds, cards.King))

	_, ok := e.GuessColor(true)
	require.True(t, ok)
	mustAdvance(t, e)
	_, ok = e.GuessHigherLower(true)
	require.True(t, ok)
	mustAdvance(t, e)
	_, ok = e.GuessInsideOutside(true)
	require.True(t, ok)
	snap := mustAdvance(t, e)
	assert.Equal(t, 4, snap.Stage)
	assert.Equal(t, stage.Suit, snap.Guess)

	snap, ok = e.GuessSuit(cards.Diamonds)
	require.True(t, ok)
	assert.Equal(t, game.OutcomeWon, snap.Outcome)
	assert.Equal(t, game.CodeWonGame, snap.Feedback.Code)
	assert.Equal(t, game.CueWin, snap.Cue)
	assert.Len(t, snap.Revealed, 4)

	// terminal: nothing moves it
	_, ok = e.Advance()
	assert.False(t, ok)
	_, ok = e.GuessSuit(cards.Diamonds)
	assert.False(t, ok)

	last := sink.events[len(sink.events)-1]
	assert.Equal(t, game.EventGameEnded, last.Kind)
	assert.True(t, last.Won)
	assert.Equal(t, 4, last.Score)
}

func TestWrongSuit_ReportsActualSuit(t *testing.T) {
	e := newNormal(t, nil,
		c(cards.Hearts, 4), c(cards.Spades, 9), c(cards.Clubs, 6), c(cards.Clubs, 2))
	e.GuessColor(true)
	mustAdvance(t, e)
	e.GuessHigherLower(true)
	mustAdvance(t, e)
	e.GuessInsideOutside(true)
	mustAdvance(t, e)

	snap, ok := e.GuessSuit(cards.Hearts)
	require.True(t, ok)
	assert.Equal(t, game.OutcomeLost, snap.Outcome)
	assert.Equal(t, game.CodeWrongSuit, snap.Feedback.Code)
	assert.Equal(t, cards.Clubs, snap.Feedback.Actual)
}

func TestMismatchedGuessIsNoop(t *testing.T) {
	sink := &recordingSink{}
	e := game.New(game.ModeNormal, game.Options{Sink: sink})
	before := e.Snapshot()
	nEvents := len(sink.events)

	for _, g := range []game.Guess{
		{Type: stage.Suit, Suit: cards.Hearts},
		{Type: stage.HigherLower, Pick: true},
		{Type: stage.InsideOutside},
		{Type: stage.OddEven},
		{Type: stage.NumberFace},
		{Type: "bogus"},
	} {
		snap, ok := e.Guess(g)
		assert.False(t, ok, "%s", g.Type)
		assert.Equal(t, before, snap)
	}
	_, ok := e.Advance()
	assert.False(t, ok)

	assert.Equal(t, before, e.Snapshot())
	assert.Len(t, sink.events, nEvents)
}

func TestLostIsTerminalUntilNewGame(t *testing.T) {
	e := newNormal(t, nil, c(cards.Hearts, 4))
	snap, _ := e.GuessColor(false)
	require.Equal(t, game.OutcomeLost, snap.Outcome)

	_, ok := e.GuessColor(false)
	assert.False(t, ok)
	_, ok = e.Advance()
	assert.False(t, ok)

	run := e.Run()
	snap = e.StartNewGame()
	assert.Equal(t, run+1, snap.Run)
	assert.Equal(t, game.OutcomePlaying, snap.Outcome)
	assert.Empty(t, snap.Revealed)
	assert.Nil(t, snap.Feedback)
	assert.Equal(t, 1, snap.Stage)
}

func TestEmptyDeckIsNoop(t *testing.T) {
	e := newNormal(t, nil)
	snap, ok := e.GuessColor(true)
	assert.False(t, ok)
	assert.Equal(t, game.OutcomePlaying, snap.Outcome)
	assert.Zero(t, snap.DeckCount)
}

func TestAdvanceRun_IgnoresSupersededRun(t *testing.T) {
	e := newNormal(t, nil, c(cards.Hearts, 4))
	snap, _ := e.GuessColor(true)
	require.Equal(t, game.OutcomeAdvance, snap.Outcome)
	staleRun := snap.Run

	e.StartNewGame()
	_, ok := e.AdvanceRun(staleRun)
	assert.False(t, ok)
	assert.Equal(t, game.OutcomePlaying, e.Outcome())
	assert.Equal(t, 1, e.Snapshot().Stage)

	snap, _ = e.GuessColor(true)
	snap, ok = e.AdvanceRun(snap.Run)
	assert.True(t, ok)
	assert.Equal(t, 2, snap.Stage)
}

func TestNormalMode_Events(t *testing.T) {
	sink := &recordingSink{}
	e := newNormal(t, sink, c(cards.Hearts, 4), c(cards.Spades, 2))
	e.GuessColor(true)
	mustAdvance(t, e)
	e.GuessHigherLower(true)

	assert.Equal(t, []game.EventKind{
		game.EventGameStarted,
		game.EventStageEncountered,
		game.EventChoice,
		game.EventStageEncountered,
		game.EventChoice,
		game.EventGameEnded,
	}, sink.kinds())

	choice := sink.events[4]
	assert.Equal(t, stage.HigherLower, choice.Guess)
	assert.Equal(t, "higher", choice.Choice)
	assert.False(t, choice.Correct)
	assert.Equal(t, 2, choice.Stage)

	end := sink.events[5]
	assert.False(t, end.Won)
	assert.Equal(t, 1, end.Score)
}

func TestEasyModeSurfacesOdds(t *testing.T) {
	e := game.New(game.ModeNormal, game.Options{Settings: game.StaticSettings{Easy: true}})
	snap := e.Snapshot()
	require.NotNil(t, snap.Odds)
	assert.Equal(t, 50, snap.Odds["red"])
	assert.Equal(t, 50, snap.Odds["black"])

	e = game.New(game.ModeNormal, game.Options{Settings: game.StaticSettings{Easy: false}})
	assert.Nil(t, e.Snapshot().Odds)
}

func TestSubscribe(t *testing.T) {
	e := newNormal(t, nil, c(cards.Hearts, 4), c(cards.Spades, 9))
	var got []game.Outcome
	cancel := e.Subscribe(func(s game.Snapshot) { got = append(got, s.Outcome) })

	e.GuessColor(true)
	e.Advance()
	e.GuessSuit(cards.Hearts) // ignored, no publish
	cancel()
	e.GuessHigherLower(true)

	assert.Equal(t, []game.Outcome{game.OutcomeAdvance, game.OutcomePlaying}, got)
}

func TestEndless_UsesTrailingReferences(t *testing.T) {
	// opening: color; two early rounds: color; then index 2 of all types = inside/outside.
	rng := &scriptedRNG{values: []int{0, 0, 0, 2}}
	e := game.New(game.ModeEndless, game.Options{
		RNG: rng,
		NewDeck: fixedDeck(
			c(cards.Hearts, 2), c(cards.Hearts, 5), c(cards.Hearts, 9), c(cards.Spades, 7)),
	})
	for i := 0; i < 3; i++ {
		snap, ok := e.GuessColor(true)
		require.True(t, ok)
		require.Equal(t, game.OutcomeAdvance, snap.Outcome)
		mustAdvance(t, e)
	}
	snap := e.Snapshot()
	require.Equal(t, stage.InsideOutside, snap.Guess)
	assert.Equal(t, 3, snap.WinCount)
	assert.Equal(t, []cards.Card{c(cards.Hearts, 5), c(cards.Hearts, 9)}, snap.References)

	snap, ok := e.GuessInsideOutside(true)
	require.True(t, ok)
	assert.Equal(t, game.OutcomeAdvance, snap.Outcome)
	assert.Equal(t, game.CodeCorrectInside, snap.Feedback.Code)
}

// oracle returns the guess that is correct for next.
func oracle(snap game.Snapshot, next cards.Card) game.Guess {
	g := game.Guess{Type: snap.Guess}
	switch snap.Guess {
	case stage.Color:
		g.Pick = next.IsRed()
	case stage.HigherLower:
		g.Pick = next.Rank > snap.References[0].Rank
	case stage.InsideOutside:
		lo, hi := snap.References[0].Rank, snap.References[1].Rank
		if lo > hi {
			lo, hi = hi, lo
		}
		g.Pick = next.Rank > lo && next.Rank < hi
	case stage.Suit:
		g.Suit = next.Suit
	case stage.OddEven:
		g.Pick = next.IsOdd()
	case stage.NumberFace:
		g.Pick = next.IsNumber()
	}
	return g
}

func TestEndless_EndsOnlyByLossOrClearedDeck(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		order := cards.BuildShuffledDeck(cards.NewSeededRNG(seed)).Cards()
		sink := &recordingSink{}
		e := game.New(game.ModeEndless, game.Options{
			RNG:     cards.NewSeededRNG(seed + 100),
			Sink:    sink,
			NewDeck: fixedDeck(order...),
		})
		first := e.Snapshot().Guess
		assert.Zero(t, first.References(), "seed %d opening %s", seed, first)

		last := len(order) - 1
		for i, next := range order {
			snap := e.Snapshot()
			require.Equal(t, game.OutcomePlaying, snap.Outcome)
			if snap.WinCount <= 2 {
				require.NotEqual(t, stage.InsideOutside, snap.Guess, "seed %d round %d", seed, i)
			}
			snap, ok := e.Guess(oracle(snap, next))
			require.True(t, ok, "seed %d round %d", seed, i)
			require.Equal(t, game.OutcomeAdvance, snap.Outcome)
			if i == last {
				break
			}
			snap = mustAdvance(t, e)
			assert.Equal(t, i+1, snap.WinCount)
		}
		for _, ev := range sink.events {
			require.NotEqual(t, game.EventGameEnded, ev.Kind, "seed %d", seed)
		}

		// the last card is cleared: the run ends instead of stalling
		snap, ok := e.Advance()
		require.True(t, ok)
		assert.Equal(t, game.OutcomeDeckCleared, snap.Outcome)
		assert.Equal(t, 52, snap.WinCount)
		assert.Zero(t, snap.DeckCount)
		assert.Equal(t, game.CodeDeckCleared, snap.Feedback.Code)
		assert.Equal(t, game.CueWin, snap.Cue)

		end := sink.events[len(sink.events)-1]
		assert.Equal(t, game.EventGameEnded, end.Kind)
		assert.True(t, end.Cleared)
		assert.False(t, end.Won)
		assert.Equal(t, 52, end.Score)

		_, ok = e.Advance()
		assert.False(t, ok)
		_, ok = e.Guess(game.Guess{Type: snap.Guess})
		assert.False(t, ok)
	}
}

func TestEndless_NewGameResetsWinCount(t *testing.T) {
	e := game.New(game.ModeEndless, game.Options{
		RNG:     &scriptedRNG{values: []int{0}},
		NewDeck: fixedDeck(c(cards.Hearts, 2), c(cards.Hearts, 3)),
	})
	e.GuessColor(true)
	snap := mustAdvance(t, e)
	require.Equal(t, 1, snap.WinCount)

	snap = e.StartNewGame()
	assert.Zero(t, snap.WinCount)
	assert.Empty(t, snap.Revealed)
}
