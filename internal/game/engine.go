// internal/game/engine.go
//
// Game engine for a single card-loop session (normal or endless).
// Responsibilities:
//   - Build and shuffle the deck, track revealed cards.
//   - Evaluate guesses through the per-type rule table (rules.go).
//   - Track state transitions: playing → advance_stage → playing ... → won/lost.
//     An endless run that clears the whole deck ends as deck_cleared.
//   - Emit statistics events and publish snapshots to observers.
//
// Notes:
//   - Invalid operations (wrong guess type, not playing, empty deck, missing
//     reference cards) are no-ops: nothing mutates and nothing is emitted.
//   - Advancing is a separate call from evaluating, so clients can show the
//     intermediate outcome for as long as they like.
//   - A Cue is carried only by the snapshot of the mutation that triggered it.
//   - An Engine is not safe for concurrent use; callers serialize access.
package game

import (
	"github.com/rs/zerolog/log"

	"github.com/mildminihi/CardLoopChallengeGame/internal/cards"
	"github.com/mildminihi/CardLoopChallengeGame/internal/odds"
	"github.com/mildminihi/CardLoopChallengeGame/internal/stage"
)

// Options wires the engine's collaborators. Zero values are valid.
type Options struct {
	RNG      cards.RNG
	Sink     Sink
	Settings Settings
	// NewDeck overrides deck construction (fixed decks in tests).
	NewDeck func(rng cards.RNG) *cards.Deck
}

// Engine is the stage state machine.
type Engine struct {
	mode     Mode
	policy   stage.Policy
	rng      cards.RNG
	sink     Sink
	settings Settings
	newDeck  func(rng cards.RNG) *cards.Deck

	run      int
	stage    int
	guess    stage.GuessType
	deck     *cards.Deck
	revealed []cards.Card
	outcome  Outcome
	feedback *Feedback
	winCount int
	cue      Cue

	observers []observer
	nextObsID int
}

type observer struct {
	id int
	fn func(Snapshot)
}

// New constructs an engine for mode and starts its first game.
// Unknown modes fall back to normal.
func New(mode Mode, opts Options) *Engine {
	e := &Engine{
		mode:     mode,
		rng:      opts.RNG,
		sink:     opts.Sink,
		settings: opts.Settings,
		newDeck:  opts.NewDeck,
	}
	if e.mode == ModeEndless {
		e.policy = stage.Endless()
	} else {
		e.mode = ModeNormal
		e.policy = stage.Normal()
	}
	if e.rng == nil {
		e.rng = cards.NewRNG()
	}
	if e.newDeck == nil {
		e.newDeck = cards.BuildShuffledDeck
	}
	e.StartNewGame()
	return e
}

// Mode reports the engine's mode.
func (e *Engine) Mode() Mode { return e.mode }

// Run is incremented by every StartNewGame.
func (e *Engine) Run() int { return e.run }

// Outcome is the current stage outcome.
func (e *Engine) Outcome() Outcome { return e.outcome }

// StartNewGame reshuffles, clears history and resets to the first stage.
func (e *Engine) StartNewGame() Snapshot {
	e.run++
	e.deck = e.newDeck(e.rng)
	e.revealed = nil
	e.stage = 1
	e.guess = e.policy.First(e.rng)
	e.outcome = OutcomePlaying
	e.feedback = nil
	e.winCount = 0
	e.cue = CueStart

	e.emit(Event{Kind: EventGameStarted, Mode: e.mode})
	e.emit(Event{Kind: EventStageEncountered, Mode: e.mode, Stage: e.stage, Guess: e.guess})
	return e.publish()
}

func (e *Engine) GuessColor(isRed bool) (Snapshot, bool) {
	return e.Guess(Guess{Type: stage.Color, Pick: isRed})
}

func (e *Engine) GuessHigherLower(isHigher bool) (Snapshot, bool) {
	return e.Guess(Guess{Type: stage.HigherLower, Pick: isHigher})
}

func (e *Engine) GuessInsideOutside(isInside bool) (Snapshot, bool) {
	return e.Guess(Guess{Type: stage.InsideOutside, Pick: isInside})
}

func (e *Engine) GuessSuit(s cards.Suit) (Snapshot, bool) {
	return e.Guess(Guess{Type: stage.Suit, Suit: s})
}

func (e *Engine) GuessOddEven(isOdd bool) (Snapshot, bool) {
	return e.Guess(Guess{Type: stage.OddEven, Pick: isOdd})
}

func (e *Engine) GuessNumberFace(isNumber bool) (Snapshot, bool) {
	return e.Guess(Guess{Type: stage.NumberFace, Pick: isNumber})
}

// Guess draws one card and evaluates g against it.
// applied is false when the guess was ignored; the returned snapshot is then
// the unchanged current state.
func (e *Engine) Guess(g Guess) (snap Snapshot, applied bool) {
	if reason := e.rejectGuess(g); reason != "" {
		log.Debug().Str("mode", string(e.mode)).Str("want", string(e.guess)).
			Str("got", string(g.Type)).Str("reason", reason).Msg("guess ignored")
		return e.Snapshot(), false
	}
	refs, _ := e.references()
	drawn, _ := e.deck.Draw()
	e.revealed = append(e.revealed, drawn)

	v, fb := rules[g.Type](drawn, refs, g)
	ev := Event{
		Kind:    EventChoice,
		Mode:    e.mode,
		Stage:   e.stage,
		Guess:   g.Type,
		Choice:  g.Choice(),
		Correct: v != verdictWrong,
		Lucky:   v == verdictLucky,
	}

	switch {
	case v == verdictWrong:
		e.outcome = OutcomeLost
		e.cue = CueWrong
	case e.policy.Final(e.stage):
		e.outcome = OutcomeWon
		e.cue = CueWin
		fb.Code = CodeWonGame
	default:
		e.outcome = OutcomeAdvance
		e.cue = CueCorrect
	}
	e.feedback = &fb

	e.emit(ev)
	if e.outcome.Terminal() {
		e.emit(Event{Kind: EventGameEnded, Mode: e.mode, Stage: e.stage, Won: e.outcome == OutcomeWon, Score: e.cleared()})
	}
	return e.publish(), true
}

func (e *Engine) rejectGuess(g Guess) string {
	switch {
	case e.outcome != OutcomePlaying:
		return "not playing"
	case g.Type != e.guess:
		return "wrong guess type"
	case rules[g.Type] == nil:
		return "unknown guess type"
	case e.deck.Len() == 0:
		return "deck empty"
	}
	if _, ok := e.references(); !ok {
		return "missing reference cards"
	}
	return ""
}

// Advance confirms an advance_stage outcome and moves to the next stage.
// It is a no-op in any other outcome.
func (e *Engine) Advance() (Snapshot, bool) {
	if e.outcome != OutcomeAdvance {
		log.Debug().Str("outcome", string(e.outcome)).Msg("advance ignored")
		return e.Snapshot(), false
	}
	if e.mode == ModeEndless {
		e.winCount++
		if e.deck.Len() == 0 {
			return e.clearDeck(), true
		}
	}
	next, ok := e.policy.Next(e.stage, e.cleared(), e.rng)
	if !ok {
		return e.Snapshot(), false
	}
	e.stage++
	e.guess = next
	e.outcome = OutcomePlaying
	e.feedback = nil
	e.cue = CueNone

	e.emit(Event{Kind: EventStageEncountered, Mode: e.mode, Stage: e.stage, Guess: e.guess})
	if e.mode == ModeEndless {
		e.emit(Event{Kind: EventScore, Mode: e.mode, Stage: e.stage, Score: e.winCount})
	}
	return e.publish(), true
}

// clearDeck ends an endless run that has no card left to draw.
func (e *Engine) clearDeck() Snapshot {
	e.outcome = OutcomeDeckCleared
	e.feedback = &Feedback{Code: CodeDeckCleared, Card: e.revealed[len(e.revealed)-1]}
	e.cue = CueWin

	e.emit(Event{Kind: EventScore, Mode: e.mode, Stage: e.stage, Score: e.winCount})
	e.emit(Event{Kind: EventGameEnded, Mode: e.mode, Stage: e.stage, Cleared: true, Score: e.winCount})
	return e.publish()
}

// AdvanceRun is Advance guarded by run identity: a confirmation issued for a
// game that has since been restarted is ignored.
func (e *Engine) AdvanceRun(run int) (Snapshot, bool) {
	if run != e.run {
		log.Debug().Int("run", run).Int("current", e.run).Msg("stale advance ignored")
		return e.Snapshot(), false
	}
	return e.Advance()
}

// cleared is the number of stages won in the current run.
func (e *Engine) cleared() int {
	if e.mode == ModeEndless {
		return e.winCount
	}
	n := e.stage - 1
	if e.outcome == OutcomeWon || e.outcome == OutcomeAdvance {
		n++
	}
	return n
}

// references returns the cards the current guess type compares against.
// Normal mode uses the leading revealed cards, endless the trailing ones.
func (e *Engine) references() ([]cards.Card, bool) {
	n := e.guess.References()
	if len(e.revealed) < n {
		return nil, false
	}
	if n == 0 {
		return nil, true
	}
	src := e.revealed[len(e.revealed)-n:]
	if e.mode == ModeNormal {
		src = e.revealed[:n]
	}
	out := make([]cards.Card, n)
	copy(out, src)
	return out, true
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Mode:      e.mode,
		Run:       e.run,
		Stage:     e.stage,
		Guess:     e.guess,
		DeckCount: e.deck.Len(),
		Revealed:  append([]cards.Card{}, e.revealed...),
		Outcome:   e.outcome,
		WinCount:  e.winCount,
		Cue:       e.cue,
	}
	if e.feedback != nil {
		fb := *e.feedback
		s.Feedback = &fb
	}
	refs, ok := e.references()
	if ok && e.outcome == OutcomePlaying {
		s.References = refs
		if e.settings != nil && e.settings.EasyMode() {
			s.Odds = odds.ForGuess(e.guess, e.deck.Cards(), refs)
		}
	}
	return s
}

// Subscribe registers fn to receive a snapshot after every mutation.
// The returned func removes the subscription.
func (e *Engine) Subscribe(fn func(Snapshot)) (cancel func()) {
	e.nextObsID++
	id := e.nextObsID
	e.observers = append(e.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range e.observers {
			if o.id == id {
				e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) publish() Snapshot {
	s := e.Snapshot()
	e.cue = CueNone
	for _, o := range e.observers {
		o.fn(s)
	}
	return s
}

func (e *Engine) emit(ev Event) {
	if e.sink != nil {
		e.sink.Record(ev)
	}
}
