// internal/game/types.go
//
// Core type definitions for the card-loop game engine.
// Defines:
//   - Mode / Outcome: which game is running and where it stands.
//   - Guess: a player's declared prediction for the next draw.
//   - Feedback / Cue: structured result codes for the presentation layer.
//   - Snapshot: the read-only view published after every mutation.
//   - Event / Sink / Settings: the collaborator interfaces the engine talks to.

package game

import (
	"github.com/mildminihi/CardLoopChallengeGame/internal/cards"
	"github.com/mildminihi/CardLoopChallengeGame/internal/odds"
	"github.com/mildminihi/CardLoopChallengeGame/internal/stage"
)

// Mode selects the stage policy.
type Mode string

const (
	ModeNormal  Mode = "normal"
	ModeEndless Mode = "endless"
)

// Outcome is the state of the current stage.
type Outcome string

const (
	OutcomePlaying Outcome = "playing"
	// OutcomeAdvance waits for Advance(); endless mode calls this "next stage".
	OutcomeAdvance Outcome = "advance_stage"
	OutcomeWon     Outcome = "won" // normal mode only
	OutcomeLost    Outcome = "lost"

	// OutcomeDeckCleared ends an endless run that cleared all 52 cards.
	OutcomeDeckCleared Outcome = "deck_cleared"
)

// Terminal reports whether only a new game can leave this outcome.
func (o Outcome) Terminal() bool {
	return o == OutcomeWon || o == OutcomeLost || o == OutcomeDeckCleared
}

// Guess is a declared prediction. Pick carries the boolean side of two-way
// guesses (red, higher, inside, odd, number); Suit is used by suit guesses.
type Guess struct {
	Type stage.GuessType
	Pick bool
	Suit cards.Suit
}

// Choice is the stats/hint name of the declared side, e.g. "red" or "outside".
func (g Guess) Choice() string {
	switch g.Type {
	case stage.Color:
		return either(g.Pick, "red", "black")
	case stage.HigherLower:
		return either(g.Pick, "higher", "lower")
	case stage.InsideOutside:
		return either(g.Pick, "inside", "outside")
	case stage.Suit:
		return string(g.Suit)
	case stage.OddEven:
		return either(g.Pick, "odd", "even")
	case stage.NumberFace:
		return either(g.Pick, "number", "face")
	}
	return ""
}

func either[T any](b bool, yes, no T) T {
	if b {
		return yes
	}
	return no
}

// FeedbackCode identifies a result message; clients localize it.
type FeedbackCode string

const (
	CodeCorrectCard    FeedbackCode = "correct_card_was"
	CodeWrongCard      FeedbackCode = "wrong_card_was_game_over"
	CodeLuckyRanks     FeedbackCode = "lucky_equal_ranks"
	CodeLuckyBoundary  FeedbackCode = "lucky_equal_boundary"
	CodeCorrectHigher  FeedbackCode = "correct_card_is_higher_than"
	CodeCorrectLower   FeedbackCode = "correct_card_is_lower_than"
	CodeWrongHigher    FeedbackCode = "wrong_card_is_higher_than"
	CodeWrongLower     FeedbackCode = "wrong_card_is_lower_than"
	CodeCorrectInside  FeedbackCode = "correct_card_is_inside"
	CodeCorrectOutside FeedbackCode = "correct_card_is_outside"
	CodeWrongInside    FeedbackCode = "wrong_card_is_inside"
	CodeWrongOutside   FeedbackCode = "wrong_card_is_outside"
	CodeWrongSuit      FeedbackCode = "wrong_suit_was"
	CodeWonGame        FeedbackCode = "correct_won_game"
	CodeDeckCleared    FeedbackCode = "deck_cleared"
)

// Feedback is the result of the last evaluation plus its interpolation data.
type Feedback struct {
	Code      FeedbackCode `json:"code"`
	Card      cards.Card   `json:"card"`
	Reference *cards.Card  `json:"reference,omitempty"`
	Actual    cards.Suit   `json:"actualSuit,omitempty"`
}

// Cue is the audio/haptic category triggered by the last operation.
type Cue string

const (
	CueNone    Cue = ""
	CueStart   Cue = "start"
	CueCorrect Cue = "correct"
	CueWrong   Cue = "wrong"
	CueWin     Cue = "win"
)

// Snapshot is an immutable copy of the engine state.
type Snapshot struct {
	Mode       Mode            `json:"mode"`
	Run        int             `json:"run"`
	Stage      int             `json:"stage"` // 1-based; endless: rounds played in this run
	Guess      stage.GuessType `json:"guess"`
	DeckCount  int             `json:"deckCount"`
	Revealed   []cards.Card    `json:"revealed"`
	References []cards.Card    `json:"references,omitempty"`
	Outcome    Outcome         `json:"outcome"`
	Feedback   *Feedback       `json:"feedback,omitempty"`
	WinCount   int             `json:"winCount"` // endless only
	Cue        Cue             `json:"cue,omitempty"`
	Odds       odds.Table      `json:"odds,omitempty"`
}

// EventKind tags statistics events.
type EventKind string

const (
	EventGameStarted      EventKind = "game_started"
	EventGameEnded        EventKind = "game_ended"
	EventChoice           EventKind = "choice"
	EventStageEncountered EventKind = "stage_encountered"
	EventScore            EventKind = "score"
)

// Event is a discrete, tagged fact for the statistics collaborator.
type Event struct {
	Kind    EventKind
	Mode    Mode
	Stage   int
	Guess   stage.GuessType
	Choice  string // declared side, see Guess.Choice
	Correct bool
	Lucky   bool
	Won     bool
	Cleared bool // endless run ended by clearing the deck
	Score   int
}

// Sink receives events. Implementations must not call back into the engine.
type Sink interface {
	Record(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Record(ev Event) { f(ev) }

// Tee fans every event out to sinks in order; nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(ev Event) {
		for _, s := range sinks {
			if s != nil {
				s.Record(ev)
			}
		}
	})
}

// Settings is the read-only configuration the engine consults.
type Settings interface {
	EasyMode() bool
}

// StaticSettings is a fixed Settings value.
type StaticSettings struct{ Easy bool }

func (s StaticSettings) EasyMode() bool { return s.Easy }
