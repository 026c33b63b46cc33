// internal/stats/stats.go
//
// Statistics recorder: folds engine events into per-owner counters.
// Counters live in a kv.Store namespace "stats:<owner>" and keep the names the
// mobile client already displays (stage1RedCount, highScoreCount, ...).
//
// Normal mode tallies one choice per stage plus games played/won/lost. Stage 1
// and stage 4 count the declared color and suit; stages 2 and 3 count the side
// the drawn card actually fell on. Endless mode tallies runs played and lost,
// guess types encountered and the best score.

package stats

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mildminihi/CardLoopChallengeGame/internal/cards"
	"github.com/mildminihi/CardLoopChallengeGame/internal/game"
	"github.com/mildminihi/CardLoopChallengeGame/internal/kv"
	"github.com/mildminihi/CardLoopChallengeGame/internal/stage"
)

// Counter names.
const (
	Stage1Red      = "stage1RedCount"
	Stage1Black    = "stage1BlackCount"
	Stage2Higher   = "stage2HigherCount"
	Stage2Lower    = "stage2LowerCount"
	Stage2Equal    = "stage2EqualCount"
	Stage3Inside   = "stage3InsideCount"
	Stage3Outside  = "stage3OutsideCount"
	Stage3Equal    = "stage3EqualCount"
	Stage4Spades   = "stage4SpadesCount"
	Stage4Hearts   = "stage4HeartsCount"
	Stage4Diamonds = "stage4DiamondsCount"
	Stage4Clubs    = "stage4ClubsCount"
	GamesPlayed    = "totalGamesPlayed"
	GamesWon       = "gamesWon"
	GamesLost      = "gamesLost"

	HighScore         = "highScoreCount"
	EndlessPlayed     = "totalEndLessGamesPlayed"
	EndlessLost       = "endlessGamesLost"
	ColorEncounters   = "colorStageEncounter"
	HighLowEncounters = "highLowStageEncounter"
	RangeEncounters   = "rangeStageEncounter"
	SuitEncounters    = "suitStageEncounter"
	EvenOddEncounters = "evenOddStageEncounter"
	NumberEncounters  = "numberStageEncounter"
)

var encounterKeys = map[stage.GuessType]string{
	stage.Color:         ColorEncounters,
	stage.HigherLower:   HighLowEncounters,
	stage.InsideOutside: RangeEncounters,
	stage.Suit:          SuitEncounters,
	stage.OddEven:       EvenOddEncounters,
	stage.NumberFace:    NumberEncounters,
}

var suitKeys = map[string]string{
	string(cards.Spades):   Stage4Spades,
	string(cards.Hearts):   Stage4Hearts,
	string(cards.Diamonds): Stage4Diamonds,
	string(cards.Clubs):    Stage4Clubs,
}

// Namespace returns the kv namespace for an owner's statistics.
func Namespace(owner string) string { return "stats:" + owner }

// Recorder implements game.Sink for one owner.
type Recorder struct {
	store   kv.Store
	ns      string
	timeout time.Duration
}

// NewRecorder builds a recorder writing to owner's namespace.
func NewRecorder(store kv.Store, owner string) *Recorder {
	return &Recorder{store: store, ns: Namespace(owner), timeout: 2 * time.Second}
}

// Record applies one event. Storage errors are logged, never returned.
func (r *Recorder) Record(ev game.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	for _, key := range increments(ev) {
		if _, err := r.store.Incr(ctx, r.ns, key, 1); err != nil {
			log.Warn().Err(err).Str("ns", r.ns).Str("counter", key).Msg("stats increment failed")
		}
	}
	if ev.Kind == game.EventScore || (ev.Kind == game.EventGameEnded && ev.Mode == game.ModeEndless) {
		if err := r.raiseHighScore(ctx, int64(ev.Score)); err != nil {
			log.Warn().Err(err).Str("ns", r.ns).Msg("high score update failed")
		}
	}
}

func increments(ev game.Event) []string {
	switch ev.Mode {
	case game.ModeNormal:
		switch ev.Kind {
		case game.EventGameStarted:
			return []string{GamesPlayed}
		case game.EventGameEnded:
			if ev.Won {
				return []string{GamesWon}
			}
			return []string{GamesLost}
		case game.EventChoice:
			if k := choiceKey(ev); k != "" {
				return []string{k}
			}
		}
	case game.ModeEndless:
		switch ev.Kind {
		case game.EventGameStarted:
			return []string{EndlessPlayed}
		case game.EventGameEnded:
			if !ev.Cleared {
				return []string{EndlessLost}
			}
		case game.EventStageEncountered:
			if k, ok := encounterKeys[ev.Guess]; ok {
				return []string{k}
			}
		}
	}
	return nil
}

// choiceKey maps a normal-mode choice to its counter. Lucky ties count as
// "equal" on the comparison stages; otherwise those stages count the actual
// direction, which is the declared one only when the guess was correct.
func choiceKey(ev game.Event) string {
	switch ev.Guess {
	case stage.Color:
		if ev.Choice == "red" {
			return Stage1Red
		}
		return Stage1Black
	case stage.HigherLower:
		switch {
		case ev.Lucky:
			return Stage2Equal
		case (ev.Choice == "higher") == ev.Correct:
			return Stage2Higher
		default:
			return Stage2Lower
		}
	case stage.InsideOutside:
		switch {
		case ev.Lucky:
			return Stage3Equal
		case (ev.Choice == "inside") == ev.Correct:
			return Stage3Inside
		default:
			return Stage3Outside
		}
	case stage.Suit:
		return suitKeys[ev.Choice]
	}
	return ""
}

func (r *Recorder) raiseHighScore(ctx context.Context, score int64) error {
	cur, _, err := r.store.Get(ctx, r.ns, HighScore)
	if err != nil {
		return err
	}
	if score <= cur {
		return nil
	}
	return r.store.Set(ctx, r.ns, HighScore, score)
}

// Normal is the normal-mode block of Statistics.
type Normal struct {
	Stage1Red      int64 `json:"stage1RedCount"`
	Stage1Black    int64 `json:"stage1BlackCount"`
	Stage2Higher   int64 `json:"stage2HigherCount"`
	Stage2Lower    int64 `json:"stage2LowerCount"`
	Stage2Equal    int64 `json:"stage2EqualCount"`
	Stage3Inside   int64 `json:"stage3InsideCount"`
	Stage3Outside  int64 `json:"stage3OutsideCount"`
	Stage3Equal    int64 `json:"stage3EqualCount"`
	Stage4Spades   int64 `json:"stage4SpadesCount"`
	Stage4Hearts   int64 `json:"stage4HeartsCount"`
	Stage4Diamonds int64 `json:"stage4DiamondsCount"`
	Stage4Clubs    int64 `json:"stage4ClubsCount"`
	GamesPlayed    int64 `json:"totalGamesPlayed"`
	GamesWon       int64 `json:"gamesWon"`
	GamesLost      int64 `json:"gamesLost"`
}

// Endless is the endless-mode block of Statistics.
type Endless struct {
	HighScore         int64 `json:"highScoreCount"`
	GamesPlayed       int64 `json:"totalEndLessGamesPlayed"`
	GamesLost         int64 `json:"endlessGamesLost"`
	ColorEncounters   int64 `json:"colorStageEncounter"`
	HighLowEncounters int64 `json:"highLowStageEncounter"`
	RangeEncounters   int64 `json:"rangeStageEncounter"`
	SuitEncounters    int64 `json:"suitStageEncounter"`
	EvenOddEncounters int64 `json:"evenOddStageEncounter"`
	NumberEncounters  int64 `json:"numberStageEncounter"`
}

// Statistics is everything recorded for one owner.
type Statistics struct {
	Normal  Normal  `json:"normal"`
	Endless Endless `json:"endless"`
}

// Snapshot reads the owner's counters; missing counters are zero.
func (r *Recorder) Snapshot(ctx context.Context) (Statistics, error) {
	m, err := r.store.All(ctx, r.ns)
	if err != nil {
		return Statistics{}, err
	}
	return Statistics{
		Normal: Normal{
			Stage1Red:      m[Stage1Red],
			Stage1Black:    m[Stage1Black],
			Stage2Higher:   m[Stage2Higher],
			Stage2Lower:    m[Stage2Lower],
			Stage2Equal:    m[Stage2Equal],
			Stage3Inside:   m[Stage3Inside],
			Stage3Outside:  m[Stage3Outside],
			Stage3Equal:    m[Stage3Equal],
			Stage4Spades:   m[Stage4Spades],
			Stage4Hearts:   m[Stage4Hearts],
			Stage4Diamonds: m[Stage4Diamonds],
			Stage4Clubs:    m[Stage4Clubs],
			GamesPlayed:    m[GamesPlayed],
			GamesWon:       m[GamesWon],
			GamesLost:      m[GamesLost],
		},
		Endless: Endless{
			HighScore:         m[HighScore],
			GamesPlayed:       m[EndlessPlayed],
			GamesLost:         m[EndlessLost],
			ColorEncounters:   m[ColorEncounters],
			HighLowEncounters: m[HighLowEncounters],
			RangeEncounters:   m[RangeEncounters],
			SuitEncounters:    m[SuitEncounters],
			EvenOddEncounters: m[EvenOddEncounters],
			NumberEncounters:  m[NumberEncounters],
		},
	}, nil
}

// Clear resets every counter for the owner.
func (r *Recorder) Clear(ctx context.Context) error {
	return r.store.Clear(ctx, r.ns)
}
