// internal/stage/stage.go
//
// Guess-type catalog and the policies that decide which guess comes next.
//
//   - Normal mode walks a fixed four-stage sequence and ends in a win.
//   - Endless mode samples the next guess type at random and never ends in a win.
//
// Endless sampling keeps inside/outside out of the pool until enough cards have
// been revealed to form a range.

package stage

import (
	"errors"
	"strings"

	"github.com/mildminihi/CardLoopChallengeGame/internal/cards"
)

// GuessType is the category of prediction the player makes on the next draw.
type GuessType string

const (
	Color         GuessType = "color"
	HigherLower   GuessType = "higher_lower"
	InsideOutside GuessType = "inside_outside"
	Suit          GuessType = "suit"
	OddEven       GuessType = "odd_even"
	NumberFace    GuessType = "number_face"
)

// All lists every guess type.
var All = []GuessType{Color, HigherLower, InsideOutside, Suit, OddEven, NumberFace}

// NormalOrder is the fixed stage sequence of normal mode (stage 1 = index 0).
var NormalOrder = []GuessType{Color, HigherLower, InsideOutside, Suit}

var (
	endlessOpening = []GuessType{Color, Suit, OddEven, NumberFace}
	endlessEarly   = []GuessType{Color, Suit, HigherLower, OddEven, NumberFace}
)

// endlessEarlyRounds is the cleared count up to which inside/outside stays excluded.
const endlessEarlyRounds = 2

// References is how many previously revealed cards the guess compares against.
func (t GuessType) References() int {
	switch t {
	case HigherLower:
		return 1
	case InsideOutside:
		return 2
	}
	return 0
}

// ErrUnknownGuessType is returned by ParseGuessType.
var ErrUnknownGuessType = errors.New("unknown guess type")

// ParseGuessType maps a wire name to its GuessType.
func ParseGuessType(s string) (GuessType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range All {
		if s == string(t) {
			return t, nil
		}
	}
	return "", ErrUnknownGuessType
}

// Policy decides the guess type of each stage.
// Stages are 1-based; cleared is the number of stages won so far.
type Policy interface {
	First(rng cards.RNG) GuessType
	// Next returns the guess type of the stage after `stage`, or false when
	// there is no further stage.
	Next(stage, cleared int, rng cards.RNG) (GuessType, bool)
	// Final reports whether succeeding at `stage` wins the game.
	Final(stage int) bool
}

type normalPolicy struct{}

// Normal returns the fixed color → higher/lower → inside/outside → suit policy.
func Normal() Policy { return normalPolicy{} }

func (normalPolicy) First(cards.RNG) GuessType { return NormalOrder[0] }

func (normalPolicy) Next(stage, _ int, _ cards.RNG) (GuessType, bool) {
	if stage < 1 || stage >= len(NormalOrder) {
		return "", false
	}
	return NormalOrder[stage], true
}

func (normalPolicy) Final(stage int) bool { return stage == len(NormalOrder) }

type endlessPolicy struct{}

// Endless returns the randomized, never-final policy of endless mode.
func Endless() Policy { return endlessPolicy{} }

func (endlessPolicy) First(rng cards.RNG) GuessType { return pick(endlessOpening, rng) }

func (endlessPolicy) Next(_, cleared int, rng cards.RNG) (GuessType, bool) {
	if cleared <= endlessEarlyRounds {
		return pick(endlessEarly, rng), true
	}
	return pick(All, rng), true
}

func (endlessPolicy) Final(int) bool { return false }

func pick(pool []GuessType, rng cards.RNG) GuessType {
	return pool[rng.Intn(len(pool))]
}
