package game

import (
	"github.com/mildminihi/CardLoopChallengeGame/internal/cards"
	"github.com/mildminihi/CardLoopChallengeGame/internal/stage"
)

type verdict int

const (
	verdictWrong verdict = iota
	verdictCorrect
	verdictLucky
)

// rule evaluates one guess type. refs holds exactly GuessType.References() cards.
type rule func(drawn cards.Card, refs []cards.Card, g Guess) (verdict, Feedback)

var rules = map[stage.GuessType]rule{
	stage.Color: predicateRule(cards.Card.IsRed),
	stage.HigherLower: func(drawn cards.Card, refs []cards.Card, g Guess) (verdict, Feedback) {
		ref := refs[0]
		fb := Feedback{Card: drawn, Reference: &ref}
		if drawn.Rank == ref.Rank {
			fb.Code = CodeLuckyRanks
			return verdictLucky, fb
		}
		higher := drawn.Rank > ref.Rank
		if higher == g.Pick {
			fb.Code = either(higher, CodeCorrectHigher, CodeCorrectLower)
			return verdictCorrect, fb
		}
		fb.Code = either(higher, CodeWrongHigher, CodeWrongLower)
		return verdictWrong, fb
	},
	stage.InsideOutside: func(drawn cards.Card, refs []cards.Card, g Guess) (verdict, Feedback) {
		lo, hi := refs[0].Rank, refs[1].Rank
		if lo > hi {
			lo, hi = hi, lo
		}
		fb := Feedback{Card: drawn}
		if drawn.Rank == lo || drawn.Rank == hi {
			fb.Code = CodeLuckyBoundary
			return verdictLucky, fb
		}
		inside := drawn.Rank > lo && drawn.Rank < hi
		if inside == g.Pick {
			fb.Code = either(inside, CodeCorrectInside, CodeCorrectOutside)
			return verdictCorrect, fb
		}
		fb.Code = either(inside, CodeWrongInside, CodeWrongOutside)
		return verdictWrong, fb
	},
	stage.Suit: func(drawn cards.Card, _ []cards.Card, g Guess) (verdict, Feedback) {
		if drawn.Suit == g.Suit {
			return verdictCorrect, Feedback{Code: CodeCorrectCard, Card: drawn}
		}
		return verdictWrong, Feedback{Code: CodeWrongSuit, Card: drawn, Actual: drawn.Suit}
	},
	stage.OddEven:    predicateRule(cards.Card.IsOdd),
	stage.NumberFace: predicateRule(cards.Card.IsNumber),
}

// predicateRule builds the rule for guesses that compare one card predicate
// against the declared side, with no tie case.
func predicateRule(pred func(cards.Card) bool) rule {
	return func(drawn cards.Card, _ []cards.Card, g Guess) (verdict, Feedback) {
		if pred(drawn) == g.Pick {
			return verdictCorrect, Feedback{Code: CodeCorrectCard, Card: drawn}
		}
		return verdictWrong, Feedback{Code: CodeWrongCard, Card: drawn}
	}
}
