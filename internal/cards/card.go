// internal/cards/card.go
//
// Playing-card model for the Card Loop game.
// Defines:
//   - Suit: one of the four French suits.
//   - Rank: 2..14 with jack=11, queen=12, king=13, ace=14 (ace ranks highest).
//   - Card: immutable (suit, rank) value plus its derived predicates.
//
// Rank comparisons are strictly numeric. Equal ranks are never broken by suit;
// the engine treats them as their own "lucky" outcome.

package cards

import (
	"errors"
	"strconv"
	"strings"
)

// Suit is one of the four suits of a standard deck.
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

// Suits lists every suit in canonical deck order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// IsRed reports true for hearts and diamonds.
func (s Suit) IsRed() bool { return s == Hearts || s == Diamonds }

// Symbol returns the suit glyph used in card labels.
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	}
	return "?"
}

// ErrUnknownSuit is returned by ParseSuit for unrecognised input.
var ErrUnknownSuit = errors.New("unknown suit")

// ParseSuit accepts a suit name ("hearts") or its glyph ("♥").
func ParseSuit(s string) (Suit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, suit := range Suits {
		if s == string(suit) || s == suit.Symbol() {
			return suit, nil
		}
	}
	return "", ErrUnknownSuit
}

// Rank is the numeric card value used for every comparison.
type Rank int

const (
	Two   Rank = 2
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// Ranks lists every rank from two to ace.
var Ranks = []Rank{2, 3, 4, 5, 6, 7, 8, 9, 10, Jack, Queen, King, Ace}

// Display returns "A", "J", "Q", "K" for face ranks, otherwise the numeral.
func (r Rank) Display() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return strconv.Itoa(int(r))
}

// Card is a single playing card.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// IsRed reports whether the card's suit is red.
func (c Card) IsRed() bool { return c.Suit.IsRed() }

// IsOdd reports whether the rank is odd. The ace counts as odd.
func (c Card) IsOdd() bool {
	if c.Rank == Ace {
		return true
	}
	return int(c.Rank)%2 != 0
}

// IsNumber is true for 2 to 10 and false for jack, queen, king and ace.
func (c Card) IsNumber() bool { return c.Rank >= Two && c.Rank <= Ten }

// DisplayRank is the short rank label ("A", "10", "Q", ...).
func (c Card) DisplayRank() string { return c.Rank.Display() }

// String renders the card as rank followed by suit glyph, e.g. "Q♥".
func (c Card) String() string { return c.DisplayRank() + c.Suit.Symbol() }
