package cards

import (
	"math/rand/v2"
)

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// stdRNG delegates to the auto-seeded math/rand/v2 source.
type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

// NewRNG returns a process-seeded RNG.
func NewRNG() RNG { return stdRNG{} }

type seededRNG struct{ r *rand.Rand }

func (s seededRNG) Intn(n int) int { return s.r.IntN(n) }

// NewSeededRNG returns a deterministic RNG; equal seeds give equal sequences.
func NewSeededRNG(seed uint64) RNG {
	return seededRNG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Deck is an ordered pile of cards drawn from the front.
type Deck struct {
	cards []Card
}

// Canonical returns the 52 cards of a standard deck in suit, then rank order.
func Canonical() []Card {
	out := make([]Card, 0, len(Suits)*len(Ranks))
	for _, s := range Suits {
		for _, r := range Ranks {
			out = append(out, Card{Suit: s, Rank: r})
		}
	}
	return out
}

// NewDeck wraps an explicit card order. The slice is copied.
func NewDeck(cards []Card) *Deck {
	cp := make([]Card, len(cards))
	copy(cp, cards)
	return &Deck{cards: cp}
}

// BuildShuffledDeck returns all 52 cards in a uniformly random order.
func BuildShuffledDeck(rng RNG) *Deck {
	cards := Canonical()
	// Fisher-Yates
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return &Deck{cards: cards}
}

// Draw removes and returns the front card.
// ok is false when the deck is empty, in which case the deck is untouched.
func (d *Deck) Draw() (c Card, ok bool) {
	if d == nil || len(d.cards) == 0 {
		return Card{}, false
	}
	c = d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// Len is the number of cards still in the deck.
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, front first.
func (d *Deck) Cards() []Card {
	if d == nil {
		return nil
	}
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
