// internal/daily/daily.go
//
// Daily run seeding. Every owner playing on the same UTC date gets the same
// shuffled deck and the same endless guess-type sequence, derived from
// HMAC(salt, YYYY-MM-DD).

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/mildminihi/CardLoopChallengeGame/internal/cards"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the deterministic seed for a date key.
func Seed(date, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(date))
	sum := h.Sum(nil)
	// first 8 bytes are plenty for a PCG seed
	return binary.BigEndian.Uint64(sum[:8])
}

// RNG returns the seeded generator for a date key.
func RNG(date, salt string) cards.RNG {
	return cards.NewSeededRNG(Seed(date, salt))
}
