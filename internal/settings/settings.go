// internal/settings/settings.go
//
// Per-owner player settings (easy mode, sound, haptics).
// Persisted as 0/1 values in a kv.Store namespace "settings:<owner>".
//
// First read for an owner writes the defaults and a launched marker, so later
// reads never fall back to defaults again even if the player turned
// everything off.

package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mildminihi/CardLoopChallengeGame/internal/kv"
)

const (
	keyEasyMode = "easyMode"
	keySound    = "isSoundEnabled"
	keyHaptic   = "isHapticEnabled"
	keyLaunched = "hasLaunchedBefore"
)

// Settings is what a player can toggle.
type Settings struct {
	EasyMode bool `json:"easyMode"`
	Sound    bool `json:"sound"`
	Haptic   bool `json:"haptic"`
}

// Defaults applies to owners seen for the first time.
func Defaults(easy bool) Settings {
	return Settings{EasyMode: easy, Sound: true, Haptic: true}
}

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	EasyMode *bool `json:"easyMode"`
	Sound    *bool `json:"sound"`
	Haptic   *bool `json:"haptic"`
}

// Apply returns s with the non-nil fields of p.
func (p Patch) Apply(s Settings) Settings {
	if p.EasyMode != nil {
		s.EasyMode = *p.EasyMode
	}
	if p.Sound != nil {
		s.Sound = *p.Sound
	}
	if p.Haptic != nil {
		s.Haptic = *p.Haptic
	}
	return s
}

// Namespace returns the kv namespace for an owner's settings.
func Namespace(owner string) string { return "settings:" + owner }

type Store struct {
	kv       kv.Store
	defaults Settings
}

func NewStore(store kv.Store, defaults Settings) *Store {
	return &Store{kv: store, defaults: defaults}
}

// Get returns the owner's settings, initializing them on first use.
func (s *Store) Get(ctx context.Context, owner string) (Settings, error) {
	ns := Namespace(owner)
	m, err := s.kv.All(ctx, ns)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if m[keyLaunched] == 0 {
		if err := s.Save(ctx, owner, s.defaults); err != nil {
			return Settings{}, err
		}
		return s.defaults, nil
	}
	return Settings{
		EasyMode: m[keyEasyMode] != 0,
		Sound:    m[keySound] != 0,
		Haptic:   m[keyHaptic] != 0,
	}, nil
}

// Save overwrites every setting for the owner.
func (s *Store) Save(ctx context.Context, owner string, v Settings) error {
	ns := Namespace(owner)
	for _, kvp := range []struct {
		key string
		val bool
	}{
		{keyEasyMode, v.EasyMode},
		{keySound, v.Sound},
		{keyHaptic, v.Haptic},
		{keyLaunched, true},
	} {
		if err := s.kv.Set(ctx, ns, kvp.key, b2i(kvp.val)); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}
	return nil
}

// Update applies a partial update and returns the result.
func (s *Store) Update(ctx context.Context, owner string, p Patch) (Settings, error) {
	cur, err := s.Get(ctx, owner)
	if err != nil {
		return Settings{}, err
	}
	next := p.Apply(cur)
	if err := s.Save(ctx, owner, next); err != nil {
		return Settings{}, err
	}
	return next, nil
}

// View is a live, read-only game.Settings for one owner: every call reads
// the store, so toggles apply to running games.
type View struct {
	store *Store
	owner string
}

func (s *Store) View(owner string) View { return View{store: s, owner: owner} }

func (v View) EasyMode() bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	cur, err := v.store.Get(ctx, v.owner)
	if err != nil {
		log.Warn().Err(err).Str("owner", v.owner).Msg("settings read failed")
		return v.store.defaults.EasyMode
	}
	return cur.EasyMode
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
