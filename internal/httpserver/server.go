// internal/httpserver/server.go
//
// HTTP server wiring for the Card Loop backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /game/new, /game/{id}, guess, advance, restart.
//   - Snapshot push over WebSocket: /game/{id}/ws (ws.go).
//   - Daily run endpoints: mounted under /daily (routes_daily.go).
//   - Settings and statistics: /settings, /stats/me (routes_profile.go).
//   - Accounts: /auth/*, /games/mine (auth.go).
//
// Notes:
//   - Live games are held in store.Store; each engine is only touched inside
//     Session.Do.
//   - Every engine gets the owner's statistics recorder and a history sink
//     writing the games table.
//   - The WebSocket route sits outside the Timeout middleware.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mildminihi/CardLoopChallengeGame/internal/cards"
	"github.com/mildminihi/CardLoopChallengeGame/internal/config"
	"github.com/mildminihi/CardLoopChallengeGame/internal/game"
	"github.com/mildminihi/CardLoopChallengeGame/internal/kv"
	"github.com/mildminihi/CardLoopChallengeGame/internal/settings"
	"github.com/mildminihi/CardLoopChallengeGame/internal/stage"
	"github.com/mildminihi/CardLoopChallengeGame/internal/stats"
	"github.com/mildminihi/CardLoopChallengeGame/internal/store"
)

// Server bundles router, live sessions, and DB-backed stores.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	store    store.Store
	db       *sql.DB
	kv       kv.Store
	settings *settings.Store
	upgrader websocket.Upgrader
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   cfg,
		store: st,
		db:    db,
		kv:    kv.NewSQLStore(db),
		now:   time.Now,
	}
	s.settings = settings.NewStore(s.kv, settings.Defaults(cfg.DefaultEasyMode))
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// Long-lived: no handler timeout, no JSON content type.
	s.r.With(s.withOptionalAuth()).Get("/game/{id}/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
		r.Use(jsonContentType)

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"cardloop-go","endpoints":["/health","POST /game/new","/game/{id}","/daily/*","/settings","/stats/me","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		// Game, daily, profile: OPTIONAL AUTH (guests play as an anonymous owner)
		r.Group(func(r chi.Router) {
			r.Use(s.withOptionalAuth())
			r.Post("/game/new", s.handleNewGame)
			r.Get("/game/{id}", s.handleGetGame)
			r.Post("/game/{id}/guess", s.handleGuess)
			r.Post("/game/{id}/advance", s.handleAdvance)
			r.Post("/game/{id}/restart", s.handleRestart)
			s.mountDaily(r)
			s.mountProfile(r)
		})

		s.mountAuthRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		writeErr(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Handler exposes the router (for http.Server and tests).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeErr writes {"error": msg} with status.
func writeErr(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Mode string `json:"mode"` // "normal" (default) | "endless"
}

type gameRes struct {
	GameID   string        `json:"gameId"`
	Snapshot game.Snapshot `json:"snapshot"`
}

type guessReq struct {
	Type string `json:"type"`
	Pick bool   `json:"pick"`
	Suit string `json:"suit,omitempty"`
}

type advanceReq struct {
	Run *int `json:"run"`
}

type actionRes struct {
	Applied  bool          `json:"applied"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// sessionOpts describes a game to start.
type sessionOpts struct {
	mode  game.Mode
	rng   cards.RNG
	extra game.Sink // optional
	date  string    // daily runs only
}

// startSession creates an engine for o, wires its sinks and stores the session.
func (s *Server) startSession(ctx context.Context, o owner, opts sessionOpts) (*store.Session, game.Snapshot, error) {
	h := &history{db: s.db, owner: o, mode: opts.mode, now: s.now}
	e := game.New(opts.mode, game.Options{
		RNG:      opts.rng,
		Sink:     game.Tee(stats.NewRecorder(s.kv, o.ID), h, opts.extra),
		Settings: s.settings.View(o.ID),
	})
	sess := store.NewSession(uuid.NewString(), o.ID, e)
	sess.Daily, sess.Date = opts.date != "", opts.date
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, game.Snapshot{}, err
	}
	var snap game.Snapshot
	sess.Do(func(e *game.Engine) { snap = e.Snapshot() })
	snap.Cue = game.CueStart // New already consumed the start cue
	return sess, snap, nil
}

// handleNewGame creates a new live game for the caller.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	mode := game.ModeNormal
	switch game.Mode(req.Mode) {
	case "", game.ModeNormal:
	case game.ModeEndless:
		mode = game.ModeEndless
	default:
		http.Error(w, `{"error":"unknown_mode"}`, http.StatusBadRequest)
		return
	}

	o := s.ownerOf(w, r)
	sess, snap, err := s.startSession(r.Context(), o, sessionOpts{mode: mode, rng: cards.NewRNG()})
	if err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Debug().Str("gameId", sess.ID).Str("mode", string(mode)).Str("owner", o.ID).Msg("game started")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(gameRes{GameID: sess.ID, Snapshot: snap})
}

// session loads the {id} session and checks the caller owns it.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || sess.OwnerID != s.ownerOf(w, r).ID {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var snap game.Snapshot
	sess.Do(func(e *game.Engine) { snap = e.Snapshot() })
	_ = json.NewEncoder(w).Encode(gameRes{GameID: sess.ID, Snapshot: snap})
}

// handleGuess evaluates a guess. Ignored guesses (wrong type, not playing,
// empty deck) return 200 with applied=false and the unchanged snapshot.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, err := parseGuess(req)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var res actionRes
	sess.Do(func(e *game.Engine) { res.Snapshot, res.Applied = e.Guess(g) })
	_ = json.NewEncoder(w).Encode(res)
}

func parseGuess(req guessReq) (game.Guess, error) {
	t, err := stage.ParseGuessType(req.Type)
	if err != nil {
		return game.Guess{}, err
	}
	g := game.Guess{Type: t, Pick: req.Pick}
	if t == stage.Suit {
		if g.Suit, err = cards.ParseSuit(req.Suit); err != nil {
			return game.Guess{}, err
		}
	}
	return g, nil
}

// handleAdvance confirms an advance_stage outcome. When run is given, a
// confirmation for a restarted game is ignored.
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var req advanceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var res actionRes
	sess.Do(func(e *game.Engine) {
		if req.Run != nil {
			res.Snapshot, res.Applied = e.AdvanceRun(*req.Run)
			return
		}
		res.Snapshot, res.Applied = e.Advance()
	})
	_ = json.NewEncoder(w).Encode(res)
}

// handleRestart starts a new game in the same session. Daily runs cannot be
// restarted.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if sess.Daily {
		http.Error(w, `{"error":"daily_run_cannot_restart"}`, http.StatusConflict)
		return
	}
	var snap game.Snapshot
	sess.Do(func(e *game.Engine) { snap = e.StartNewGame() })
	_ = json.NewEncoder(w).Encode(gameRes{GameID: sess.ID, Snapshot: snap})
}
