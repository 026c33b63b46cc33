// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily run: one seeded endless game per owner per UTC day.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start today's run (creates or reuses the session)
//   - GET  /daily/leaderboard → top 20 scores for today (or ?date=YYYY-MM-DD)
//
// Play itself goes through the regular /game/{id}/* routes. The score is
// saved when the run is lost; after that /daily/new reports played=true.
// Every owner gets the same deck and guess-type sequence for a given date.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mildminihi/CardLoopChallengeGame/internal/daily"
	"github.com/mildminihi/CardLoopChallengeGame/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]string // ownerID|date → session ID
	mu       sync.Mutex        // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]string),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// resultSink saves the score of a daily run when it ends.
type resultSink struct {
	store *daily.Store
	owner string
	date  string
}

func (rs *resultSink) Record(ev game.Event) {
	if ev.Kind != game.EventGameEnded {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := rs.store.InsertResult(ctx, daily.Result{OwnerID: rs.owner, Date: rs.date, Score: ev.Score})
	if err != nil {
		log.Warn().Err(err).Str("owner", rs.owner).Str("date", rs.date).Msg("save daily result")
	}
}

type newRes struct {
	GameID   string         `json:"gameId"`
	Date     string         `json:"date"`
	Played   bool           `json:"played"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
}

// handleNew creates or reuses today's daily session.
//   - Owner already has a result for today → played=true, no session.
//   - Otherwise reuse the live session or seed a new one.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	o := d.srv.ownerOf(w, r)
	date := daily.DateKey(d.srv.now())

	played, err := d.store.AlreadyPlayed(r.Context(), o.ID, date)
	if err != nil {
		log.Error().Err(err).Msg("daily lookup")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	if played {
		_ = json.NewEncoder(w).Encode(newRes{Date: date, Played: true})
		return
	}

	key := o.ID + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.sessions[key]; ok {
		if sess, err := d.srv.store.Get(r.Context(), id); err == nil {
			var snap game.Snapshot
			sess.Do(func(e *game.Engine) { snap = e.Snapshot() })
			_ = json.NewEncoder(w).Encode(newRes{GameID: sess.ID, Date: date, Snapshot: &snap})
			return
		}
		delete(d.sessions, key) // swept
	}

	sess, snap, err := d.srv.startSession(r.Context(), o, sessionOpts{
		mode:  game.ModeEndless,
		rng:   daily.RNG(date, d.salt),
		extra: &resultSink{store: d.store, owner: o.ID, date: date},
		date:  date,
	})
	if err != nil {
		log.Error().Err(err).Msg("save daily session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	d.sessions[key] = sess.ID
	_ = json.NewEncoder(w).Encode(newRes{GameID: sess.ID, Date: date, Snapshot: &snap})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
