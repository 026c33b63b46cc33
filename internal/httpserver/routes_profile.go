package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mildminihi/CardLoopChallengeGame/internal/settings"
	"github.com/mildminihi/CardLoopChallengeGame/internal/stats"
)

// mountProfile registers owner settings and statistics.
func (s *Server) mountProfile(r chi.Router) {
	r.Get("/settings", s.handleGetSettings)
	r.Put("/settings", s.handlePutSettings)
	r.Get("/stats/me", s.handleGetStats)
	r.Delete("/stats/me", s.handleClearStats)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	o := s.ownerOf(w, r)
	cur, err := s.settings.Get(r.Context(), o.ID)
	if err != nil {
		log.Error().Err(err).Str("owner", o.ID).Msg("load settings")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(cur)
}

// handlePutSettings applies a partial update; omitted fields keep their value.
// Easy mode changes apply to running games on their next snapshot.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var p settings.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	o := s.ownerOf(w, r)
	next, err := s.settings.Update(r.Context(), o.ID, p)
	if err != nil {
		log.Error().Err(err).Str("owner", o.ID).Msg("save settings")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(next)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	o := s.ownerOf(w, r)
	st, err := stats.NewRecorder(s.kv, o.ID).Snapshot(r.Context())
	if err != nil {
		log.Error().Err(err).Str("owner", o.ID).Msg("load stats")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

func (s *Server) handleClearStats(w http.ResponseWriter, r *http.Request) {
	o := s.ownerOf(w, r)
	if err := stats.NewRecorder(s.kv, o.ID).Clear(r.Context()); err != nil {
		log.Error().Err(err).Str("owner", o.ID).Msg("clear stats")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
