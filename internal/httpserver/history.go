package httpserver

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mildminihi/CardLoopChallengeGame/internal/game"
)

// history is a game.Sink writing one games row per run. A run that is
// restarted before it ends is marked "abandoned".
type history struct {
	db    *sql.DB
	owner owner
	mode  game.Mode
	now   func() time.Time

	rowID string
	open  bool
}

func (h *history) Record(ev game.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	switch ev.Kind {
	case game.EventGameStarted:
		if h.open {
			h.finish(ctx, "abandoned", 0)
		}
		h.start(ctx)
	case game.EventGameEnded:
		status := "lost"
		switch {
		case ev.Won:
			status = "won"
		case ev.Cleared:
			status = "cleared"
		}
		h.finish(ctx, status, ev.Score)
	}
}

func (h *history) start(ctx context.Context) {
	h.rowID = uuid.NewString()
	h.open = true
	var userID, anonID any
	if h.owner.User {
		userID = h.owner.ID
	} else {
		anonID = h.owner.ID
	}
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, mode, status, started_at) VALUES (?,?,?,?,?,?)`,
		h.rowID, userID, anonID, string(h.mode), "playing", h.stamp())
	if err != nil {
		log.Warn().Err(err).Str("gameRow", h.rowID).Msg("insert game row")
	}
}

func (h *history) finish(ctx context.Context, status string, score int) {
	h.open = false
	_, err := h.db.ExecContext(ctx,
		`UPDATE games SET status=?, score=?, finished_at=? WHERE id=?`,
		status, score, h.stamp(), h.rowID)
	if err != nil {
		log.Warn().Err(err).Str("gameRow", h.rowID).Msg("finish game row")
	}
}

func (h *history) stamp() string { return h.now().UTC().Format(time.RFC3339Nano) }
