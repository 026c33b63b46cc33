package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mildminihi/CardLoopChallengeGame/internal/game"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// wsMessage is the envelope pushed to WebSocket clients.
type wsMessage struct {
	Type     string        `json:"type"` // "snapshot"
	Snapshot game.Snapshot `json:"snapshot"`
}

// checkOrigin accepts same-origin tools (no Origin header) and the client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	o := r.Header.Get("Origin")
	return o == "" || o == s.cfg.ClientOrigin
}

// handleWS streams a snapshot after every state change of the game. The
// current snapshot is sent first. Client messages are ignored; closing the
// socket ends the subscription.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("websocket upgrade")
		return
	}

	send := make(chan []byte, 16)
	push := func(snap game.Snapshot) {
		b, err := json.Marshal(wsMessage{Type: "snapshot", Snapshot: snap})
		if err != nil {
			return
		}
		select {
		case send <- b:
		default:
			log.Debug().Str("gameId", sess.ID).Msg("websocket client slow, snapshot dropped")
		}
	}

	var cancel func()
	sess.Do(func(e *game.Engine) {
		push(e.Snapshot())
		cancel = e.Subscribe(push)
	})

	go writePump(conn, send)
	readPump(conn)

	// publish runs under the session lock, so no push can race the close
	sess.Do(func(*game.Engine) { cancel() })
	close(send)
	log.Debug().Str("gameId", sess.ID).Msg("websocket closed")
}

// readPump drains the connection until it closes, keeping pongs flowing.
func readPump(conn *websocket.Conn) {
	defer conn.Close()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("websocket read")
			}
			return
		}
	}
}

// writePump sends queued snapshots and periodic pings until send is closed.
func writePump(conn *websocket.Conn, send <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case msg, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
