package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"uc-timelapse/internal/observability"
	"uc-timelapse/internal/playback"
)

const (
	wsWriteTimeout   = 10 * time.Second
	wsMaxMessageSize = 4096
)

// Playback actions sent by clients.
const (
	actionPlay   = "play"
	actionPause  = "pause"
	actionReset  = "reset"
	actionToggle = "toggle"
)

// ClientMessage is a command received over the playback socket.
type ClientMessage struct {
	Action string `json:"action"`
	Series string `json:"series,omitempty"`
}

// ServerMessage is pushed to playback clients: a frame or an error.
type ServerMessage struct {
	Type  string          `json:"type"` // "frame" or "error"
	RunID string          `json:"run_id,omitempty"`
	Frame *playback.Frame `json:"frame,omitempty"`
	Error string          `json:"error,omitempty"`
}

// wsConn serializes writes; gorilla/websocket allows one concurrent writer.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(msg)
}

// handlePlayback computes the chart once, then streams frames while the
// client drives the player. The pipeline is not re-run for the session.
func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	result, ok := s.run(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessageSize)

	observability.PlaybackSessionOpened()
	defer observability.PlaybackSessionClosed()

	log := s.logger.WithFields(logrus.Fields{"run_id": result.RunID, "remote": r.RemoteAddr})
	log.Debug("playback session opened")

	player := playback.NewPlayer(result.Chart)
	if r.URL.Query().Get("autoplay") == "1" {
		player.Reset()
		player.Play()
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ws := &wsConn{conn: conn}

	// Reader: apply client commands until the socket closes
	go func() {
		defer cancel()
		for {
			var msg ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if err := applyCommand(player, msg); err != nil {
				if sendErr := ws.send(ServerMessage{Type: "error", Error: err.Error()}); sendErr != nil {
					return
				}
			}
		}
	}()

	err = player.Run(ctx, s.playbackInterval, func(f playback.Frame) error {
		return ws.send(ServerMessage{Type: "frame", RunID: result.RunID, Frame: &f})
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Debug("playback stream ended")
	}

	ws.mu.Lock()
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	ws.mu.Unlock()
	log.Debug("playback session closed")
}

func applyCommand(p *playback.Player, msg ClientMessage) error {
	switch msg.Action {
	case actionPlay:
		p.Play()
	case actionPause:
		p.Pause()
	case actionReset:
		p.Reset()
	case actionToggle:
		if _, err := p.Toggle(msg.Series); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown action %q", msg.Action)
	}
	return nil
}
