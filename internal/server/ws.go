package server

import (
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

type headPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type headsMessage struct {
	Heads     []headPosition `json:"heads"`
	Timestamp int64          `json:"timestamp"`
}

func newHeadsMessage(heads []image.Point, at time.Time) headsMessage {
	msg := headsMessage{
		Heads:     make([]headPosition, len(heads)),
		Timestamp: at.UnixMilli(),
	}
	for i, p := range heads {
		msg.Heads[i] = headPosition{X: p.X, Y: p.Y}
	}
	return msg
}

// HeadsHandler streams projected head positions over WebSocket, one
// message per presented composite.
type HeadsHandler struct {
	hub *FrameHub
}

// NewHeadsHandler creates a new HeadsHandler reading from hub.
func NewHeadsHandler(hub *FrameHub) *HeadsHandler {
	return &HeadsHandler{hub: hub}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *HeadsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.hub.Subscribe()
	defer cancel()

	// Reading keeps control frames flowing and tells us when the peer leaves.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case snap := <-updates:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(newHeadsMessage(snap.Heads, snap.Time)); err != nil {
				slog.Debug("heads client gone", "error", err)
				return
			}
		}
	}
}
