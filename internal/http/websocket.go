package httpapi

import (
	"context"
	"net/http"
	"time"

	"wisefido-sedentary/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// wsSender writes each event as one JSON text frame.
type wsSender struct {
	conn *websocket.Conn
}

func (s *wsSender) Send(ev models.ProcessedEvent) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(ev)
}

func (h *Handlers) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Inbound frames are ignored; a read error means the observer went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.Logger.Info("Observer connected", zap.String("remote", r.RemoteAddr))
	err = h.Live.Stream(ctx, &wsSender{conn: conn})
	h.Logger.Info("Observer disconnected", zap.String("remote", r.RemoteAddr), zap.Error(err))

	if err == nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	}
}
