package monitor

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// FeedHandler streams cycle reports to websocket clients as JSON.
type FeedHandler struct {
	broadcaster *Broadcaster
	upgrader    websocket.Upgrader
	log         *zap.Logger
}

// NewFeedHandler creates a websocket feed handler.
func NewFeedHandler(b *Broadcaster, log *zap.Logger) *FeedHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedHandler{
		broadcaster: b,
		upgrader: websocket.Upgrader{
			// status feed is read-only, allow any origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	listener := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(listener)

	h.log.Info("feed client connected", zap.Int("listeners", h.broadcaster.ListenerCount()))
	defer h.log.Info("feed client disconnected")

	// Drain client frames so close and ping handling work; the feed itself
	// is one-way.
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
		case report, ok := <-listener.C:
			if !ok {
				return
			}
			if err := conn.WriteJSON(report); err != nil {
				return
			}
		}
	}
}
