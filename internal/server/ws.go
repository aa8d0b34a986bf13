package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/regulation-radar/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is same-origin; cross-origin reads are harmless
	// since the feed only carries refresh notices.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RefreshNotice is pushed to subscribers whenever the slate is
// recomputed.
type RefreshNotice struct {
	Type       string `json:"type"`
	Date       string `json:"date"`
	Count      int    `json:"count"`
	ComputedAt string `json:"computed_at"`
}

// Hub fans refresh notices out to connected websocket clients.
type Hub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan RefreshNotice
	logger     *logrus.Logger
}

// NewHub creates a websocket hub.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan RefreshNotice, 8),
		logger:     logger,
	}
}

// Run owns the client set; all membership changes and broadcasts go
// through its channels.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for conn := range h.clients {
				conn.Close()
			}
			return
		case conn := <-h.register:
			h.clients[conn] = true
		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
		case notice := <-h.broadcast:
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteJSON(notice); err != nil {
					h.logger.WithError(err).Debug("Dropping websocket client")
					delete(h.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

// NotifySlate queues a refresh notice. A full broadcast queue drops
// the notice rather than blocking the scheduler.
func (h *Hub) NotifySlate(slate *service.Slate) {
	notice := RefreshNotice{
		Type:       "slate_refreshed",
		Date:       slate.Date.Format("2006-01-02"),
		Count:      len(slate.Games),
		ComputedAt: time.Now().UTC().Format(time.RFC3339),
	}
	select {
	case h.broadcast <- notice:
	default:
		h.logger.Warn("Websocket broadcast queue full, dropping notice")
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	s.hub.register <- conn

	// Reader loop: we never expect client messages, but reading is how
	// close frames and dead connections are noticed.
	go func() {
		defer func() { s.hub.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
