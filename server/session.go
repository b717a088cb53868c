package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"textmorph/core"
)

const pingInterval = 30 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the page may be served from anywhere on the LAN
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Reply is sent after the connection opens and after every update
type Reply struct {
	Session string   `json:"session"`
	Mix     *float64 `json:"mix"`
	Error   string   `json:"error,omitempty"`
}

type session struct {
	id     string
	conn   *websocket.Conn
	mu     sync.Mutex // serializes writes
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *session) send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (b *Bridge) serveWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to websocket: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:     uuid.New().String(),
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
	}

	b.mu.Lock()
	b.sessions[s.id] = s
	last := b.last
	b.mu.Unlock()

	log.Printf("Scroll session %s opened from %s", s.id, c.Request.RemoteAddr)
	if err := s.send(Reply{Session: s.id, Mix: mixValue(last.MixFactor())}); err != nil {
		log.Printf("Failed to send hello: %v", err)
		b.drop(s)
		return
	}
	b.handleSession(s)
}

func (b *Bridge) handleSession(s *session) {
	defer b.drop(s)

	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				err := s.conn.WriteMessage(websocket.PingMessage, nil)
				s.mu.Unlock()
				if err != nil {
					log.Printf("Ping failed: %v", err)
					s.cancel()
					return
				}
			}
		}
	}()

	for {
		var m core.ScrollMetrics
		if err := s.conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		reply := Reply{Session: s.id}
		if mix, err := b.Publish(m); err != nil {
			reply.Error = err.Error()
		} else {
			reply.Mix = mixValue(mix)
		}
		if err := s.send(reply); err != nil {
			log.Printf("Failed to send reply: %v", err)
			return
		}
	}
}

func (b *Bridge) drop(s *session) {
	s.cancel()
	s.conn.Close()

	b.mu.Lock()
	delete(b.sessions, s.id)
	b.mu.Unlock()
	log.Printf("Scroll session %s closed", s.id)
}

func (b *Bridge) closeSessions() {
	b.mu.Lock()
	open := make([]*session, 0, len(b.sessions))
	for _, s := range b.sessions {
		open = append(open, s)
	}
	b.mu.Unlock()

	for _, s := range open {
		if err := s.goodbye(); err != nil {
			log.Printf("Close message to %s failed: %v", s.id, err)
		}
		s.conn.Close()
	}
}

// goodbye tells the peer the server is going away
func (s *session) goodbye() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(time.Second))
}
