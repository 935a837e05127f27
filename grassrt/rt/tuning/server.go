// Package tuning exposes the grass settings over a websocket so an external
// panel can adjust wind and request regeneration while the runtime draws.
package tuning

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gekko3d/meadow/grassrt/rt/core"
)

// Message types sent by clients.
const (
	TypeGet        = "get"
	TypeSettings   = "settings"
	TypeRegenerate = "regenerate"
)

// Reply types sent by the server.
const (
	TypeState = "state"
	TypeError = "error"
)

// Message is a client request. Settings may be partial; missing fields keep
// their staged values.
type Message struct {
	Type     string          `json:"type"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

// Reply carries the staged settings after a request, or the reason it was refused.
type Reply struct {
	Type     string        `json:"type"`
	Session  string        `json:"session"`
	Settings core.Settings `json:"settings"`
	Error    string        `json:"error,omitempty"`
}

type client struct {
	session string
	mu      sync.Mutex
}

// Server validates incoming settings and writes them to the staging copy. The
// frame loop picks them up between frames.
type Server struct {
	Stage  *core.SettingsStage
	Logger core.Logger

	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[*websocket.Conn]*client
	http     *http.Server
	closed   bool
}

func NewServer(stage *core.SettingsStage, logger core.Logger) *Server {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	return &Server{
		Stage:  stage,
		Logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*client),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe blocks until Shutdown is called or the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.http = &http.Server{Addr: addr, Handler: s.Handler()}
	srv := s.http
	s.mu.Unlock()

	s.Logger.Infof("tuning server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes every session and stops the listener. A later
// ListenAndServe returns immediately.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.http
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Clients is the number of connected sessions.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warnf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	c := &client{session: uuid.NewString()}
	s.mu.Lock()
	s.clients[conn] = c
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	s.Logger.Debugf("tuning session %s connected", c.session)
	s.send(conn, c, s.state(c, nil))

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.Logger.Debugf("tuning session %s read: %v", c.session, err)
			}
			return
		}

		err := s.apply(msg)
		reply := s.state(c, err)
		if err == nil && msg.Type != TypeGet {
			s.Broadcast()
			continue
		}
		s.send(conn, c, reply)
	}
}

func (s *Server) apply(msg Message) error {
	switch msg.Type {
	case TypeGet:
		return nil
	case TypeRegenerate:
		s.Stage.RequestRegenerate()
		return nil
	case TypeSettings:
		if len(msg.Settings) == 0 {
			return errors.New("settings message without settings")
		}
		var decodeErr error
		err := s.Stage.Update(func(st *core.Settings) {
			next := *st
			if decodeErr = json.Unmarshal(msg.Settings, &next); decodeErr == nil {
				*st = next
			}
		})
		if decodeErr != nil {
			return decodeErr
		}
		return err
	default:
		return errors.New("unknown message type " + msg.Type)
	}
}

func (s *Server) state(c *client, err error) Reply {
	r := Reply{Type: TypeState, Session: c.session, Settings: s.Stage.Snapshot()}
	if err != nil {
		r.Type = TypeError
		r.Error = err.Error()
	}
	return r
}

func (s *Server) send(conn *websocket.Conn, c *client, r Reply) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := conn.WriteJSON(r); err != nil {
		s.Logger.Debugf("tuning session %s write: %v", c.session, err)
	}
}

// Broadcast pushes the staged settings to every session.
func (s *Server) Broadcast() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn, c := range s.clients {
		s.send(conn, c, s.state(c, nil))
	}
}
