// Package session drives the highlight overlay for live editing over a
// WebSocket connection. The client streams document updates and flag
// toggles; the server debounces them, re-renders highlight markers, and
// pushes the marked-up document back. An explicit sanitize message runs
// the full pipeline on the marker-free document.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/net/html"

	"github.com/dgallion1/textwash/internal/doctree"
	"github.com/dgallion1/textwash/internal/highlight"
	"github.com/dgallion1/textwash/internal/options"
	"github.com/dgallion1/textwash/internal/sanitize"
)

// Message is the wire format in both directions.
type Message struct {
	Type    string           `json:"type"`
	HTML    string           `json:"html,omitempty"`
	Options *options.Options `json:"options,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Client message types.
const (
	TypeUpdate   = "update"
	TypeOptions  = "options"
	TypeSanitize = "sanitize"
)

// Server message types.
const (
	TypeHighlighted = "highlighted"
	TypeSanitized   = "sanitized"
	TypeError       = "error"
)

const sendBuffer = 8

// Session owns one live document tree. All tree access is serialized by
// mu: reads arrive on the read loop, renders on the debounce timer
// goroutine, and each operation completes before the next touches the
// tree.
type Session struct {
	ID   string
	conn *websocket.Conn
	svc  *sanitize.Service
	log  *slog.Logger

	mu   sync.Mutex
	tree *html.Node
	opts options.Options

	sched *highlight.Scheduler
	send  chan Message
	done  chan struct{}
	once  sync.Once
}

// New wraps an accepted WebSocket connection in a session.
func New(conn *websocket.Conn, svc *sanitize.Service, log *slog.Logger, debounce time.Duration, maxMessageBytes int64) *Session {
	s := &Session{
		ID:   uuid.NewString(),
		conn: conn,
		svc:  svc,
		opts: options.Defaults(),
		send: make(chan Message, sendBuffer),
		done: make(chan struct{}),
	}
	s.log = log.With("session_id", s.ID)
	s.sched = highlight.NewScheduler(debounce, s.renderHighlights)
	if maxMessageBytes > 0 {
		conn.SetReadLimit(maxMessageBytes)
	}
	return s
}

// Run services the connection until the client disconnects.
func (s *Session) Run() {
	defer s.close()
	go s.writePump()

	s.log.Info("session started")
	for {
		var msg Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("session read error", "error", err)
			}
			return
		}
		s.handle(msg)
	}
}

func (s *Session) handle(msg Message) {
	switch msg.Type {
	case TypeUpdate:
		root, err := doctree.ParseBody(msg.HTML)
		if err != nil {
			s.sendMsg(Message{Type: TypeError, Error: fmt.Sprintf("parse: %s", err)})
			return
		}
		s.mu.Lock()
		s.tree = root
		s.mu.Unlock()
		s.sched.Trigger()

	case TypeOptions:
		if msg.Options == nil {
			s.sendMsg(Message{Type: TypeError, Error: "options message without options"})
			return
		}
		s.mu.Lock()
		s.opts = *msg.Options
		s.mu.Unlock()
		s.sched.Trigger()

	case TypeSanitize:
		s.mu.Lock()
		if s.tree == nil {
			s.mu.Unlock()
			s.sendMsg(Message{Type: TypeError, Error: "no document"})
			return
		}
		clean := highlight.ExtractCleanMarkup(s.tree)
		opts := s.opts
		s.mu.Unlock()

		out, err := s.svc.Sanitize(clean, opts)
		if err != nil {
			s.sendMsg(Message{Type: TypeError, Error: err.Error()})
			return
		}
		s.sendMsg(Message{Type: TypeSanitized, HTML: out})

	default:
		s.sendMsg(Message{Type: TypeError, Error: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}

// renderHighlights is the debounced render: clear then re-mark, so
// markers never accumulate across cycles.
func (s *Session) renderHighlights() {
	s.mu.Lock()
	if s.tree == nil {
		s.mu.Unlock()
		return
	}
	highlight.Clear(s.tree)
	highlight.Mark(s.tree)
	out := doctree.Render(s.tree)
	s.mu.Unlock()

	s.sendMsg(Message{Type: TypeHighlighted, HTML: out})
}

func (s *Session) sendMsg(msg Message) {
	select {
	case s.send <- msg:
	case <-s.done:
	default:
		s.log.Warn("dropping message, send buffer full", "type", msg.Type)
	}
}

func (s *Session) writePump() {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.send:
			if err := s.conn.WriteJSON(msg); err != nil {
				s.log.Warn("session write error", "error", err)
				return
			}
		}
	}
}

func (s *Session) close() {
	s.once.Do(func() {
		s.sched.Stop()
		close(s.done)
		s.conn.Close()
		s.log.Info("session closed")
	})
}
