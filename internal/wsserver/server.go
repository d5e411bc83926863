package wsserver

import (
	"fmt"
	"net"
	"sync/atomic"
)

// EventKind discriminates the variants of Event described in spec.md §3.
type EventKind int

const (
	EventConnected EventKind = iota
	EventDisconnected
	EventMessage
	EventError
	EventShutdown
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventMessage:
		return "message"
	case EventError:
		return "error"
	case EventShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Event is the tagged value Accept produces, per spec.md §3. Only the
// fields relevant to Kind are populated: ID for Connected/Disconnected/
// Message, Text for Message, Err for Error. TraceID accompanies ID on
// Connected/Disconnected/Message — a log-correlation tag, not part of any
// invariant.
type Event struct {
	Kind    EventKind
	ID      int64
	TraceID string
	Text    string
	Err     error
}

// Server is the singleton described in spec.md §3: a listening socket,
// the client registry, a FIFO of pending events, and a running flag. It is
// driven entirely from one goroutine via Accept; Shutdown is the only
// method safe to call from another goroutine (it flips an atomic flag the
// loop observes at its next poll timeout).
type Server struct {
	cfg        Config
	ln         *net.TCPListener
	listenerFD int
	reg        *registry
	queue      []Event
	running    atomic.Bool
}

// Listen binds port and returns a Server ready to drive Accept, per
// spec.md §4.F. port must be in [1, 65535].
func Listen(port int, cfg Config) (*Server, error) {
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("wsserver: invalid port %d", port)
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("wsserver: listen: %w", err)
	}
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		_ = ln.Close()
		return nil, fmt.Errorf("wsserver: listener is not TCP")
	}
	fd, err := connFD(tcpLn)
	if err != nil {
		_ = tcpLn.Close()
		return nil, fmt.Errorf("wsserver: extracting listener fd: %w", err)
	}

	s := &Server{
		cfg:        cfg,
		ln:         tcpLn,
		listenerFD: fd,
		reg:        newRegistry(),
	}
	s.running.Store(true)
	return s, nil
}

// Addr returns the bound address, mostly useful for tests that need to
// dial the server.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Shutdown clears the running flag; the loop observes it at its next
// poll timeout and Accept starts returning EventShutdown. Safe to call
// from a goroutine other than the one driving Accept.
func (s *Server) Shutdown() {
	s.running.Store(false)
}

// Close implements spec.md §4.F close(id): idempotent, a no-op if id is
// absent, otherwise tears the client down and — if it had completed the
// WebSocket upgrade — enqueues exactly one Disconnected(id).
func (s *Server) Close(id int64) {
	c, ok := s.reg.get(id)
	if !ok {
		return
	}
	wasUpgraded := c.upgraded
	traceID := c.traceID
	s.reg.remove(id)
	if wasUpgraded {
		s.queue = append(s.queue, Event{Kind: EventDisconnected, ID: id, TraceID: traceID})
	}
}

// Send writes a single text frame to an upgraded, open client, per
// spec.md §4.F. It returns an error without mutating the registry if id
// is unknown, not upgraded, or already closed.
func (s *Server) Send(id int64, text string) error {
	c, ok := s.reg.get(id)
	if !ok || c.closed || !c.upgraded {
		return fmt.Errorf("wsserver: send: unknown or closed client %d", id)
	}
	if err := writeFrame(c.conn, opCodeText, []byte(text)); err != nil {
		return fmt.Errorf("wsserver: send to %d: %w", id, err)
	}
	return nil
}

// Broadcast writes text to every currently upgraded client, including
// the sender if it is one of them (spec.md §9 open question, resolved:
// preserved). Per-client write failures are swallowed, per spec.md §4.F —
// that client's eventual eviction is discovered by the poll loop.
func (s *Server) Broadcast(text string) {
	payload := []byte(text)
	for _, c := range s.reg.iterUpgraded() {
		_ = writeFrame(c.conn, opCodeText, payload)
	}
}
