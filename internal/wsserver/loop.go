package wsserver

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// Accept drives the event loop until exactly one high-level event is
// available, per spec.md §4.D. It is the only method a caller should ever
// invoke in a tight loop; everything else (Send, Broadcast, Close,
// Shutdown) is cheap and synchronous.
func (s *Server) Accept() Event {
	for {
		if len(s.queue) > 0 {
			e := s.queue[0]
			s.queue = s.queue[1:]
			return e
		}
		if !s.running.Load() {
			return Event{Kind: EventShutdown}
		}
		if err := s.pollOnce(); err != nil {
			// A poll(2) failure is fatal: surface it once, then stop.
			s.running.Store(false)
			return Event{Kind: EventError, Err: err}
		}
	}
}

// pollOnce runs one iteration of spec.md §4.D steps 3–8: build the poll
// set, wait, then dispatch every readable fd. It returns only on a
// non-recoverable poll(2) failure; timeouts and ordinary dispatch both
// return nil so Accept loops back to check the queue.
func (s *Server) pollOnce() error {
	targets := s.reg.pollTargets()
	fds := make([]unix.PollFd, 1+len(targets))
	fds[0] = unix.PollFd{Fd: int32(s.listenerFD), Events: unix.POLLIN}
	for i, t := range targets {
		fds[i+1] = unix.PollFd{Fd: int32(t.fd), Events: unix.POLLIN}
	}

	timeoutMS := int(s.cfg.PollTimeout / time.Millisecond)
	n, err := unix.Poll(fds, timeoutMS)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return nil
		}
		return err
	}
	if n == 0 {
		return nil // timeout: periodic wake-up to re-check the running flag
	}

	if fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
		s.handleListenerReadable()
	}
	for i, t := range targets {
		revents := fds[i+1].Revents
		if revents == 0 {
			continue
		}
		if revents&unix.POLLIN != 0 {
			s.handleClientReadable(t.id)
			continue
		}
		if revents&(unix.POLLHUP|unix.POLLERR) != 0 {
			s.evict(t.id)
		}
	}
	return nil
}

// handleListenerReadable accepts exactly one pending TCP connection and
// drives its handshake synchronously (spec.md §4.D step 5). A client that
// fails to upgrade is removed before any event is emitted, matching
// spec.md §3's invariant that a Client is "upgraded" before any Message
// or Disconnected referencing it is emitted.
func (s *Server) handleListenerReadable() {
	conn, err := s.ln.Accept()
	if err != nil {
		s.queue = append(s.queue, Event{Kind: EventError, Err: err})
		return
	}

	c, err := s.reg.insert(conn)
	if err != nil {
		_ = conn.Close()
		s.queue = append(s.queue, Event{Kind: EventError, Err: err})
		return
	}
	s.setReadDeadline(c)

	outcome, err := performHandshake(c.conn, c.br, s.cfg)
	switch outcome {
	case outcomeUpgraded:
		c.upgraded = true
		s.queue = append(s.queue, Event{Kind: EventConnected, ID: c.id, TraceID: c.traceID})
	case outcomeStatic:
		s.reg.remove(c.id)
	case outcomeRejected:
		s.reg.remove(c.id)
		if err != nil {
			s.queue = append(s.queue, Event{Kind: EventError, Err: err})
		}
	}
}

// handleClientReadable parses exactly one frame from an already-readable
// client and dispatches it per spec.md §4.D step 6.
func (s *Server) handleClientReadable(id int64) {
	c, ok := s.reg.get(id)
	if !ok {
		return // already handled earlier in this same poll cycle
	}
	s.setReadDeadline(c)

	frame, err := parseFrame(c.br, s.cfg.MaxFrameBytes)
	if err != nil {
		s.evict(id)
		return
	}

	switch frame.kind {
	case inboundText:
		s.queue = append(s.queue, Event{Kind: EventMessage, ID: id, TraceID: c.traceID, Text: string(frame.payload)})
	case inboundClose:
		_ = writeFrame(c.conn, opCodeClose, frame.payload)
		s.evict(id)
	case inboundPing:
		_ = writeFrame(c.conn, opCodePong, frame.payload)
	case inboundPong:
		// discarded, per spec.md §4.A
	}
}

// evict removes a client and, if it had completed the WebSocket upgrade,
// enqueues exactly one Disconnected(id) — the destruction path shared by
// close frames, read/write errors, and HUP/ERR poll events (spec.md §3
// Lifecycle).
func (s *Server) evict(id int64) {
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

func (s *Server) setReadDeadline(c *client) {
	if s.cfg.ReadTimeout <= 0 {
		return
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
}
