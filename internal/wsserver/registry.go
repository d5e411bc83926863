package wsserver

import (
	"bufio"
	"fmt"
	"net"
	"sort"
	"syscall"

	"github.com/google/uuid"
)

// client is a live peer, per spec.md §3. traceID exists purely so the
// application's structured logs can correlate lines for one connection;
// it is surfaced on Event and logged alongside the client id, but never
// substitutes for the monotonic id in any event or invariant.
type client struct {
	id       int64
	traceID  string
	conn     net.Conn
	fd       int
	br       *bufio.Reader
	upgraded bool
	closed   bool
}

// connFD extracts the OS file descriptor backing a *net.TCPConn or
// *net.TCPListener without taking ownership of it — reads/writes/Close
// still go through the normal net.Conn/net.Listener, the fd is only used
// as a poll(2) key.
func connFD(c syscall.Conn) (int, error) {
	raw, err := c.SyscallConn()
	if err != nil {
		return 0, err
	}
	var fd int
	var ctrlErr error
	if err := raw.Control(func(fdv uintptr) {
		fd = int(fdv)
	}); err != nil {
		ctrlErr = err
	}
	if ctrlErr != nil {
		return 0, ctrlErr
	}
	return fd, nil
}

// registry is the mapping from client id to client described in
// spec.md §4.C. It is exclusively owned by the single event-loop
// goroutine; nothing else in this package touches it concurrently.
type registry struct {
	clients map[int64]*client
	nextID  int64
}

func newRegistry() *registry {
	return &registry{clients: make(map[int64]*client)}
}

// insert assigns the next monotonic id (starting at 1, spec.md §3) and
// registers conn under it.
func (r *registry) insert(conn net.Conn) (*client, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return nil, fmt.Errorf("wsserver: connection of type %T exposes no raw fd", conn)
	}
	fd, err := connFD(sc)
	if err != nil {
		return nil, err
	}
	r.nextID++
	c := &client{
		id:      r.nextID,
		traceID: uuid.NewString(),
		conn:    conn,
		fd:      fd,
		br:      bufio.NewReader(conn),
	}
	r.clients[c.id] = c
	return c, nil
}

func (r *registry) get(id int64) (*client, bool) {
	c, ok := r.clients[id]
	return c, ok
}

// remove extracts id's entry, closes its socket, and drops it from the
// registry. Safe to call on an absent id (no-op), satisfying the
// idempotence spec.md §8 requires of Close.
func (r *registry) remove(id int64) {
	c, ok := r.clients[id]
	if !ok {
		return
	}
	c.closed = true
	_ = c.conn.Close()
	delete(r.clients, id)
}

// iterUpgraded enumerates every upgraded, not-closed client for
// broadcast, in ascending id order — a stable order for the duration of
// one Accept-driven pass, per spec.md §4.C.
func (r *registry) iterUpgraded() []*client {
	out := make([]*client, 0, len(r.clients))
	for _, c := range r.clients {
		if c.upgraded && !c.closed {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// pollTarget is one (id, fd) pair to watch for readability, per
// spec.md §4.C fds_for_poll.
type pollTarget struct {
	id int64
	fd int
}

func (r *registry) pollTargets() []pollTarget {
	out := make([]pollTarget, 0, len(r.clients))
	for _, c := range r.clients {
		if !c.closed {
			out = append(out, pollTarget{id: c.id, fd: c.fd})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
