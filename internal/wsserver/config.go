package wsserver

import "time"

// Config tunes the server's wire-level ceilings and timeouts. A zero Config
// is not valid on its own; use DefaultConfig and override individual
// fields.
type Config struct {
	// StaticRoot is the directory non-upgrade GET requests are served from.
	StaticRoot string

	// MaxFrameBytes is the inbound WebSocket payload ceiling (spec ceiling:
	// 65536). Frames claiming a larger length are a protocol error.
	MaxFrameBytes int64

	// MaxHeaderBytes bounds the HTTP request line + header block read
	// during the handshake.
	MaxHeaderBytes int

	// MaxStaticFileBytes bounds how much of a static file is read into
	// memory before a request is answered with 500 instead.
	MaxStaticFileBytes int64

	// PollTimeout bounds a single poll(2) wait; it exists only so the loop
	// periodically re-checks the running flag for shutdown.
	PollTimeout time.Duration

	// ReadTimeout, if non-zero, is set as a read deadline on every client
	// socket before the handshake read and before each frame read. A read
	// that blocks past it (a stalled handshake or a partial frame) fails and
	// the client is evicted like any other connection error. Frame reads
	// only start once poll reports the socket readable, so an upgraded
	// client that sends nothing at all is not evicted by this timeout.
	ReadTimeout time.Duration
}

// DefaultConfig returns the ceilings and timeouts spec.md suggests.
func DefaultConfig() Config {
	return Config{
		StaticRoot:         "static",
		MaxFrameBytes:      65536,
		MaxHeaderBytes:     4096,
		MaxStaticFileBytes: 1 << 20,
		PollTimeout:        5 * time.Second,
		ReadTimeout:        30 * time.Second,
	}
}
