// Package wsserver implements a single-threaded, poll-driven WebSocket
// server: the HTTP-to-WebSocket upgrade handshake, the RFC 6455 frame
// codec, a connection registry, and the event loop that multiplexes a
// listening socket with its clients into one ordered stream of Events.
//
// There is exactly one goroutine driving Accept at any time; nothing in
// this package takes a lock because nothing is shared across goroutines
// except the atomic running flag Shutdown flips.
package wsserver
