// Package chatapp is the application layer sitting above internal/wsserver
// (spec.md §2): it drives Accept in a loop, turns Connected/Disconnected
// into join/leave announcements, wraps every Message in the broadcast
// envelope from internal/protocol, and renders every event as a
// structured log line — the "logger sink" spec.md §1 treats as an
// external collaborator.
package chatapp

import (
	"github.com/rs/zerolog"

	"github.com/codegod100/chatserver/internal/protocol"
	"github.com/codegod100/chatserver/internal/wsserver"
)

// App is the recursive accept/dispatch loop from spec.md §9, rewritten as
// the natural bounded-stack iterative form for a systems-language port.
type App struct {
	srv *wsserver.Server
	log zerolog.Logger
}

// New builds an App driving srv, logging through log.
func New(srv *wsserver.Server, log zerolog.Logger) *App {
	return &App{srv: srv, log: log}
}

// Run calls Accept in a loop until it observes EventShutdown. It never
// returns an error: every recoverable condition is logged and the loop
// continues, matching spec.md §7's propagation policy.
func (a *App) Run() {
	for {
		ev := a.srv.Accept()
		switch ev.Kind {
		case wsserver.EventConnected:
			a.onConnected(ev.ID, ev.TraceID)
		case wsserver.EventDisconnected:
			a.onDisconnected(ev.ID, ev.TraceID)
		case wsserver.EventMessage:
			a.onMessage(ev.ID, ev.TraceID, ev.Text)
		case wsserver.EventError:
			a.log.Warn().Err(ev.Err).Msg("recoverable event-loop error")
		case wsserver.EventShutdown:
			a.log.Info().Msg("server shutting down")
			return
		}
	}
}

func (a *App) onConnected(id int64, traceID string) {
	a.log.Info().Int64("client_id", id).Str("trace_id", traceID).Msg("client connected")
	if err := a.srv.Send(id, protocol.Encode(protocol.NewSystem("welcome"))); err != nil {
		a.log.Warn().Int64("client_id", id).Str("trace_id", traceID).Err(err).Msg("welcome send failed")
	}
	a.srv.Broadcast(protocol.Encode(protocol.NewSystem(joinedText(id))))
}

func (a *App) onDisconnected(id int64, traceID string) {
	a.log.Info().Int64("client_id", id).Str("trace_id", traceID).Msg("client disconnected")
	a.srv.Broadcast(protocol.Encode(protocol.NewSystem(leftText(id))))
}

func (a *App) onMessage(id int64, traceID, text string) {
	a.log.Debug().Int64("client_id", id).Str("trace_id", traceID).Str("text", text).Msg("message received")
	a.srv.Broadcast(protocol.Encode(protocol.NewMessage(id, text)))
}
