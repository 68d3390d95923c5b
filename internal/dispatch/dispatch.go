// Package dispatch reacts to data-change events with push notifications.
//
// Each triggering record runs a short-lived state machine:
//
//	Triggered → Resolving → (Suppressed | Dispatched | Failed)
//
// Suppression is the normal outcome for anything that makes delivery
// impossible or unwanted — a missing chat, a recipient without a device
// token, a notification record of the wrong type. Failed covers read errors
// and delivery errors; it is logged and otherwise not observable, and
// nothing is retried. Every trigger makes at most one delivery attempt.
package dispatch

import (
	"log/slog"

	"github.com/hubgrove/hubgrove-engine/internal/push"
	"github.com/hubgrove/hubgrove-engine/internal/store"
)

// State is a dispatch state machine state.
type State int

const (
	StateTriggered State = iota
	StateResolving
	StateSuppressed
	StateDispatched
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateTriggered:
		return "triggered"
	case StateResolving:
		return "resolving"
	case StateSuppressed:
		return "suppressed"
	case StateDispatched:
		return "dispatched"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the terminal state of one dispatch, with the reason for
// suppression or failure.
type Outcome struct {
	State  State
	Reason string
}

func suppressed(reason string) Outcome {
	return Outcome{State: StateSuppressed, Reason: reason}
}

func failed(reason string) Outcome {
	return Outcome{State: StateFailed, Reason: reason}
}

var dispatched = Outcome{State: StateDispatched}

// Dispatcher resolves recipients for triggering records and requests
// delivery. Store and sender are injected so tests can observe lookups and
// sends.
type Dispatcher struct {
	store  store.Store
	sender push.Sender
	logger *slog.Logger
}

// New creates a Dispatcher.
func New(st store.Store, sender push.Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{store: st, sender: sender, logger: logger}
}
