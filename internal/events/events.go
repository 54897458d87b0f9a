// Package events defines the typed notifications the session core emits
// and a small pub-sub bus to deliver them, the single "event surface"
// every other component (telemetry, transfer, diagnostics) subscribes
// to instead of polling shared state.
package events

import (
	"sync"

	"github.com/google/uuid"
)

// ConnectionState mirrors the session state machine's states.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateOpening
	StateAwaitingHeartbeat
	StateIdentifying
	StateConnected
	StateReconnecting
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateOpening:
		return "opening"
	case StateAwaitingHeartbeat:
		return "awaiting_heartbeat"
	case StateIdentifying:
		return "identifying"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// ConnectionStateChanged is published every time the session transitions.
type ConnectionStateChanged struct {
	From ConnectionState
	To   ConnectionState
	Err  error // set when the transition was caused by a failure
}

// TelemetryUpdated carries a copy of the whole VehicleState, published at
// most once per internal/telemetry's coalescing window however many
// fields changed within it.
type TelemetryUpdated struct {
	Snapshot any // *telemetry.VehicleState; any avoids an import cycle
}

// MessageReceived is an optional diagnostic feed event, not required for
// normal operation, fired for every decoded inbound message when a
// subscriber exists.
type MessageReceived struct {
	Protocol string // "mavlink" or "msp"
	Name     string
	Raw      any
}

// ParameterProgress/Completed/Error report a parameter download/set.
type ParameterProgress struct {
	Index, Total int
	Name         string
}

type ParameterCompleted struct {
	Name  string
	Value float32
}

type ParameterError struct {
	Name string
	Err  error
}

// MissionProgress/Completed/Failed report a mission/fence/rally transfer.
type MissionProgress struct {
	Kind       string // "mission", "fence", "rally"
	Seq, Total int
}

type MissionCompleted struct {
	Kind  string
	Count int
}

type MissionFailed struct {
	Kind string
	Err  error
}

// CommandAcknowledged reports a COMMAND_LONG/INT outcome.
type CommandAcknowledged struct {
	Command uint16
	Result  uint8
}

// Subscription is the handle returned by Bus.Subscribe; pass it to
// Bus.Unsubscribe to stop receiving events.
type Subscription uuid.UUID

// Bus is a process-local, fan-out pub-sub bus. Publish never blocks on a
// slow subscriber: each subscriber has its own bounded channel, and a
// full channel drops the event rather than stalling the publisher. This
// policy covers bus events only; the session has no outbound queue, and
// Session.Send writes each message straight to the link.
type Bus struct {
	mu   sync.RWMutex
	subs map[Subscription]chan any
}

// NewBus returns an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Subscription]chan any)}
}

// Subscribe returns a channel of all future published events and a
// handle to later Unsubscribe. bufSize bounds the channel; a slow
// consumer drops events once it fills rather than blocking publishers.
func (b *Bus) Subscribe(bufSize int) (Subscription, <-chan any) {
	if bufSize <= 0 {
		bufSize = 32
	}
	ch := make(chan any, bufSize)
	id := Subscription(uuid.New())

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(id Subscription) {
	b.mu.Lock()
	ch, ok := b.subs[id]
	delete(b.subs, id)
	b.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Publish fans event out to every current subscriber, dropping it for
// any subscriber whose buffer is full.
func (b *Bus) Publish(event any) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
