// Package session drives one vehicle connection through its lifecycle:
// dial, wait for a heartbeat, resolve identity, stream telemetry, and
// reconnect on failure. It is the component every transfer engine and
// the telemetry aggregator sits on top of.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/config"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/events"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/link"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/metrics"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/transport"
)

// Identity is what the session learns about the vehicle during the
// Identifying state.
type Identity struct {
	SystemID        byte
	ComponentID     byte
	Autopilot       mavlink.MavAutopilot
	VehicleType     mavlink.MavType
	Capabilities    uint64
	FirmwareVersion string // set once AUTOPILOT_VERSION arrives, empty until then
}

// RequestClass names a family of single-in-flight request/response
// exchanges (parameter, mission, command) so concurrent callers from
// different transfer engines don't interleave requests the vehicle can
// only answer one at a time.
type RequestClass string

const (
	ClassParameter RequestClass = "parameter"
	ClassMission   RequestClass = "mission"
	ClassCommand   RequestClass = "command"
)

// Session manages the lifecycle of a single vehicle connection.
type Session struct {
	cfg     config.LinkConfig
	bus     *events.Bus
	metrics *metrics.Registry
	logger  *log.Logger

	mu       sync.RWMutex
	state    events.ConnectionState
	identity Identity
	link     *link.Link

	slots map[RequestClass]*semaphore.Weighted

	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs a Session. Call Run to start it.
func New(cfg config.LinkConfig, bus *events.Bus, m *metrics.Registry, logger *log.Logger) *Session {
	return &Session{
		cfg:     cfg,
		bus:     bus,
		metrics: m,
		logger:  logger,
		state:   events.StateDisconnected,
		slots: map[RequestClass]*semaphore.Weighted{
			ClassParameter: semaphore.NewWeighted(1),
			ClassMission:   semaphore.NewWeighted(1),
			ClassCommand:   semaphore.NewWeighted(1),
		},
	}
}

// State returns the current connection state.
func (s *Session) State() events.ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns the resolved vehicle identity, valid once State() is
// StateConnected or later.
func (s *Session) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// AcquireSlot blocks until the named request class's single in-flight
// slot is free, in FIFO order, or ctx is cancelled. Callers must Release
// exactly once.
func (s *Session) AcquireSlot(ctx context.Context, class RequestClass) error {
	sem := s.slots[class]
	if sem == nil {
		return fmt.Errorf("session: unknown request class %q", class)
	}
	return sem.Acquire(ctx, 1)
}

// ReleaseSlot releases a previously acquired slot.
func (s *Session) ReleaseSlot(class RequestClass) {
	if sem := s.slots[class]; sem != nil {
		sem.Release(1)
	}
}

// Send encodes and writes msg over the active link. It returns an error
// if the session is not currently connected.
func (s *Session) Send(ctx context.Context, msg mavlink.Message) error {
	s.mu.RLock()
	l := s.link
	s.mu.RUnlock()
	if l == nil {
		return fmt.Errorf("session: not connected")
	}
	return l.SendMessage(ctx, msg)
}

func (s *Session) setState(to events.ConnectionState, err error) {
	s.mu.Lock()
	from := s.state
	s.state = to
	s.mu.Unlock()

	if from == to {
		return
	}
	s.metrics.ConnectionState.Set(float64(to))
	s.bus.Publish(events.ConnectionStateChanged{From: from, To: to, Err: err})
	s.logger.Printf("session: %s -> %s", from, to)
}

// Run dials dialer, drives the session state machine, and keeps
// reconnecting (if cfg.AutoReconnect) until ctx is cancelled. It blocks
// until ctx is done; without AutoReconnect it instead returns as soon as
// the first connection ends, with that connection's error.
func (s *Session) Run(ctx context.Context, dialer transport.Dialer, onFrame func(*mavlink.Frame)) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	defer close(s.done)

	attempt := 0
	for {
		err := s.connectOnce(ctx, dialer, onFrame)
		if ctx.Err() != nil {
			s.setState(events.StateDisconnected, nil)
			return nil
		}
		if !s.cfg.AutoReconnect {
			s.setState(events.StateDisconnected, err)
			return err
		}

		s.setState(events.StateReconnecting, err)
		delay := transport.BackoffFor(attempt)
		attempt++
		select {
		case <-ctx.Done():
			s.setState(events.StateDisconnected, nil)
			return nil
		case <-time.After(delay):
		}
	}
}

// Stop cancels a running session and waits for Run to return.
func (s *Session) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
}

func (s *Session) connectOnce(ctx context.Context, dialer transport.Dialer, onFrame func(*mavlink.Frame)) error {
	s.setState(events.StateOpening, nil)

	t, err := dialer.Dial(ctx)
	if err != nil {
		return fmt.Errorf("session: dial %s: %w", dialer.String(), err)
	}

	l := link.New(dialer, t, s.metrics, s.logger)
	s.mu.Lock()
	s.link = l
	s.mu.Unlock()
	defer func() {
		l.Close()
		s.mu.Lock()
		s.link = nil
		s.mu.Unlock()
	}()

	s.setState(events.StateAwaitingHeartbeat, nil)

	watchdog := time.Duration(s.cfg.HeartbeatTimeMs) * time.Millisecond
	if watchdog <= 0 {
		watchdog = 5 * time.Second
	}

	readCtx, cancelRead := context.WithCancel(ctx)
	defer cancelRead()

	frames := make(chan *mavlink.Frame)
	readErr := make(chan error, 1)
	go func() {
		for {
			f, err := l.ReadFrame(readCtx)
			if err != nil {
				readErr <- err
				return
			}
			select {
			case frames <- f:
			case <-readCtx.Done():
				return
			}
		}
	}()

	identified := false
	versionRequested := false
	stopHB := s.startGroundStationHeartbeat(readCtx, l)
	defer stopHB()

	timer := time.NewTimer(watchdog)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return fmt.Errorf("session: link read failed: %w", err)
		case <-timer.C:
			return fmt.Errorf("session: heartbeat timeout after %s", watchdog)
		case f := <-frames:
			if f.MsgID == 0 { // only a HEARTBEAT feeds the watchdog
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(watchdog)
			}

			switch f.MsgID {
			case 0: // HEARTBEAT
				var hb mavlink.MessageHeartbeat
				if err := mavlink.DecodeMessage(f, &hb); err == nil && !identified {
					s.mu.Lock()
					s.identity = Identity{
						SystemID:    f.SysID,
						ComponentID: f.CompID,
						Autopilot:   mavlink.MavAutopilot(hb.Autopilot),
						VehicleType: mavlink.MavType(hb.Type),
					}
					s.mu.Unlock()
					identified = true
					s.setState(events.StateIdentifying, nil)
				}
				// Identifying only completes once AUTOPILOT_VERSION arrives
				// (case 148 below); a HEARTBEAT alone is not enough.
				if identified && !versionRequested {
					versionRequested = true
					if err := s.requestAutopilotVersion(ctx, l, f.SysID, f.CompID); err != nil {
						s.logger.Printf("session: autopilot version request failed: %v", err)
					}
				}
			case 148: // AUTOPILOT_VERSION
				if identified && s.State() == events.StateIdentifying {
					var av mavlink.MessageAutopilotVersion
					if err := mavlink.DecodeMessage(f, &av); err == nil {
						s.mu.Lock()
						s.identity.Capabilities = av.Capabilities
						s.identity.FirmwareVersion = mavlink.FormatFirmwareVersion(av.FlightSwVersion)
						s.mu.Unlock()
						if err := s.requestTelemetryStreams(ctx, l); err != nil {
							s.logger.Printf("session: stream rate request failed: %v", err)
						}
						s.setState(events.StateConnected, nil)
					}
				}
			}

			name := fmt.Sprintf("UNKNOWN_%d", f.MsgID)
			if def, ok := mavlink.Lookup(f.MsgID); ok {
				name = def.Name
			}
			s.bus.Publish(events.MessageReceived{Protocol: "mavlink", Name: name, Raw: f})

			if onFrame != nil {
				onFrame(f)
			}
		}
	}
}

// startGroundStationHeartbeat emits a ground-station HEARTBEAT and
// SYSTEM_TIME every second until ctx is cancelled, the conventional way
// a GCS announces its own presence to the autopilot.
func (s *Session) startGroundStationHeartbeat(ctx context.Context, l *link.Link) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				_ = l.SendMessage(ctx, &mavlink.MessageHeartbeat{
					Type:           uint8(mavlink.MavTypeGCS),
					Autopilot:      uint8(mavlink.MavAutopilotInvalid),
					MavlinkVersion: 3,
				})
				_ = l.SendMessage(ctx, &mavlink.MessageSystemTime{
					TimeUnixUsec: uint64(time.Now().UnixMicro()),
				})
			}
		}
	}()
	return func() { close(stop) }
}

// requestAutopilotVersion asks the vehicle to send AUTOPILOT_VERSION via
// the generic MAV_CMD_REQUEST_MESSAGE, the mechanism that supersedes the
// old implicit "ask once and hope" behavior. Identifying does not advance
// to Connected until the response arrives.
func (s *Session) requestAutopilotVersion(ctx context.Context, l *link.Link, targetSys, targetComp byte) error {
	return l.SendMessage(ctx, &mavlink.MessageCommandLong{
		TargetSystem:    targetSys,
		TargetComponent: targetComp,
		Command:         mavlink.MavCmdRequestMessage,
		Param1:          148, // AUTOPILOT_VERSION
	})
}

// requestTelemetryStreams asks the vehicle for the message rates this
// process needs, using MESSAGE_INTERVAL (the modern, per-message
// mechanism) at a rate derived from cfg.TelemetryRate.
func (s *Session) requestTelemetryStreams(ctx context.Context, l *link.Link) error {
	intervalUsec := telemetryIntervalUsec(s.cfg.TelemetryRate)

	streamMessages := []uint16{0, 1, 24, 30, 33, 65, 74, 147, 245}
	for _, id := range streamMessages {
		msg := &mavlink.MessageMessageInterval{MessageID: id, IntervalUsec: intervalUsec}
		if err := l.SendMessage(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func telemetryIntervalUsec(rate string) int32 {
	switch rate {
	case "slow":
		return 1_000_000
	case "fast":
		return 100_000
	default:
		return 250_000
	}
}
