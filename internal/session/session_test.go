package session

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/config"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/events"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/metrics"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/transport"
)

// pipeTransport is an in-memory Transport over an io.Pipe, used to drive
// the session state machine without a real serial/network link.
type pipeTransport struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (p *pipeTransport) Read(ctx context.Context, buf []byte) (int, error) { return p.r.Read(buf) }
func (p *pipeTransport) Write(ctx context.Context, buf []byte) error      { _, err := p.w.Write(buf); return err }
func (p *pipeTransport) Close() error                                     { p.r.Close(); return p.w.Close() }

type fakeDialer struct {
	t transport.Transport
}

func (f *fakeDialer) Dial(ctx context.Context) (transport.Transport, error) { return f.t, nil }
func (f *fakeDialer) String() string                                       { return "fake://" }

// newTestSession wires a Session to one end of an in-memory pipe pair and
// returns the session, a fakeDialer that hands it the GCS-side transport,
// and the vehicle-side transport the test writes simulated vehicle frames
// to.
func newTestSession(t *testing.T) (*Session, *fakeDialer, *pipeTransport, <-chan any) {
	t.Helper()
	vehicleR, gcsW := io.Pipe()
	gcsR, vehicleW := io.Pipe()

	gcsSide := &pipeTransport{r: gcsR, w: gcsW}
	vehicleSide := &pipeTransport{r: vehicleR, w: vehicleW}
	// io.Pipe writes block until read: drain what the session sends so its
	// outbound requests and heartbeats never stall the state machine.
	go io.Copy(io.Discard, vehicleR)

	cfg := config.LinkConfig{AutoReconnect: false, HeartbeatTimeMs: 2000, TelemetryRate: "normal"}
	logger := log.New(io.Discard, "", 0)
	bus := events.NewBus()
	m := metrics.New()

	sess := New(cfg, bus, m, logger)
	_, ch := bus.Subscribe(16)

	t.Cleanup(func() { vehicleSide.Close() })

	return sess, &fakeDialer{t: gcsSide}, vehicleSide, ch
}

func sendHeartbeat(t *testing.T, vehicleSide *pipeTransport) {
	t.Helper()
	raw, err := mavlink.EncodeFrame(2, 0, 1, 1, &mavlink.MessageHeartbeat{
		Type:      uint8(mavlink.MavTypeQuadrotor),
		Autopilot: uint8(mavlink.MavAutopilotArduPilot),
	})
	require.NoError(t, err, "encode heartbeat")
	require.NoError(t, vehicleSide.Write(context.Background(), raw))
}

func sendAutopilotVersion(t *testing.T, vehicleSide *pipeTransport) {
	t.Helper()
	raw, err := mavlink.EncodeFrame(2, 1, 1, 1, &mavlink.MessageAutopilotVersion{
		Capabilities:    0xABCD,
		FlightSwVersion: 4<<24 | 3<<16 | 0<<8,
	})
	require.NoError(t, err, "encode autopilot version")
	require.NoError(t, vehicleSide.Write(context.Background(), raw))
}

// TestSessionReachesConnectedOnHeartbeatAndAutopilotVersion covers the
// full Identifying -> Connected path: a HEARTBEAT alone only reaches
// Identifying, and Connected is only reached once AUTOPILOT_VERSION has
// also been gathered.
func TestSessionReachesConnectedOnHeartbeatAndAutopilotVersion(t *testing.T) {
	sess, dialer, vehicleSide, ch := newTestSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	go sess.Run(ctx, dialer, nil)

	go func() {
		time.Sleep(100 * time.Millisecond)
		sendHeartbeat(t, vehicleSide)
		time.Sleep(100 * time.Millisecond)
		sendAutopilotVersion(t, vehicleSide)
	}()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if sc, ok := ev.(events.ConnectionStateChanged); ok && sc.To == events.StateConnected {
				require.Equal(t, mavlink.MavAutopilotArduPilot, sess.Identity().Autopilot)
				require.Equal(t, "4.3.0", sess.Identity().FirmwareVersion)
				require.Equal(t, uint64(0xABCD), sess.Identity().Capabilities)
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for StateConnected")
		}
	}
}

// TestSessionStaysIdentifyingWithoutAutopilotVersion is scenario S1: only
// a HEARTBEAT is ever supplied, so the session must stop at Identifying
// and never reach Connected.
func TestSessionStaysIdentifyingWithoutAutopilotVersion(t *testing.T) {
	sess, dialer, vehicleSide, ch := newTestSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	go sess.Run(ctx, dialer, nil)

	go func() {
		time.Sleep(100 * time.Millisecond)
		sendHeartbeat(t, vehicleSide)
	}()

	reachedIdentifying := false
	deadline := time.After(1 * time.Second)
	for {
		select {
		case ev := <-ch:
			sc, ok := ev.(events.ConnectionStateChanged)
			if !ok {
				continue
			}
			require.NotEqual(t, events.StateConnected, sc.To, "session reached Connected without AUTOPILOT_VERSION")
			if sc.To == events.StateIdentifying {
				reachedIdentifying = true
			}
		case <-deadline:
			require.True(t, reachedIdentifying, "session never reached Identifying")
			require.Equal(t, events.StateIdentifying, sess.State())
			return
		}
	}
}
