package telemetry

import (
	"testing"
	"time"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/events"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
)

func encodeTestFrame(t *testing.T, msg mavlink.Message) *mavlink.Frame {
	t.Helper()
	raw, err := mavlink.EncodeFrame(2, 0, 1, 1, msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	f, _, err := mavlink.DecodeFrame(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return f
}

func TestAggregatorNormalizesPositionUnits(t *testing.T) {
	bus := events.NewBus()
	agg := NewAggregator(bus, ByAutopilot)

	f := encodeTestFrame(t, &mavlink.MessageGlobalPositionInt{
		Lat: 473977420, Lon: 85455940, Alt: 150000, RelativeAlt: 50000,
		Vx: 100, Vy: -200, Vz: 0, Hdg: 9000,
	})
	agg.HandleFrame(f)

	snap := agg.Snapshot()
	if snap.Lat != 47.397742 {
		t.Errorf("lat = %v, want 47.397742", snap.Lat)
	}
	if snap.AltMSL != 150.0 {
		t.Errorf("alt msl = %v, want 150.0", snap.AltMSL)
	}
	if snap.VelN != 1.0 || snap.VelE != -2.0 {
		t.Errorf("vel = %v,%v want 1.0,-2.0", snap.VelN, snap.VelE)
	}
	if snap.Heading != 90.0 {
		t.Errorf("heading = %v, want 90.0", snap.Heading)
	}
}

func TestAggregatorResolvesArduPilotCopterMode(t *testing.T) {
	bus := events.NewBus()
	agg := NewAggregator(bus, ByAutopilot)

	f := encodeTestFrame(t, &mavlink.MessageHeartbeat{
		Type:       uint8(mavlink.MavTypeQuadrotor),
		Autopilot:  uint8(mavlink.MavAutopilotArduPilot),
		CustomMode: 5, // LOITER
		BaseMode:   uint8(mavlink.MavModeFlagSafetyArmed),
	})
	agg.HandleFrame(f)

	snap := agg.Snapshot()
	if snap.FlightMode != "LOITER" {
		t.Errorf("flight mode = %q, want LOITER", snap.FlightMode)
	}
	if !snap.Armed {
		t.Error("expected armed")
	}
}

func TestAggregatorPublishesCoalescedUpdate(t *testing.T) {
	bus := events.NewBus()
	agg := NewAggregator(bus, ByAutopilot)
	_, ch := bus.Subscribe(4)

	agg.HandleFrame(encodeTestFrame(t, &mavlink.MessageAttitude{Roll: 0}))
	agg.HandleFrame(encodeTestFrame(t, &mavlink.MessageVfrHud{Airspeed: 12.5}))

	select {
	case ev := <-ch:
		up, ok := ev.(events.TelemetryUpdated)
		if !ok {
			t.Fatalf("unexpected event type %T", ev)
		}
		snap, ok := up.Snapshot.(*VehicleState)
		if !ok || snap.Airspeed != 12.5 {
			t.Errorf("unexpected snapshot: %+v", up.Snapshot)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timed out waiting for coalesced update")
	}
}
