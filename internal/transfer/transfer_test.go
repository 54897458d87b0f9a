package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/events"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/gcserr"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/session"
)

// fakeSender records sent messages and never blocks on slots, letting
// tests drive the vehicle side of an exchange deterministically.
type fakeSender struct {
	bus  *events.Bus
	sent []mavlink.Message
}

func (f *fakeSender) Send(ctx context.Context, msg mavlink.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}
func (f *fakeSender) AcquireSlot(ctx context.Context, class session.RequestClass) error { return nil }
func (f *fakeSender) ReleaseSlot(class session.RequestClass)                            {}

func frameFor(t *testing.T, msg mavlink.Message) *mavlink.Frame {
	t.Helper()
	raw, err := mavlink.EncodeFrame(2, 0, 1, 1, msg)
	require.NoError(t, err, "encode")
	f, _, err := mavlink.DecodeFrame(raw)
	require.NoError(t, err, "decode")
	return f
}

func TestParamSetSucceedsOnEcho(t *testing.T) {
	bus := events.NewBus()
	fs := &fakeSender{bus: bus}
	eng := NewParamEngine(fs, bus, nil)

	go func() {
		time.Sleep(20 * time.Millisecond)
		f := frameFor(t, &mavlink.MessageParamValue{ParamID: "WPNAV_SPEED", ParamValue: 500, ParamCount: 1, ParamIndex: 0})
		bus.Publish(events.MessageReceived{Protocol: "mavlink", Name: "PARAM_VALUE", Raw: f})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, eng.Set(ctx, 1, 1, "WPNAV_SPEED", 500, 9))
	require.Len(t, fs.sent, 1)
}

// TestParamDownloadAllFailsOnMissingIndex is scenario S2: the vehicle
// announces a 2-entry table but only ever sends index 0, so the retry
// ladder for index 1 must exhaust and DownloadAll must fail with a
// MissingIndex(1) code rather than a generic timeout.
func TestParamDownloadAllFailsOnMissingIndex(t *testing.T) {
	bus := events.NewBus()
	fs := &fakeSender{bus: bus}
	eng := NewParamEngine(fs, bus, nil)

	go func() {
		time.Sleep(20 * time.Millisecond)
		f := frameFor(t, &mavlink.MessageParamValue{ParamID: "PARAM_A", ParamValue: 1, ParamCount: 2, ParamIndex: 0})
		bus.Publish(events.MessageReceived{Protocol: "mavlink", Name: "PARAM_VALUE", Raw: f})
		// index 1 never arrives; the retry ladder must exhaust and fail.
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := eng.DownloadAll(ctx, 1, 1)
	require.Error(t, err)

	var gerr *gcserr.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, gcserr.KindTransferTimeout, gerr.Kind)
	require.Equal(t, MissingIndex(1), gerr.Code)
}

func TestCommandRunAccepted(t *testing.T) {
	bus := events.NewBus()
	fs := &fakeSender{bus: bus}
	eng := NewCommandEngine(fs, bus)

	go func() {
		time.Sleep(20 * time.Millisecond)
		f := frameFor(t, &mavlink.MessageCommandAck{Command: uint16(mavlink.MavCmdNavTakeoff), Result: uint8(mavlink.MavResultAccepted)})
		bus.Publish(events.MessageReceived{Protocol: "mavlink", Name: "COMMAND_ACK", Raw: f})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result, err := eng.Run(ctx, &mavlink.MessageCommandLong{TargetSystem: 1, TargetComponent: 1, Command: mavlink.MavCmdNavTakeoff})
	require.NoError(t, err)
	require.Equal(t, CommandAccepted, result)
}
