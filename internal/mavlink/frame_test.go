package mavlink

import (
	"testing"
)

func TestEncodeDecodeRoundTripV2(t *testing.T) {
	hb := &MessageHeartbeat{
		Type:           uint8(MavTypeQuadrotor),
		Autopilot:      uint8(MavAutopilotArduPilot),
		BaseMode:       uint8(MavModeFlagCustomModeEnabled) | uint8(MavModeFlagSafetyArmed),
		CustomMode:     4,
		SystemStatus:   uint8(MavStateActive),
		MavlinkVersion: 3,
	}

	raw, err := EncodeFrame(2, 7, 255, 1, hb)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	frame, n, err := DecodeFrame(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(raw) {
		t.Errorf("consumed %d, want %d", n, len(raw))
	}
	if frame.MsgID != 0 {
		t.Errorf("msg id = %d, want 0", frame.MsgID)
	}
	if frame.SysID != 255 || frame.CompID != 1 {
		t.Errorf("sysid/compid = %d/%d, want 255/1", frame.SysID, frame.CompID)
	}

	var got MessageHeartbeat
	if err := DecodeMessage(frame, &got); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if got != *hb {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, *hb)
	}
}

// TestV2TruncatesTrailingZeroExtensionBytes covers property P2: a v2
// encoder must not transmit trailing all-zero extension-field bytes.
func TestV2TruncatesTrailingZeroExtensionBytes(t *testing.T) {
	ack := &MessageCommandAck{
		Command: uint16(MavCmdNavTakeoff),
		Result:  uint8(MavResultAccepted),
		// Progress, ResultParam2, TargetSystem, TargetComponent left zero
	}
	def, ok := LookupByName("COMMAND_ACK")
	if !ok {
		t.Fatal("COMMAND_ACK not registered")
	}

	raw, err := EncodeFrame(2, 0, 255, 190, ack)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	frame, _, err := DecodeFrame(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(frame.Payload) != def.MinLen {
		t.Errorf("payload len = %d, want trimmed to min %d", len(frame.Payload), def.MinLen)
	}
}

// TestV1ZeroExtendsMissingExtensionFields covers property P5: a v1 frame
// (which never carries extensions) must decode into zeroed extension
// fields rather than leaving them uninitialized or erroring.
func TestV1ZeroExtendsMissingExtensionFields(t *testing.T) {
	ack := &MessageCommandAck{
		Command: uint16(MavCmdNavTakeoff),
		Result:  uint8(MavResultAccepted),
	}
	raw, err := EncodeFrame(1, 0, 255, 190, ack)
	if err != nil {
		t.Fatalf("encode v1: %v", err)
	}
	frame, _, err := DecodeFrame(raw)
	if err != nil {
		t.Fatalf("decode v1: %v", err)
	}

	var got MessageCommandAck
	if err := DecodeMessage(frame, &got); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if got.Progress != 0 || got.ResultParam2 != 0 || got.TargetSystem != 0 || got.TargetComponent != 0 {
		t.Errorf("expected zero-extended extension fields, got %+v", got)
	}
}

func TestBadCRCIsRejected(t *testing.T) {
	hb := &MessageHeartbeat{Type: uint8(MavTypeGCS)}
	raw, err := EncodeFrame(2, 0, 255, 190, hb)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// corrupt a payload byte without fixing up the checksum
	raw[len(raw)-3] ^= 0xFF

	if _, _, err := DecodeFrame(raw); err == nil {
		t.Fatal("expected crc mismatch error, got nil")
	}
}
