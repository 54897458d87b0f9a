package mavlink

import "testing"

// TestParserResyncsAfterGarbage covers property P4: a byte-stream glitch
// between frames must not wedge the parser — it must skip the garbage
// and recover the next valid frame.
func TestParserResyncsAfterGarbage(t *testing.T) {
	hb := &MessageHeartbeat{Type: uint8(MavTypeQuadrotor), Autopilot: uint8(MavAutopilotArduPilot)}
	frame1, err := EncodeFrame(2, 1, 255, 190, hb)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	frame2, err := EncodeFrame(2, 2, 255, 190, hb)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	stream := append([]byte{}, frame1...)
	stream = append(stream, []byte{0x00, 0x11, 0x22, 0x33, 0x44}...) // line noise, no magic byte
	stream = append(stream, frame2...)

	p := NewParser()
	results := p.Feed(stream)

	var frames []*Frame
	for _, r := range results {
		if r.Frame != nil {
			frames = append(frames, r.Frame)
		}
	}

	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2 (results: %+v)", len(frames), results)
	}
	if frames[0].SeqNum != 1 || frames[1].SeqNum != 2 {
		t.Errorf("seq numbers = %d, %d; want 1, 2", frames[0].SeqNum, frames[1].SeqNum)
	}
}

func TestParserWaitsForMoreDataOnPartialFrame(t *testing.T) {
	hb := &MessageHeartbeat{Type: uint8(MavTypeGCS)}
	raw, err := EncodeFrame(2, 0, 255, 190, hb)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	p := NewParser()
	results := p.Feed(raw[:len(raw)-2])
	for _, r := range results {
		if r.Frame != nil {
			t.Fatalf("unexpected complete frame from partial data")
		}
	}

	results = p.Feed(raw[len(raw)-2:])
	var got *Frame
	for _, r := range results {
		if r.Frame != nil {
			got = r.Frame
		}
	}
	if got == nil {
		t.Fatal("expected a frame once remaining bytes arrived")
	}
}
