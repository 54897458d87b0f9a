package bridge

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
)

func TestForwarderSendsOverrideToPeer(t *testing.T) {
	addr, err := net.ResolveUDPAddr("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	listener, err := net.ListenUDP("udp", addr)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	localAddr := listener.LocalAddr().(*net.UDPAddr)
	host, port := localAddr.IP.String(), localAddr.Port

	fwd, err := Dial(host, port, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer fwd.Close()

	msg := &mavlink.MessageRCChannelsOverride{TargetSystem: 1, TargetComponent: 1, Chan3Raw: 1800}
	if err := fwd.Forward(context.Background(), 0, msg); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	buf := make([]byte, 300)
	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("ReadFromUDP: %v", err)
	}

	frame, _, err := mavlink.DecodeFrame(buf[:n])
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	var override mavlink.MessageRCChannelsOverride
	if err := mavlink.DecodeMessage(frame, &override); err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if override.Chan3Raw != 1800 {
		t.Errorf("Chan3Raw = %d, want 1800", override.Chan3Raw)
	}
}
