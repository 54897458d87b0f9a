package transport

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestBackoffForCapsAtFourSeconds(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 500 * time.Millisecond},
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{10, 4 * time.Second},
	}
	for _, tc := range cases {
		if got := BackoffFor(tc.attempt); got != tc.want {
			t.Errorf("BackoffFor(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestTCPDialerRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 5)
		conn.Read(buf)
		conn.Write(buf)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	d := NewTCPDialer("127.0.0.1", addr.Port)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tr, err := d.Dial(ctx)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer tr.Close()

	if err := tr.Write(ctx, []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, 5)
	n, err := tr.Read(ctx, buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Errorf("got %q, want %q", buf[:n], "hello")
	}
}
