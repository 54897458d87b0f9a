package rcoverride

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []*mavlink.MessageRCChannelsOverride
}

func (r *recordingSender) Send(ctx context.Context, msg mavlink.Message) error {
	if m, ok := msg.(*mavlink.MessageRCChannelsOverride); ok {
		r.mu.Lock()
		r.msgs = append(r.msgs, m)
		r.mu.Unlock()
	}
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func TestControllerTransmitsAtFixedRate(t *testing.T) {
	rs := &recordingSender{}
	c := New(rs)
	c.SetChannel(3, 1700)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx, 1, 1)
	time.Sleep(220 * time.Millisecond)
	c.Stop()

	n := rs.count()
	if n < 8 || n > 14 {
		t.Errorf("expected roughly 11 ticks in 220ms at 50Hz, got %d", n)
	}

	rs.mu.Lock()
	last := rs.msgs[len(rs.msgs)-1]
	rs.mu.Unlock()
	if last.Chan3Raw != 1700 {
		t.Errorf("chan3 = %d, want 1700", last.Chan3Raw)
	}
}

func TestControllerStopWithoutStartKeepsChannels(t *testing.T) {
	rs := &recordingSender{}
	c := New(rs)
	c.SetChannel(1, 1999)
	c.Stop() // no-op, never started

	c.mu.Lock()
	v := c.channels[0]
	c.mu.Unlock()
	if v != 1999 {
		t.Errorf("expected SetChannel to persist before Start, got %d", v)
	}
}
