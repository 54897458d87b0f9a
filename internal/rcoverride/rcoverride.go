// Package rcoverride drives RC_CHANNELS_OVERRIDE at a fixed rate so a
// GCS can fly a vehicle directly instead of (or alongside) its own
// transmitter, the same mechanism Mission Planner's "Joystick" and
// QGroundControl's virtual joystick use.
package rcoverride

import (
	"context"
	"sync"
	"time"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
)

const tickInterval = 20 * time.Millisecond // 50Hz

// centerStick and throttleZero are the neutral stick positions
// RC_CHANNELS_OVERRIDE reports for channels the caller hasn't set, matching a transmitter
// held at center with throttle cut.
const (
	centerStick  uint16 = 1500
	throttleZero uint16 = 1000
	numChannels         = 8 // legacy base RC_CHANNELS_OVERRIDE channels; 9-18 are v2 extensions
)

// sender is the narrow session dependency this package needs.
type sender interface {
	Send(ctx context.Context, msg mavlink.Message) error
}

// Controller periodically transmits RC_CHANNELS_OVERRIDE using whatever
// channel values were last set via SetChannel. It is safe to create once
// per process and reused across reconnects via Start/Stop.
type Controller struct {
	sess sender

	mu       sync.Mutex
	channels [numChannels]uint16
	active   bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// New returns a Controller with every channel at its centered/zero-
// throttle default. Channel 3 (throttle, 1-indexed) defaults to zero
// rather than centered.
func New(sess sender) *Controller {
	c := &Controller{sess: sess}
	c.resetChannels()
	return c
}

func (c *Controller) resetChannels() {
	for i := range c.channels {
		c.channels[i] = centerStick
	}
	c.channels[2] = throttleZero // channel 3, index 2
}

// SetChannel sets one channel's raw PWM-style value (typically
// 1000-2000). ch is 1-indexed per the MAVLink field numbering.
func (c *Controller) SetChannel(ch int, value uint16) {
	if ch < 1 || ch > numChannels {
		return
	}
	c.mu.Lock()
	c.channels[ch-1] = value
	c.mu.Unlock()
}

// Start begins transmitting at 50Hz. It must only be called while the
// session is Connected; callers are expected to Stop on disconnect.
func (c *Controller) Start(ctx context.Context, targetSys, targetComp uint8) {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.active = true
	c.mu.Unlock()

	go c.run(runCtx, targetSys, targetComp)
}

// Stop halts transmission immediately. Per the safety invariant that RC
// override input must cease the instant control is released, Stop does
// not wait for the next tick.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	done := c.done
	c.active = false
	c.mu.Unlock()

	cancel()
	<-done
	c.mu.Lock()
	c.resetChannels()
	c.mu.Unlock()
}

func (c *Controller) run(ctx context.Context, targetSys, targetComp uint8) {
	defer close(c.done)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msg := c.buildMessage(targetSys, targetComp)
			_ = c.sess.Send(ctx, msg) // a single dropped tick at 50Hz is not fatal
		}
	}
}

func (c *Controller) buildMessage(targetSys, targetComp uint8) *mavlink.MessageRCChannelsOverride {
	c.mu.Lock()
	ch := c.channels
	c.mu.Unlock()

	return &mavlink.MessageRCChannelsOverride{
		TargetSystem: targetSys, TargetComponent: targetComp,
		Chan1Raw: ch[0], Chan2Raw: ch[1], Chan3Raw: ch[2], Chan4Raw: ch[3],
		Chan5Raw: ch[4], Chan6Raw: ch[5], Chan7Raw: ch[6], Chan8Raw: ch[7],
	}
}
