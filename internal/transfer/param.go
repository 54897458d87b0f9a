// Package transfer implements the request/response microservices that
// sit on top of a session: parameter download/set, mission/fence/rally
// upload/download, and command execution.
package transfer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/events"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/gcserr"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/session"
)

// sender is the subset of *session.Session the transfer engines need;
// narrowing the dependency keeps this package's tests independent of
// the full session state machine.
type sender interface {
	Send(ctx context.Context, msg mavlink.Message) error
	AcquireSlot(ctx context.Context, class session.RequestClass) error
	ReleaseSlot(class session.RequestClass)
}

// ParamEngine downloads and sets vehicle parameters.
type ParamEngine struct {
	sess   sender
	bus    *events.Bus
	logger *log.Logger
}

func NewParamEngine(sess sender, bus *events.Bus, logger *log.Logger) *ParamEngine {
	return &ParamEngine{sess: sess, bus: bus, logger: logger}
}

// Param is one decoded PARAM_VALUE.
type Param struct {
	Name  string
	Value float32
	Type  uint8
	Index uint16
}

const (
	paramMaxRetries  = 3
	paramPollPeriod  = 100 * time.Millisecond
	paramNoDataDelay = 2 * time.Second
)

var paramRetryDelays = []time.Duration{100 * time.Millisecond, 250 * time.Millisecond, 500 * time.Millisecond}

// MissingIndex is the gcserr.Error.Code attached when a parameter index
// is still missing after exhausting the per-index retry ladder.
type MissingIndex uint16

// paramIndexState tracks one missing index's position on the retry ladder:
// retries counts PARAM_REQUEST_READ attempts already sent for it, deadline
// is when the next ladder step (retry or failure) is due.
type paramIndexState struct {
	retries  int
	deadline time.Time
}

func paramNextDelay(retries int) time.Duration {
	if retries < len(paramRetryDelays) {
		return paramRetryDelays[retries]
	}
	return paramRetryDelays[len(paramRetryDelays)-1]
}

// DownloadAll requests the full parameter table (PARAM_REQUEST_LIST) and
// collects PARAM_VALUE responses until every index 0..count-1 has been
// seen or ctx expires. Once the count is known, each still-missing index
// is individually re-requested via PARAM_REQUEST_READ on the ladder in
// paramRetryDelays (100/250/500 ms); an index still missing after 3
// retries fails the whole download with a MissingIndex code.
func (e *ParamEngine) DownloadAll(ctx context.Context, targetSys, targetComp uint8) ([]Param, error) {
	if err := e.sess.AcquireSlot(ctx, session.ClassParameter); err != nil {
		return nil, gcserr.New(gcserr.KindCancelled, "param.DownloadAll", err)
	}
	defer e.sess.ReleaseSlot(session.ClassParameter)

	sub, ch := e.bus.Subscribe(256)
	defer e.bus.Unsubscribe(sub)

	if err := e.sess.Send(ctx, &mavlink.MessageParamRequestList{TargetSystem: targetSys, TargetComponent: targetComp}); err != nil {
		return nil, gcserr.New(gcserr.KindTransport, "param.DownloadAll", err)
	}

	received := map[uint16]Param{}
	pending := map[uint16]*paramIndexState{}
	var total uint16 = 0xFFFF

	noDataTimer := time.NewTimer(paramNoDataDelay)
	defer noDataTimer.Stop()
	pollTicker := time.NewTicker(paramPollPeriod)
	defer pollTicker.Stop()

	for {
		if total != 0xFFFF && uint16(len(received)) >= total {
			break
		}
		select {
		case <-ctx.Done():
			return nil, gcserr.New(gcserr.KindCancelled, "param.DownloadAll", ctx.Err())
		case <-noDataTimer.C:
			if total == 0xFFFF {
				return nil, gcserr.New(gcserr.KindTransferTimeout, "param.DownloadAll", fmt.Errorf("no PARAM_VALUE received"))
			}
		case <-pollTicker.C:
			if total == 0xFFFF {
				continue
			}
			if err := e.pollMissing(ctx, targetSys, targetComp, received, total, pending); err != nil {
				return nil, err
			}
		case ev := <-ch:
			mr, ok := ev.(events.MessageReceived)
			if !ok || mr.Name != "PARAM_VALUE" {
				continue
			}
			f, ok := mr.Raw.(*mavlink.Frame)
			if !ok {
				continue
			}
			var pv mavlink.MessageParamValue
			if mavlink.DecodeMessage(f, &pv) != nil {
				continue
			}
			total = pv.ParamCount
			p := Param{Name: pv.ParamID, Value: pv.ParamValue, Type: pv.ParamType, Index: pv.ParamIndex}
			received[pv.ParamIndex] = p
			delete(pending, pv.ParamIndex)
			e.bus.Publish(events.ParameterProgress{Index: len(received), Total: int(total), Name: p.Name})
		}
	}

	out := make([]Param, 0, len(received))
	for _, p := range received {
		out = append(out, p)
	}
	return out, nil
}

// pollMissing advances the retry ladder for every index in [0, total) not
// yet in received. A freshly-missing index starts its ladder on this
// call; an index whose ladder deadline has passed either gets re-requested
// or, once paramMaxRetries is exhausted, fails the whole download.
func (e *ParamEngine) pollMissing(ctx context.Context, targetSys, targetComp uint8, received map[uint16]Param, total uint16, pending map[uint16]*paramIndexState) error {
	now := time.Now()
	for idx := uint16(0); idx < total; idx++ {
		if _, ok := received[idx]; ok {
			continue
		}

		st, ok := pending[idx]
		if !ok {
			pending[idx] = &paramIndexState{deadline: now.Add(paramRetryDelays[0])}
			continue
		}
		if now.Before(st.deadline) {
			continue
		}

		if st.retries >= paramMaxRetries {
			err := fmt.Errorf("parameter index %d missing after %d retries", idx, paramMaxRetries)
			e.bus.Publish(events.ParameterError{Name: fmt.Sprintf("#%d", idx), Err: err})
			return gcserr.WithCode(gcserr.KindTransferTimeout, "param.DownloadAll", MissingIndex(idx), err)
		}

		req := &mavlink.MessageParamRequestRead{TargetSystem: targetSys, TargetComponent: targetComp, ParamIndex: int16(idx), ParamID: ""}
		if err := e.sess.Send(ctx, req); err != nil {
			return gcserr.New(gcserr.KindTransport, "param.DownloadAll", err)
		}
		st.retries++
		st.deadline = now.Add(paramNextDelay(st.retries))
	}
	return nil
}

// Set writes one parameter by name, waiting for the vehicle to echo back
// a matching PARAM_VALUE as acknowledgement, retrying up to 3 times at
// 500ms if no ack arrives.
func (e *ParamEngine) Set(ctx context.Context, targetSys, targetComp uint8, name string, value float32, paramType uint8) error {
	if err := e.sess.AcquireSlot(ctx, session.ClassParameter); err != nil {
		return gcserr.New(gcserr.KindCancelled, "param.Set", err)
	}
	defer e.sess.ReleaseSlot(session.ClassParameter)

	sub, ch := e.bus.Subscribe(16)
	defer e.bus.Unsubscribe(sub)

	msg := &mavlink.MessageParamSet{TargetSystem: targetSys, TargetComponent: targetComp, ParamID: name, ParamValue: value, ParamType: paramType}

	for attempt := 0; attempt <= paramMaxRetries; attempt++ {
		if err := e.sess.Send(ctx, msg); err != nil {
			return gcserr.New(gcserr.KindTransport, "param.Set", err)
		}

		wait := 500 * time.Millisecond
		timer := time.NewTimer(wait)
	waitLoop:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return gcserr.New(gcserr.KindCancelled, "param.Set", ctx.Err())
			case <-timer.C:
				break waitLoop
			case ev := <-ch:
				mr, ok := ev.(events.MessageReceived)
				if !ok || mr.Name != "PARAM_VALUE" {
					continue
				}
				f, ok := mr.Raw.(*mavlink.Frame)
				if !ok {
					continue
				}
				var pv mavlink.MessageParamValue
				if mavlink.DecodeMessage(f, &pv) == nil && pv.ParamID == name {
					timer.Stop()
					e.bus.Publish(events.ParameterCompleted{Name: name, Value: pv.ParamValue})
					return nil
				}
			}
		}
	}

	err := fmt.Errorf("no acknowledgement after %d attempts", paramMaxRetries+1)
	e.bus.Publish(events.ParameterError{Name: name, Err: err})
	return gcserr.New(gcserr.KindTransferTimeout, "param.Set", err)
}
