package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/events"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/gcserr"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/session"
)

// MissionItem is one waypoint/fence-point/rally-point, always expressed
// in the *_INT wire format (1e7-scaled lat/lon), the format this engine
// exclusively uses rather than the legacy float MISSION_ITEM.
type MissionItem struct {
	Seq          uint16
	Frame        uint8
	Command      uint16
	Current      uint8
	Autocontinue uint8
	Param1       float32
	Param2       float32
	Param3       float32
	Param4       float32
	X, Y         int32
	Z            float32
}

// MissionEngine uploads and downloads mission/fence/rally item lists. A
// single engine handles all three kinds since the wire protocol differs
// only in MISSION_TYPE and item semantics, never in transfer mechanics.
type MissionEngine struct {
	sess sender
	bus  *events.Bus
}

func NewMissionEngine(sess sender, bus *events.Bus) *MissionEngine {
	return &MissionEngine{sess: sess, bus: bus}
}

const (
	missionItemRetries    = 5
	missionItemRetryDelay = 1 * time.Second
)

func missionKindName(t uint8) string {
	switch mavlink.MavMissionType(t) {
	case mavlink.MavMissionTypeFence:
		return "fence"
	case mavlink.MavMissionTypeRally:
		return "rally"
	default:
		return "mission"
	}
}

// Upload sends items as a MISSION_COUNT/MISSION_ITEM_INT exchange,
// answering each MISSION_REQUEST_INT as it arrives (including a
// duplicate request for the same seq, which is re-sent idempotently
// rather than treated as an error) and finishing on MISSION_ACK. Each seq
// counts once toward completion; once every item has been sent the engine
// only waits for MISSION_ACK, and a request arriving then is not answered.
func (e *MissionEngine) Upload(ctx context.Context, targetSys, targetComp uint8, missionType uint8, items []MissionItem) error {
	if err := e.sess.AcquireSlot(ctx, session.ClassMission); err != nil {
		return gcserr.New(gcserr.KindCancelled, "mission.Upload", err)
	}
	defer e.sess.ReleaseSlot(session.ClassMission)

	kind := missionKindName(missionType)
	sub, ch := e.bus.Subscribe(64)
	defer e.bus.Unsubscribe(sub)

	byIndex := make(map[uint16]MissionItem, len(items))
	for _, it := range items {
		byIndex[it.Seq] = it
	}

	count := &mavlink.MessageMissionCount{TargetSystem: targetSys, TargetComponent: targetComp, Count: uint16(len(items)), MissionType: missionType}
	if err := e.sess.Send(ctx, count); err != nil {
		return gcserr.New(gcserr.KindTransport, "mission.Upload", err)
	}

	sent := 0
	served := make(map[uint16]bool, len(items))
	for sent < len(items) {
		timer := time.NewTimer(missionItemRetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return gcserr.New(gcserr.KindCancelled, "mission.Upload", ctx.Err())
		case <-timer.C:
			e.bus.Publish(events.MissionFailed{Kind: kind, Err: fmt.Errorf("no MISSION_REQUEST_INT received")})
			return gcserr.New(gcserr.KindTransferTimeout, "mission.Upload", fmt.Errorf("timed out awaiting item request"))
		case ev := <-ch:
			timer.Stop()
			mr, ok := ev.(events.MessageReceived)
			if !ok {
				continue
			}
			switch mr.Name {
			case "MISSION_REQUEST_INT":
				f, ok := mr.Raw.(*mavlink.Frame)
				if !ok {
					continue
				}
				var req mavlink.MessageMissionRequestInt
				if mavlink.DecodeMessage(f, &req) != nil {
					continue
				}
				item, ok := byIndex[req.Seq]
				if !ok {
					continue
				}
				msg := &mavlink.MessageMissionItemInt{
					TargetSystem: targetSys, TargetComponent: targetComp,
					Seq: item.Seq, Frame: item.Frame, Command: item.Command,
					Current: item.Current, Autocontinue: item.Autocontinue,
					Param1: item.Param1, Param2: item.Param2, Param3: item.Param3, Param4: item.Param4,
					X: item.X, Y: item.Y, Z: item.Z, MissionType: missionType,
				}
				if err := e.sess.Send(ctx, msg); err != nil {
					return gcserr.New(gcserr.KindTransport, "mission.Upload", err)
				}
				if !served[item.Seq] { // a duplicate request is answered but not counted again
					served[item.Seq] = true
					sent++
				}
				e.bus.Publish(events.MissionProgress{Kind: kind, Seq: int(item.Seq), Total: len(items)})
			case "MISSION_ACK":
				f, ok := mr.Raw.(*mavlink.Frame)
				if !ok {
					continue
				}
				var ack mavlink.MessageMissionAck
				if mavlink.DecodeMessage(f, &ack) == nil && mavlink.MavMissionResult(ack.MavType) != mavlink.MavMissionAccepted {
					err := fmt.Errorf("mission rejected: result=%d", ack.MavType)
					e.bus.Publish(events.MissionFailed{Kind: kind, Err: err})
					return gcserr.WithCode(gcserr.KindTransferRejected, "mission.Upload", ack.MavType, err)
				}
			}
		}
	}

	if err := e.awaitFinalAck(ctx, ch, kind); err != nil {
		return err
	}
	e.bus.Publish(events.MissionCompleted{Kind: kind, Count: len(items)})
	return nil
}

func (e *MissionEngine) awaitFinalAck(ctx context.Context, ch <-chan any, kind string) error {
	timer := time.NewTimer(missionItemRetryDelay * 3)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return gcserr.New(gcserr.KindCancelled, "mission.awaitFinalAck", ctx.Err())
		case <-timer.C:
			err := fmt.Errorf("no MISSION_ACK received")
			e.bus.Publish(events.MissionFailed{Kind: kind, Err: err})
			return gcserr.New(gcserr.KindTransferTimeout, "mission.awaitFinalAck", err)
		case ev := <-ch:
			mr, ok := ev.(events.MessageReceived)
			if !ok || mr.Name != "MISSION_ACK" {
				continue
			}
			f, ok := mr.Raw.(*mavlink.Frame)
			if !ok {
				continue
			}
			var ack mavlink.MessageMissionAck
			if mavlink.DecodeMessage(f, &ack) != nil {
				continue
			}
			if mavlink.MavMissionResult(ack.MavType) != mavlink.MavMissionAccepted {
				err := fmt.Errorf("mission rejected: result=%d", ack.MavType)
				e.bus.Publish(events.MissionFailed{Kind: kind, Err: err})
				return gcserr.WithCode(gcserr.KindTransferRejected, "mission.awaitFinalAck", ack.MavType, err)
			}
			return nil
		}
	}
}

// Download requests the item count then fetches each item by
// MISSION_REQUEST_INT, retrying an unanswered request up to 5 times at
// 1s, and acknowledges completion with MISSION_ACK.
func (e *MissionEngine) Download(ctx context.Context, targetSys, targetComp uint8, missionType uint8) ([]MissionItem, error) {
	if err := e.sess.AcquireSlot(ctx, session.ClassMission); err != nil {
		return nil, gcserr.New(gcserr.KindCancelled, "mission.Download", err)
	}
	defer e.sess.ReleaseSlot(session.ClassMission)

	kind := missionKindName(missionType)
	sub, ch := e.bus.Subscribe(64)
	defer e.bus.Unsubscribe(sub)

	if err := e.sess.Send(ctx, &mavlink.MessageMissionRequestList{TargetSystem: targetSys, TargetComponent: targetComp, MissionType: missionType}); err != nil {
		return nil, gcserr.New(gcserr.KindTransport, "mission.Download", err)
	}

	var total uint16 = 0xFFFF
	for total == 0xFFFF {
		select {
		case <-ctx.Done():
			return nil, gcserr.New(gcserr.KindCancelled, "mission.Download", ctx.Err())
		case <-time.After(missionItemRetryDelay * 3):
			return nil, gcserr.New(gcserr.KindTransferTimeout, "mission.Download", fmt.Errorf("no MISSION_COUNT received"))
		case ev := <-ch:
			mr, ok := ev.(events.MessageReceived)
			if !ok || mr.Name != "MISSION_COUNT" {
				continue
			}
			f, ok := mr.Raw.(*mavlink.Frame)
			if !ok {
				continue
			}
			var mc mavlink.MessageMissionCount
			if mavlink.DecodeMessage(f, &mc) == nil {
				total = mc.Count
			}
		}
	}

	items := make([]MissionItem, 0, total)
	for seq := uint16(0); seq < total; seq++ {
		item, err := e.requestOneItem(ctx, ch, targetSys, targetComp, missionType, seq)
		if err != nil {
			e.bus.Publish(events.MissionFailed{Kind: kind, Err: err})
			return nil, err
		}
		items = append(items, item)
		e.bus.Publish(events.MissionProgress{Kind: kind, Seq: int(seq), Total: int(total)})
	}

	if err := e.sess.Send(ctx, &mavlink.MessageMissionAck{TargetSystem: targetSys, TargetComponent: targetComp, MavType: uint8(mavlink.MavMissionAccepted), MissionType: missionType}); err != nil {
		return nil, gcserr.New(gcserr.KindTransport, "mission.Download", err)
	}

	e.bus.Publish(events.MissionCompleted{Kind: kind, Count: len(items)})
	return items, nil
}

func (e *MissionEngine) requestOneItem(ctx context.Context, ch <-chan any, targetSys, targetComp, missionType uint8, seq uint16) (MissionItem, error) {
	req := &mavlink.MessageMissionRequestInt{TargetSystem: targetSys, TargetComponent: targetComp, Seq: seq, MissionType: missionType}

	for attempt := 0; attempt <= missionItemRetries; attempt++ {
		if err := e.sess.Send(ctx, req); err != nil {
			return MissionItem{}, gcserr.New(gcserr.KindTransport, "mission.requestOneItem", err)
		}

		timer := time.NewTimer(missionItemRetryDelay)
	wait:
		select {
		case <-ctx.Done():
			timer.Stop()
			return MissionItem{}, gcserr.New(gcserr.KindCancelled, "mission.requestOneItem", ctx.Err())
		case <-timer.C:
			continue
		case ev := <-ch:
			// anything other than the requested item keeps waiting on the same timer
			mr, ok := ev.(events.MessageReceived)
			if !ok || mr.Name != "MISSION_ITEM_INT" {
				goto wait
			}
			f, ok := mr.Raw.(*mavlink.Frame)
			if !ok {
				goto wait
			}
			var mi mavlink.MessageMissionItemInt
			if mavlink.DecodeMessage(f, &mi) != nil || mi.Seq != seq {
				goto wait
			}
			timer.Stop()
			return MissionItem{
				Seq: mi.Seq, Frame: mi.Frame, Command: mi.Command, Current: mi.Current,
				Autocontinue: mi.Autocontinue, Param1: mi.Param1, Param2: mi.Param2,
				Param3: mi.Param3, Param4: mi.Param4, X: mi.X, Y: mi.Y, Z: mi.Z,
			}, nil
		}
	}

	return MissionItem{}, gcserr.New(gcserr.KindTransferTimeout, "mission.requestOneItem", fmt.Errorf("seq %d: no MISSION_ITEM_INT after %d attempts", seq, missionItemRetries+1))
}
