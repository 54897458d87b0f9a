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

// CommandResult is the outcome of a command dispatched through
// CommandEngine, derived from COMMAND_ACK.result.
type CommandResult int

const (
	CommandAccepted CommandResult = iota
	CommandTemporarilyRejected
	CommandDenied
	CommandUnsupported
	CommandFailed
	CommandInProgress
	CommandCancelledLocally
)

func (r CommandResult) String() string {
	switch r {
	case CommandAccepted:
		return "accepted"
	case CommandTemporarilyRejected:
		return "temporarily_rejected"
	case CommandDenied:
		return "denied"
	case CommandUnsupported:
		return "unsupported"
	case CommandFailed:
		return "failed"
	case CommandInProgress:
		return "in_progress"
	case CommandCancelledLocally:
		return "cancelled"
	default:
		return "unknown"
	}
}

func commandResultFromWire(r uint8) CommandResult {
	switch mavlink.MavResult(r) {
	case mavlink.MavResultAccepted:
		return CommandAccepted
	case mavlink.MavResultTemporarilyRejected:
		return CommandTemporarilyRejected
	case mavlink.MavResultDenied:
		return CommandDenied
	case mavlink.MavResultUnsupported:
		return CommandUnsupported
	case mavlink.MavResultFailed:
		return CommandFailed
	case mavlink.MavResultInProgress:
		return CommandInProgress
	default:
		return CommandFailed
	}
}

// CommandEngine issues COMMAND_LONG requests and waits for COMMAND_ACK.
type CommandEngine struct {
	sess sender
	bus  *events.Bus
}

func NewCommandEngine(sess sender, bus *events.Bus) *CommandEngine {
	return &CommandEngine{sess: sess, bus: bus}
}

const (
	commandRetries     = 3
	commandRetryDelay  = 1 * time.Second
	commandInProgressExtension = 5 * time.Second
)

// Run sends a COMMAND_LONG and waits for its COMMAND_ACK, retrying up to
// 3 times at 1s if no ack arrives. A MAV_RESULT_IN_PROGRESS ack extends
// the wait instead of counting as a final outcome.
func (e *CommandEngine) Run(ctx context.Context, cmd *mavlink.MessageCommandLong) (CommandResult, error) {
	if err := e.sess.AcquireSlot(ctx, session.ClassCommand); err != nil {
		return CommandCancelledLocally, gcserr.New(gcserr.KindCancelled, "command.Run", err)
	}
	defer e.sess.ReleaseSlot(session.ClassCommand)

	sub, ch := e.bus.Subscribe(16)
	defer e.bus.Unsubscribe(sub)

	for attempt := 0; attempt <= commandRetries; attempt++ {
		if err := e.sess.Send(ctx, cmd); err != nil {
			return CommandFailed, gcserr.New(gcserr.KindTransport, "command.Run", err)
		}

		result, acked, err := e.awaitAck(ctx, ch, cmd.Command, commandRetryDelay)
		if err != nil {
			return CommandFailed, err
		}
		if acked {
			e.bus.Publish(events.CommandAcknowledged{Command: cmd.Command, Result: uint8(result)})
			return result, nil
		}
	}

	err := fmt.Errorf("no COMMAND_ACK for command %d after %d attempts", cmd.Command, commandRetries+1)
	return CommandFailed, gcserr.New(gcserr.KindTransferTimeout, "command.Run", err)
}

func (e *CommandEngine) awaitAck(ctx context.Context, ch <-chan any, command uint16, wait time.Duration) (CommandResult, bool, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return CommandCancelledLocally, false, gcserr.New(gcserr.KindCancelled, "command.awaitAck", ctx.Err())
		case <-timer.C:
			return 0, false, nil
		case ev := <-ch:
			mr, ok := ev.(events.MessageReceived)
			if !ok || mr.Name != "COMMAND_ACK" {
				continue
			}
			f, ok := mr.Raw.(*mavlink.Frame)
			if !ok {
				continue
			}
			var ack mavlink.MessageCommandAck
			if mavlink.DecodeMessage(f, &ack) != nil || ack.Command != command {
				continue
			}
			result := commandResultFromWire(ack.Result)
			if result == CommandInProgress {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(commandInProgressExtension)
				continue
			}
			return result, true, nil
		}
	}
}
