// Package telemetry aggregates decoded MAVLink and MSP messages into
// one VehicleState per session, normalizing each
// protocol's native units into a single canonical unit set.
package telemetry

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/events"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/msp"
)

// VehicleState is the unified telemetry snapshot a GCS UI renders from.
// All angles are degrees, all positions are meters/degrees-WGS84, never
// radians or 1e-7-scaled integers, regardless of which wire protocol or
// message supplied the value.
type VehicleState struct {
	SystemID, ComponentID byte
	Autopilot             mavlink.MavAutopilot
	VehicleType           mavlink.MavType

	Armed     bool
	FlightMode string

	FirmwareVariant string // "ArduPilot", "PX4", or an MSP FC_VARIANT identifier like "BTFL"
	FirmwareVersion string // set once AUTOPILOT_VERSION or MSP FC_VERSION arrives

	IsFlying             bool
	ArmingDisableReasons []string

	Lat, Lon, AltMSL, AltRelative float64
	VelN, VelE, VelD              float64
	Heading                       float64

	RollDeg, PitchDeg, YawDeg float64

	GPSFixType        uint8
	SatellitesVisible uint8

	BatteryVoltage float32
	BatteryCurrent float32
	BatteryPercent int8

	Airspeed, Groundspeed, ClimbRate float32
	ThrottlePercent                  uint16

	RCChannels [18]uint16

	UpdatedAt map[string]time.Time
}

// Aggregator owns the live VehicleState for one session and publishes a
// coalesced TelemetryUpdated event at most once per coalesceWindow.
type Aggregator struct {
	bus             *events.Bus
	modes           FlightModeTable
	coalesceWindow  time.Duration

	mu      sync.Mutex
	state   VehicleState
	pending bool
	timer   *time.Timer

	mspBoxIDs *msp.BoxIDs // cached from MSP_BOXIDS, needed to resolve MSP_STATUS into a mode name
}

const defaultCoalesceWindow = 10 * time.Millisecond

// NewAggregator returns an Aggregator that looks up mode names using
// modes (see ArduPilotModes / PX4Modes).
func NewAggregator(bus *events.Bus, modes FlightModeTable) *Aggregator {
	return &Aggregator{
		bus:            bus,
		modes:          modes,
		coalesceWindow: defaultCoalesceWindow,
		state:          VehicleState{UpdatedAt: make(map[string]time.Time)},
	}
}

// Snapshot returns a copy of the current state.
func (a *Aggregator) Snapshot() VehicleState {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := a.state
	cp.UpdatedAt = make(map[string]time.Time, len(a.state.UpdatedAt))
	for k, v := range a.state.UpdatedAt {
		cp.UpdatedAt[k] = v
	}
	return cp
}

// HandleFrame projects one decoded MAVLink frame onto the VehicleState,
// normalizing units as it goes, and schedules a coalesced publish.
func (a *Aggregator) HandleFrame(f *mavlink.Frame) {
	def, ok := mavlink.Lookup(f.MsgID)
	if !ok {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch def.Name {
	case "HEARTBEAT":
		var m mavlink.MessageHeartbeat
		if mavlink.DecodeMessage(f, &m) == nil {
			a.state.SystemID, a.state.ComponentID = f.SysID, f.CompID
			a.state.Autopilot = mavlink.MavAutopilot(m.Autopilot)
			a.state.VehicleType = mavlink.MavType(m.Type)
			armed := m.BaseMode&uint8(mavlink.MavModeFlagSafetyArmed) != 0
			if armed && !a.state.Armed {
				a.state.ArmingDisableReasons = nil
			}
			a.state.Armed = armed
			a.state.FlightMode = a.modes.Name(a.state.Autopilot, a.state.VehicleType, m.CustomMode)
			a.state.FirmwareVariant = firmwareVariantName(a.state.Autopilot)
			a.touch("heartbeat")
		}
	case "AUTOPILOT_VERSION":
		var m mavlink.MessageAutopilotVersion
		if mavlink.DecodeMessage(f, &m) == nil {
			a.state.FirmwareVersion = mavlink.FormatFirmwareVersion(m.FlightSwVersion)
			a.touch("autopilot_version")
		}
	case "EXTENDED_SYS_STATE":
		var m mavlink.MessageExtendedSysState
		if mavlink.DecodeMessage(f, &m) == nil {
			a.state.IsFlying = mavlink.MavLandedState(m.LandedState) == mavlink.MavLandedStateInAir
			a.touch("extended_sys_state")
		}
	case "STATUSTEXT":
		var m mavlink.MessageStatustext
		if mavlink.DecodeMessage(f, &m) == nil {
			if reason, ok := strings.CutPrefix(m.Text, "PreArm: "); ok {
				a.state.ArmingDisableReasons = appendUnique(a.state.ArmingDisableReasons, reason)
				a.touch("statustext")
			}
		}
	case "ATTITUDE":
		var m mavlink.MessageAttitude
		if mavlink.DecodeMessage(f, &m) == nil {
			a.state.RollDeg = radToDeg(m.Roll)
			a.state.PitchDeg = radToDeg(m.Pitch)
			a.state.YawDeg = radToDeg(m.Yaw)
			a.touch("attitude")
		}
	case "GLOBAL_POSITION_INT":
		var m mavlink.MessageGlobalPositionInt
		if mavlink.DecodeMessage(f, &m) == nil {
			a.state.Lat = float64(m.Lat) / 1e7
			a.state.Lon = float64(m.Lon) / 1e7
			a.state.AltMSL = float64(m.Alt) / 1000.0
			a.state.AltRelative = float64(m.RelativeAlt) / 1000.0
			a.state.VelN = float64(m.Vx) / 100.0
			a.state.VelE = float64(m.Vy) / 100.0
			a.state.VelD = float64(m.Vz) / 100.0
			if m.Hdg != 65535 {
				a.state.Heading = float64(m.Hdg) / 100.0
			}
			a.touch("position")
		}
	case "GPS_RAW_INT":
		var m mavlink.MessageGPSRawInt
		if mavlink.DecodeMessage(f, &m) == nil {
			a.state.GPSFixType = m.FixType
			a.state.SatellitesVisible = m.SatellitesVisible
			a.touch("gps")
		}
	case "VFR_HUD":
		var m mavlink.MessageVfrHud
		if mavlink.DecodeMessage(f, &m) == nil {
			a.state.Airspeed = m.Airspeed
			a.state.Groundspeed = m.Groundspeed
			a.state.ClimbRate = m.Climb
			a.state.ThrottlePercent = m.Throttle
			a.touch("vfr_hud")
		}
	case "SYS_STATUS":
		var m mavlink.MessageSysStatus
		if mavlink.DecodeMessage(f, &m) == nil {
			a.state.BatteryVoltage = float32(m.VoltageBattery) / 1000.0
			a.state.BatteryCurrent = float32(m.CurrentBattery) / 100.0
			a.state.BatteryPercent = m.BatteryRemaining
			a.touch("sys_status")
		}
	case "RC_CHANNELS":
		var m mavlink.MessageRCChannels
		if mavlink.DecodeMessage(f, &m) == nil {
			a.state.RCChannels = [18]uint16{
				m.Chan1Raw, m.Chan2Raw, m.Chan3Raw, m.Chan4Raw, m.Chan5Raw, m.Chan6Raw,
				m.Chan7Raw, m.Chan8Raw, m.Chan9Raw, m.Chan10Raw, m.Chan11Raw, m.Chan12Raw,
				m.Chan13Raw, m.Chan14Raw, m.Chan15Raw, m.Chan16Raw, m.Chan17Raw, m.Chan18Raw,
			}
			a.touch("rc_channels")
		}
	}
}

// HandleMSPFrame projects one decoded MSP frame onto the VehicleState,
// normalizing MSP's native units (decidegrees, centimeters, 1e-7
// degrees) the same way HandleFrame normalizes MAVLink's.
func (a *Aggregator) HandleMSPFrame(f *msp.Frame) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch f.Cmd {
	case msp.CmdBoxIDs:
		if ids, err := msp.DecodeBoxIDs(f.Payload); err == nil {
			a.mspBoxIDs = ids
		}
	case msp.CmdFCVariant:
		if v, err := msp.DecodeFCVariant(f.Payload); err == nil {
			a.state.FirmwareVariant = v.Identifier
			a.touch("fc_variant")
		}
	case msp.CmdFCVersion:
		if v, err := msp.DecodeFCVersion(f.Payload); err == nil {
			a.state.FirmwareVersion = fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
			a.touch("fc_version")
		}
	case msp.CmdStatus:
		if st, err := msp.DecodeStatus(f.Payload); err == nil {
			a.state.FlightMode = ResolveMSPMode(st.ActiveBoxes, a.mspBoxIDs)
			armed := st.ActiveBoxes&1 != 0 // box 0 is ARM
			if armed && !a.state.Armed {
				a.state.ArmingDisableReasons = nil
			}
			a.state.Armed = armed
			a.touch("msp_status")
		}
	case msp.CmdAttitude:
		if att, err := msp.DecodeAttitude(f.Payload); err == nil {
			a.state.RollDeg = float64(att.RollDecideg) / 10.0
			a.state.PitchDeg = float64(att.PitchDecideg) / 10.0
			a.state.YawDeg = float64(att.YawDeg)
			a.touch("attitude")
		}
	case msp.CmdRawGPS:
		if gps, err := msp.DecodeRawGPS(f.Payload); err == nil {
			a.state.GPSFixType = gps.Fix
			a.state.SatellitesVisible = gps.NumSat
			a.state.Lat = float64(gps.Lat) / 1e7
			a.state.Lon = float64(gps.Lon) / 1e7
			a.state.AltMSL = float64(gps.AltMeters)
			a.state.Groundspeed = float32(gps.SpeedCmS) / 100.0
			a.state.Heading = float64(gps.GroundCourse) / 10.0
			a.touch("gps")
		}
	case msp.CmdAltitude:
		if alt, err := msp.DecodeAltitude(f.Payload); err == nil {
			a.state.AltRelative = float64(alt.EstimAltCm) / 100.0
			a.state.ClimbRate = float32(alt.VarioCmS) / 100.0
			a.touch("altitude")
		}
	case msp.CmdAnalog:
		if an, err := msp.DecodeAnalog(f.Payload); err == nil {
			a.state.BatteryVoltage = float32(an.VBatDeciV) / 10.0
			a.state.BatteryCurrent = float32(an.AmperageCa) / 100.0
			a.touch("analog")
		}
	case msp.CmdRC:
		if rc, err := msp.DecodeRC(f.Payload); err == nil {
			var ch [18]uint16
			copy(ch[:], rc.Channels)
			a.state.RCChannels = ch
			a.touch("rc_channels")
		}
	}
}

func (a *Aggregator) touch(key string) {
	a.state.UpdatedAt[key] = time.Now()
	if a.pending {
		return
	}
	a.pending = true
	a.timer = time.AfterFunc(a.coalesceWindow, a.flush)
}

func (a *Aggregator) flush() {
	a.mu.Lock()
	a.pending = false
	snap := a.state
	snap.UpdatedAt = make(map[string]time.Time, len(a.state.UpdatedAt))
	for k, v := range a.state.UpdatedAt {
		snap.UpdatedAt[k] = v
	}
	a.mu.Unlock()

	a.bus.Publish(events.TelemetryUpdated{Snapshot: &snap})
}

func radToDeg(rad float32) float64 {
	return float64(rad) * (180.0 / 3.14159265358979323846)
}

func firmwareVariantName(ap mavlink.MavAutopilot) string {
	switch ap {
	case mavlink.MavAutopilotArduPilot:
		return "ArduPilot"
	case mavlink.MavAutopilotPX4:
		return "PX4"
	default:
		return ""
	}
}

func appendUnique(reasons []string, reason string) []string {
	for _, r := range reasons {
		if r == reason {
			return reasons
		}
	}
	return append(reasons, reason)
}
