package telemetry

import "github.com/rubenCodeforges/ardudeck-sub002/internal/mavlink"

// FlightModeTable resolves a HEARTBEAT.custom_mode value to a human
// string, keyed by autopilot and vehicle type since the same integer
// means different things on different firmware.
type FlightModeTable interface {
	Name(autopilot mavlink.MavAutopilot, vehicle mavlink.MavType, customMode uint32) string
}

// PX4 main-mode values, as PX4 firmware packs them into byte 2 (bits
// 16-23) of HEARTBEAT.custom_mode.
const (
	px4MainModeManual     = 1
	px4MainModeAltctl     = 2
	px4MainModePosctl     = 3
	px4MainModeAuto       = 4
	px4MainModeAcro       = 5
	px4MainModeOffboard   = 6
	px4MainModeStabilized = 7
	px4MainModeRattitude  = 8
)

const (
	px4AutoModeReady    = 1
	px4AutoModeTakeoff  = 2
	px4AutoModeLoiter   = 3
	px4AutoModeMission  = 4
	px4AutoModeRTL      = 5
	px4AutoModeLand     = 6
	px4AutoModeFollow   = 8
	px4AutoModePrecland = 9
)

type px4ModeTable struct{}

// PX4Modes decodes PX4's packed custom_mode: byte 2 (bits 16-23) is the
// main mode, byte 3 (bits 24-31) is the sub-mode when main mode is AUTO.
var PX4Modes FlightModeTable = px4ModeTable{}

func (px4ModeTable) Name(_ mavlink.MavAutopilot, _ mavlink.MavType, customMode uint32) string {
	main := (customMode >> 16) & 0xFF
	sub := (customMode >> 24) & 0xFF

	switch main {
	case px4MainModeManual:
		return "MANUAL"
	case px4MainModeAltctl:
		return "ALTCTL"
	case px4MainModePosctl:
		return "POSCTL"
	case px4MainModeAcro:
		return "ACRO"
	case px4MainModeOffboard:
		return "OFFBOARD"
	case px4MainModeStabilized:
		return "STABILIZED"
	case px4MainModeRattitude:
		return "RATTITUDE"
	case px4MainModeAuto:
		switch sub {
		case px4AutoModeReady:
			return "AUTO.READY"
		case px4AutoModeTakeoff:
			return "AUTO.TAKEOFF"
		case px4AutoModeLoiter:
			return "AUTO.LOITER"
		case px4AutoModeMission:
			return "AUTO.MISSION"
		case px4AutoModeRTL:
			return "AUTO.RTL"
		case px4AutoModeLand:
			return "AUTO.LAND"
		case px4AutoModeFollow:
			return "AUTO.FOLLOW"
		case px4AutoModePrecland:
			return "AUTO.PRECLAND"
		default:
			return "AUTO"
		}
	default:
		return "UNKNOWN"
	}
}

// ardupilotCopterModes and ardupilotPlaneModes map ArduPilot's flat,
// per-vehicle-type custom_mode integer to its firmware name. ArduPilot
// (unlike PX4) does not pack sub-modes into custom_mode, so the table is
// a plain lookup, indexed per vehicle frame class.
var ardupilotCopterModes = map[uint32]string{
	0: "STABILIZE", 1: "ACRO", 2: "ALT_HOLD", 3: "AUTO", 4: "GUIDED",
	5: "LOITER", 6: "RTL", 7: "CIRCLE", 9: "LAND", 11: "DRIFT",
	13: "SPORT", 14: "FLIP", 15: "AUTOTUNE", 16: "POSHOLD", 17: "BRAKE",
	18: "THROW", 19: "AVOID_ADSB", 20: "GUIDED_NOGPS", 21: "SMART_RTL",
	22: "FLOWHOLD", 23: "FOLLOW", 24: "ZIGZAG", 25: "SYSTEMID",
	26: "AUTOROTATE", 27: "AUTO_RTL",
}

var ardupilotPlaneModes = map[uint32]string{
	0: "MANUAL", 1: "CIRCLE", 2: "STABILIZE", 3: "TRAINING", 4: "ACRO",
	5: "FLY_BY_WIRE_A", 6: "FLY_BY_WIRE_B", 7: "CRUISE", 8: "AUTOTUNE",
	10: "AUTO", 11: "RTL", 12: "LOITER", 14: "AVOID_ADSB", 15: "GUIDED",
	17: "QSTABILIZE", 18: "QHOVER", 19: "QLOITER", 20: "QLAND",
	21: "QRTL", 22: "QAUTOTUNE", 23: "QACRO", 24: "THERMAL",
}

type ardupilotModeTable struct{}

// ArduPilotModes resolves custom_mode using the copter table for
// multirotor and helicopter MAV_TYPEs and the plane table otherwise; ArduPilot's
// custom_mode space is only unambiguous within one vehicle class.
var ArduPilotModes FlightModeTable = ardupilotModeTable{}

func (ardupilotModeTable) Name(_ mavlink.MavAutopilot, vehicle mavlink.MavType, customMode uint32) string {
	table := ardupilotPlaneModes
	switch vehicle {
	case mavlink.MavTypeQuadrotor, mavlink.MavTypeHexarotor, mavlink.MavTypeOctorotor, mavlink.MavTypeHelicopter:
		table = ardupilotCopterModes
	}
	if name, ok := table[customMode]; ok {
		return name
	}
	return "UNKNOWN"
}

// ByAutopilot picks ArduPilotModes or PX4Modes based on the HEARTBEAT's
// reported autopilot type, falling back to PX4's table since it degrades
// gracefully to "UNKNOWN" on out-of-range values.
type byAutopilot struct{}

var ByAutopilot FlightModeTable = byAutopilot{}

func (byAutopilot) Name(autopilot mavlink.MavAutopilot, vehicle mavlink.MavType, customMode uint32) string {
	if autopilot == mavlink.MavAutopilotArduPilot {
		return ArduPilotModes.Name(autopilot, vehicle, customMode)
	}
	return PX4Modes.Name(autopilot, vehicle, customMode)
}
