package msp

import (
	"encoding/binary"
	"fmt"
)

// Ident is the response to MSP_IDENT: FC identity and capability flags.
type Ident struct {
	Version      uint8
	Multitype    uint8
	MSPVersion   uint8
	Capability   uint32
}

func DecodeIdent(payload []byte) (*Ident, error) {
	if len(payload) < 7 {
		return nil, fmt.Errorf("msp: IDENT payload too short: %d bytes", len(payload))
	}
	return &Ident{
		Version:    payload[0],
		Multitype:  payload[1],
		MSPVersion: payload[2],
		Capability: binary.LittleEndian.Uint32(payload[3:7]),
	}, nil
}

// APIVersion is the response to MSP_API_VERSION.
type APIVersion struct {
	MSPProtocolVersion uint8
	APIMajor           uint8
	APIMinor           uint8
}

func DecodeAPIVersion(payload []byte) (*APIVersion, error) {
	if len(payload) < 3 {
		return nil, fmt.Errorf("msp: API_VERSION payload too short: %d bytes", len(payload))
	}
	return &APIVersion{
		MSPProtocolVersion: payload[0],
		APIMajor:           payload[1],
		APIMinor:           payload[2],
	}, nil
}

// FCVariant is the 4-character identifier string, e.g. "BTFL" or "INAV".
type FCVariant struct {
	Identifier string
}

func DecodeFCVariant(payload []byte) (*FCVariant, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("msp: FC_VARIANT payload too short: %d bytes", len(payload))
	}
	return &FCVariant{Identifier: string(payload[:4])}, nil
}

// FCVersion is the flight-controller firmware version (major.minor.patch).
type FCVersion struct {
	Major, Minor, Patch uint8
}

func DecodeFCVersion(payload []byte) (*FCVersion, error) {
	if len(payload) < 3 {
		return nil, fmt.Errorf("msp: FC_VERSION payload too short: %d bytes", len(payload))
	}
	return &FCVersion{Major: payload[0], Minor: payload[1], Patch: payload[2]}, nil
}

// BoxIDs lists the active mode/box IDs in transmission order, used
// together with ModeRanges to resolve which box bits correspond to
// which flight mode name.
type BoxIDs struct {
	IDs []uint8
}

func DecodeBoxIDs(payload []byte) (*BoxIDs, error) {
	return &BoxIDs{IDs: append([]uint8(nil), payload...)}, nil
}

// ModeRange is one AUX-channel activation range for a single box.
type ModeRange struct {
	BoxID      uint8
	AuxChannel uint8
	StartStep  uint8 // range low bound = 900 + startStep*25
	EndStep    uint8
}

// ModeRanges is the response to MSP_MODE_RANGES: the AUX-switch ranges
// the FC uses to activate each box/mode.
type ModeRanges struct {
	Ranges []ModeRange
}

func DecodeModeRanges(payload []byte) (*ModeRanges, error) {
	const entrySize = 4
	if len(payload)%entrySize != 0 {
		return nil, fmt.Errorf("msp: MODE_RANGES payload length %d not a multiple of %d", len(payload), entrySize)
	}
	ranges := make([]ModeRange, 0, len(payload)/entrySize)
	for i := 0; i+entrySize <= len(payload); i += entrySize {
		ranges = append(ranges, ModeRange{
			BoxID:      payload[i],
			AuxChannel: payload[i+1],
			StartStep:  payload[i+2],
			EndStep:    payload[i+3],
		})
	}
	return &ModeRanges{Ranges: ranges}, nil
}

// Attitude is the response to MSP_ATTITUDE. Roll and pitch are
// decidegrees on the wire; yaw is whole degrees.
type Attitude struct {
	RollDecideg  int16
	PitchDecideg int16
	YawDeg       int16
}

func DecodeAttitude(payload []byte) (*Attitude, error) {
	if len(payload) < 6 {
		return nil, fmt.Errorf("msp: ATTITUDE payload too short: %d bytes", len(payload))
	}
	return &Attitude{
		RollDecideg:  int16(binary.LittleEndian.Uint16(payload[0:2])),
		PitchDecideg: int16(binary.LittleEndian.Uint16(payload[2:4])),
		YawDeg:       int16(binary.LittleEndian.Uint16(payload[4:6])),
	}, nil
}

// RawGPS is the response to MSP_RAW_GPS. Lat/Lon are 1e-7 degrees,
// altitude is meters, speed is cm/s.
type RawGPS struct {
	Fix          uint8
	NumSat       uint8
	Lat          int32
	Lon          int32
	AltMeters    int16
	SpeedCmS     uint16
	GroundCourse uint16
}

func DecodeRawGPS(payload []byte) (*RawGPS, error) {
	if len(payload) < 16 {
		return nil, fmt.Errorf("msp: RAW_GPS payload too short: %d bytes", len(payload))
	}
	return &RawGPS{
		Fix:          payload[0],
		NumSat:       payload[1],
		Lat:          int32(binary.LittleEndian.Uint32(payload[2:6])),
		Lon:          int32(binary.LittleEndian.Uint32(payload[6:10])),
		AltMeters:    int16(binary.LittleEndian.Uint16(payload[10:12])),
		SpeedCmS:     binary.LittleEndian.Uint16(payload[12:14]),
		GroundCourse: binary.LittleEndian.Uint16(payload[14:16]),
	}, nil
}

// Altitude is the response to MSP_ALTITUDE. EstimAlt is centimeters,
// Vario is cm/s.
type Altitude struct {
	EstimAltCm int32
	VarioCmS   int16
}

func DecodeAltitude(payload []byte) (*Altitude, error) {
	if len(payload) < 6 {
		return nil, fmt.Errorf("msp: ALTITUDE payload too short: %d bytes", len(payload))
	}
	return &Altitude{
		EstimAltCm: int32(binary.LittleEndian.Uint32(payload[0:4])),
		VarioCmS:   int16(binary.LittleEndian.Uint16(payload[4:6])),
	}, nil
}

// Analog is the response to MSP_ANALOG: battery/RSSI telemetry.
type Analog struct {
	VBatDeciV  uint8
	MAhDrawn   uint16
	RSSI       uint16
	AmperageCa int16
}

func DecodeAnalog(payload []byte) (*Analog, error) {
	if len(payload) < 7 {
		return nil, fmt.Errorf("msp: ANALOG payload too short: %d bytes", len(payload))
	}
	return &Analog{
		VBatDeciV:  payload[0],
		MAhDrawn:   binary.LittleEndian.Uint16(payload[1:3]),
		RSSI:       binary.LittleEndian.Uint16(payload[3:5]),
		AmperageCa: int16(binary.LittleEndian.Uint16(payload[5:7])),
	}, nil
}

// RC is the response to MSP_RC: current RC channel values, 1000-2000us.
type RC struct {
	Channels []uint16
}

func DecodeRC(payload []byte) (*RC, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("msp: RC payload length %d not a multiple of 2", len(payload))
	}
	ch := make([]uint16, 0, len(payload)/2)
	for i := 0; i+2 <= len(payload); i += 2 {
		ch = append(ch, binary.LittleEndian.Uint16(payload[i:i+2]))
	}
	return &RC{Channels: ch}, nil
}

// EncodeSetRawRC builds the MSP_SET_RAW_RC payload for up to 18
// channels of 1000-2000us values.
func EncodeSetRawRC(channels []uint16) []byte {
	payload := make([]byte, len(channels)*2)
	for i, v := range channels {
		binary.LittleEndian.PutUint16(payload[i*2:i*2+2], v)
	}
	return payload
}

// Status is the response to MSP_STATUS: cycle time, sensor bitmask,
// and the active box/mode bitmask used to resolve flight mode names.
type Status struct {
	CycleTimeUs  uint16
	I2CErrors    uint16
	SensorMask   uint16
	ActiveBoxes  uint32
	CurrentSetup uint8
}

func DecodeStatus(payload []byte) (*Status, error) {
	if len(payload) < 11 {
		return nil, fmt.Errorf("msp: STATUS payload too short: %d bytes", len(payload))
	}
	return &Status{
		CycleTimeUs:  binary.LittleEndian.Uint16(payload[0:2]),
		I2CErrors:    binary.LittleEndian.Uint16(payload[2:4]),
		SensorMask:   binary.LittleEndian.Uint16(payload[4:6]),
		ActiveBoxes:  binary.LittleEndian.Uint32(payload[6:10]),
		CurrentSetup: payload[10],
	}, nil
}
