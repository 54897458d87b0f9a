package mavlink

import (
	"encoding/binary"
	"fmt"
)

const (
	magicV1 byte = 0xFE
	magicV2 byte = 0xFD

	headerLenV1 = 6  // magic, len, seq, sysid, compid, msgid (1 byte)
	headerLenV2 = 10 // magic, len, incompat, compat, seq, sysid, compid, msgid (3 bytes)
	crcLen      = 2
	signatureLen = 13

	incompatFlagSigned = 0x01

	// maxFrameLenV1/V2 bound how large a well-formed frame can possibly
	// be (255-byte max payload). The parser uses these to tell a frame
	// that is merely incomplete from one whose length byte is garbage.
	maxFrameLenV1 = headerLenV1 + 255 + crcLen
	maxFrameLenV2 = headerLenV2 + 255 + crcLen + signatureLen
)

// errIncomplete signals that buf does not yet hold enough bytes to
// determine the frame's outcome; Needed is the byte count required to
// make progress: the header length while not even the header is buffered
// yet, the full frame length once the length byte has been read.
type errIncomplete struct{ Needed int }

func (e *errIncomplete) Error() string {
	return fmt.Sprintf("mavlink: incomplete frame, need %d bytes", e.Needed)
}

// Frame is a decoded MAVLink frame: routing/header fields plus the raw,
// already-checksum-verified payload bytes. Decode does not unpack the
// payload into a Message; callers do that via DecodeMessage once they
// know (or look up) the message definition for Frame.MsgID.
type Frame struct {
	Version    int // 1 or 2
	SeqNum     byte
	SysID      byte
	CompID     byte
	MsgID      uint32
	Payload    []byte // trimmed to the def's wire length (MinLen..MaxLen)
	Incompat   byte
	Compat     byte
	Signature  []byte // 13 bytes if present, else nil
}

// EncodeFrame serializes msg as a MAVLink v1 or v2 frame. v2 payload
// trailing zero bytes in extension fields are trimmed per the MAVLink v2
// wire-size-reduction rule; v1 never carries extension fields at all.
func EncodeFrame(version int, seq, sysID, compID byte, msg Message) ([]byte, error) {
	def, ok := Lookup(msg.GetID())
	if !ok {
		return nil, fmt.Errorf("mavlink: message id %d not registered", msg.GetID())
	}

	payload, err := encodePayload(def, msg, version)
	if err != nil {
		return nil, fmt.Errorf("mavlink: encode %s: %w", def.Name, err)
	}

	if version == 1 {
		if def.ID > 0xFF {
			return nil, fmt.Errorf("mavlink: message %s id %d too large for v1", def.Name, def.ID)
		}
		return buildFrameV1(seq, sysID, compID, byte(def.ID), payload, def.CRCExtra), nil
	}
	return buildFrameV2(seq, sysID, compID, def.ID, payload, def.CRCExtra), nil
}

func buildFrameV1(seq, sysID, compID, msgID byte, payload []byte, crcExtra byte) []byte {
	body := make([]byte, 0, headerLenV1-1+len(payload))
	body = append(body, byte(len(payload)), seq, sysID, compID, msgID)
	body = append(body, payload...)

	out := make([]byte, 0, 1+len(body)+crcLen)
	out = append(out, magicV1)
	out = append(out, body...)
	crc := FrameCRC(body, crcExtra)
	out = append(out, byte(crc&0xFF), byte(crc>>8))
	return out
}

func buildFrameV2(seq, sysID, compID byte, msgID uint32, payload []byte, crcExtra byte) []byte {
	body := make([]byte, 0, headerLenV2-1+len(payload))
	body = append(body, byte(len(payload)), 0 /* incompat */, 0 /* compat */, seq, sysID, compID,
		byte(msgID&0xFF), byte((msgID>>8)&0xFF), byte((msgID>>16)&0xFF))
	body = append(body, payload...)

	out := make([]byte, 0, 1+len(body)+crcLen)
	out = append(out, magicV2)
	out = append(out, body...)
	crc := FrameCRC(body, crcExtra)
	out = append(out, byte(crc&0xFF), byte(crc>>8))
	return out
}

// DecodeFrame parses exactly one frame from buf, which must start at the
// magic byte and contain at least a full frame (the streaming Parser is
// responsible for finding that boundary in a byte stream). It returns the
// frame and the number of bytes consumed.
func DecodeFrame(buf []byte) (*Frame, int, error) {
	if len(buf) == 0 {
		return nil, 0, fmt.Errorf("mavlink: empty buffer")
	}
	switch buf[0] {
	case magicV1:
		return decodeFrameV1(buf)
	case magicV2:
		return decodeFrameV2(buf)
	default:
		return nil, 0, fmt.Errorf("mavlink: bad magic byte 0x%02X", buf[0])
	}
}

func decodeFrameV1(buf []byte) (*Frame, int, error) {
	if len(buf) < headerLenV1 {
		return nil, 0, &errIncomplete{Needed: headerLenV1}
	}
	payLen := int(buf[1])
	total := headerLenV1 + payLen + crcLen
	if len(buf) < total {
		return nil, 0, &errIncomplete{Needed: total}
	}

	body := buf[1 : headerLenV1+payLen]
	seq, sysID, compID, msgID := buf[2], buf[3], buf[4], uint32(buf[5])
	payload := buf[headerLenV1 : headerLenV1+payLen]

	def, ok := Lookup(msgID)
	if !ok {
		return &Frame{Version: 1, SeqNum: seq, SysID: sysID, CompID: compID, MsgID: msgID, Payload: payload},
			total, errUnknownMessage(msgID)
	}

	wantCRC := FrameCRC(body, def.CRCExtra)
	gotCRC := binary.LittleEndian.Uint16(buf[total-2 : total])
	if wantCRC != gotCRC {
		return nil, total, fmt.Errorf("mavlink: crc mismatch for %s: want 0x%04X got 0x%04X", def.Name, wantCRC, gotCRC)
	}

	return &Frame{Version: 1, SeqNum: seq, SysID: sysID, CompID: compID, MsgID: msgID, Payload: payload}, total, nil
}

func decodeFrameV2(buf []byte) (*Frame, int, error) {
	if len(buf) < headerLenV2 {
		return nil, 0, &errIncomplete{Needed: headerLenV2}
	}
	payLen := int(buf[1])
	incompat := buf[2]
	compat := buf[3]
	seq, sysID, compID := buf[4], buf[5], buf[6]
	msgID := uint32(buf[7]) | uint32(buf[8])<<8 | uint32(buf[9])<<16

	total := headerLenV2 + payLen + crcLen
	hasSig := incompat&incompatFlagSigned != 0
	if hasSig {
		total += signatureLen
	}
	if len(buf) < total {
		return nil, 0, &errIncomplete{Needed: total}
	}

	body := buf[1 : headerLenV2+payLen]
	payload := buf[headerLenV2 : headerLenV2+payLen]

	def, ok := Lookup(msgID)
	if !ok {
		return &Frame{Version: 2, SeqNum: seq, SysID: sysID, CompID: compID, MsgID: msgID, Payload: payload, Incompat: incompat, Compat: compat},
			total, errUnknownMessage(msgID)
	}

	crcOff := headerLenV2 + payLen
	wantCRC := FrameCRC(body, def.CRCExtra)
	gotCRC := binary.LittleEndian.Uint16(buf[crcOff : crcOff+2])
	if wantCRC != gotCRC {
		return nil, total, fmt.Errorf("mavlink: crc mismatch for %s: want 0x%04X got 0x%04X", def.Name, wantCRC, gotCRC)
	}

	f := &Frame{Version: 2, SeqNum: seq, SysID: sysID, CompID: compID, MsgID: msgID, Payload: payload, Incompat: incompat, Compat: compat}
	if hasSig {
		f.Signature = append([]byte(nil), buf[crcOff+2:crcOff+2+signatureLen]...)
	}
	return f, total, nil
}

// FormatFirmwareVersion decodes AUTOPILOT_VERSION.flight_sw_version into a
// "major.minor.patch" string. MAVLink packs the version as four bytes,
// most-significant first: major, minor, patch, then a version-type byte
// (dev/alpha/beta/rc/official) this repo does not surface separately.
func FormatFirmwareVersion(flightSwVersion uint32) string {
	major := (flightSwVersion >> 24) & 0xFF
	minor := (flightSwVersion >> 16) & 0xFF
	patch := (flightSwVersion >> 8) & 0xFF
	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}

// UnknownMessageError signals that DecodeFrame found a well-formed frame
// boundary (length, crc field slot, everything) for a message id the
// registry has no definition for. The frame is still returned to the
// caller alongside this error, Payload holding the raw undecoded bytes,
// so an unknown message is surfaced as a diagnostic event rather than
// silently dropped.
type UnknownMessageError struct{ ID uint32 }

func (e *UnknownMessageError) Error() string {
	return fmt.Sprintf("mavlink: unknown message id %d", e.ID)
}

func errUnknownMessage(id uint32) error {
	return &UnknownMessageError{ID: id}
}

// DecodeMessage unpacks f.Payload into a freshly-constructed message of
// the type registered for f.MsgID. out must be a pointer to the exact
// registered struct type.
func DecodeMessage(f *Frame, out Message) error {
	def, ok := Lookup(f.MsgID)
	if !ok {
		return errUnknownMessage(f.MsgID)
	}
	return decodePayload(def, f.Payload, out)
}

// encodePayload packs msg's fields into wire order, zero-extends to
// def.MaxLen, then trims trailing zero extension bytes for v2 (v1 frames
// are always truncated to MinLen since v1 never carries extensions).
func encodePayload(def *MessageDef, msg Message, version int) ([]byte, error) {
	buf := make([]byte, def.MaxLen)
	rv := valueOf(msg)

	off := 0
	for _, f := range def.wireOrder {
		fv := rv.Field(f.index)
		n, err := putField(buf[off:], f, fv)
		if err != nil {
			return nil, err
		}
		off += n
	}

	if version == 1 {
		return buf[:def.MinLen], nil
	}

	end := len(buf)
	for end > def.MinLen && buf[end-1] == 0 {
		end--
	}
	return buf[:end], nil
}

// decodePayload unpacks a (possibly truncated, per MAVLink v2 trailing-
// zero trimming, or v1 no-extensions) payload into out. The destination
// buffer is zero-padded up to MaxLen before unpacking so that missing
// trailing extension fields decode as their zero value, satisfying
// cross-version compatibility between v1 senders and v2-aware receivers.
func decodePayload(def *MessageDef, payload []byte, out Message) error {
	if len(payload) > def.MaxLen {
		return fmt.Errorf("mavlink: payload longer than %s max (%d > %d)", def.Name, len(payload), def.MaxLen)
	}
	buf := make([]byte, def.MaxLen)
	copy(buf, payload)

	off := 0
	for _, f := range def.wireOrder {
		fv := addressableField(out, f.index)
		n, err := getField(buf[off:], f, fv)
		if err != nil {
			return err
		}
		off += n
	}
	return nil
}
