package msp

import "encoding/binary"

// ParseResult is one parser outcome: either a decoded Frame, a parse
// error, or bytes dropped while resynchronizing — mirroring the MAVLink
// parser's resync contract so link.go can treat both protocols
// uniformly.
type ParseResult struct {
	Frame        *Frame
	Err          error
	DroppedBytes int
}

// Parser accumulates bytes across Feed calls and emits frames as soon as
// they're complete, resynchronizing past corrupt data by scanning
// forward for the next '$' header byte.
type Parser struct {
	buf []byte
}

func NewParser() *Parser {
	return &Parser{}
}

// Feed appends data to the internal buffer and extracts as many
// complete frames as are available.
func (p *Parser) Feed(data []byte) []ParseResult {
	p.buf = append(p.buf, data...)

	var results []ParseResult
	for {
		res, consumed, ok := p.tryOne()
		if !ok {
			break
		}
		if res.Frame != nil || res.Err != nil || res.DroppedBytes > 0 {
			results = append(results, res)
		}
		p.buf = p.buf[consumed:]
	}
	return results
}

func (p *Parser) tryOne() (ParseResult, int, bool) {
	start := p.scanToSync()
	if start > 0 {
		p.buf = p.buf[start:]
		return ParseResult{DroppedBytes: start}, 0, true
	}

	if len(p.buf) < 3 {
		return ParseResult{}, 0, false
	}
	switch p.buf[1] {
	case v1Byte1:
		return p.tryV1()
	case v2Byte1:
		return p.tryV2()
	default:
		// '$' not followed by a recognized version byte: drop it and resync.
		return ParseResult{DroppedBytes: 1}, 1, true
	}
}

func (p *Parser) tryV1() (ParseResult, int, bool) {
	if len(p.buf) < 5 {
		return ParseResult{}, 0, false
	}
	size := int(p.buf[3])
	total := 5 + size + 1
	if len(p.buf) < total {
		return ParseResult{}, 0, false
	}
	cmd := p.buf[4]
	payload := p.buf[5 : 5+size]
	want := checksumV1(p.buf[3], cmd, payload)
	got := p.buf[total-1]
	if got != want {
		return ParseResult{Err: errChecksum(got, want)}, 1, true
	}
	frame := &Frame{
		Version:   1,
		Direction: Direction(p.buf[2]),
		Cmd:       uint16(cmd),
		Payload:   append([]byte(nil), payload...),
	}
	return ParseResult{Frame: frame}, total, true
}

func (p *Parser) tryV2() (ParseResult, int, bool) {
	if len(p.buf) < 9 {
		return ParseResult{}, 0, false
	}
	size := int(binary.LittleEndian.Uint16(p.buf[6:8]))
	total := 9 + size
	if len(p.buf) < total {
		return ParseResult{}, 0, false
	}
	crcRegion := p.buf[3 : 8+size]
	want := crc8DVBS2(crcRegion)
	got := p.buf[total-1]
	if got != want {
		return ParseResult{Err: errChecksum(got, want)}, 1, true
	}
	frame := &Frame{
		Version:   2,
		Direction: Direction(p.buf[2]),
		Flags:     p.buf[3],
		Cmd:       binary.LittleEndian.Uint16(p.buf[4:6]),
		Payload:   append([]byte(nil), p.buf[8:8+size]...),
	}
	return ParseResult{Frame: frame}, total, true
}

// scanToSync returns the offset of the next '$' header byte, or
// len(p.buf) if none is present.
func (p *Parser) scanToSync() int {
	for i, b := range p.buf {
		if b == headerByte0 {
			return i
		}
	}
	return len(p.buf)
}
