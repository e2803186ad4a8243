// Package nec implements the NEC external-control wire framing: an ASCII
// header, an STX/ETX delimited payload and a single-byte XOR block check.
// Encode and Validate are pure over byte slices; the package does no I/O.
package nec

import (
	"errors"
	"fmt"
)

// Fixed frame bytes. Everything between SOH and STX is printable ASCII.
const (
	soh           = 0x01 // start of header
	stx           = 0x02
	etx           = 0x03
	reservedByte  = '0' // reserved for future extensions
	destMonitor1  = 'A' // destination equipment ID, monitor 1
	srcController = '0' // source equipment ID, controller is always zero
	lengthLead    = '0' // first length character, always zero
)

// Delimiter terminates every frame on the wire.
const Delimiter byte = 0x0D

// MaxFrameLen bounds one receive buffer.
const MaxFrameLen = 64

const (
	headerLen   = 8 // SOH through STX
	trailerLen  = 3 // ETX, block check, delimiter
	minFrameLen = 9
	valueHexLen = 4  // 16-bit value as four hex characters
	stxEtxLen   = 2  // STX/ETX are accounted in the length field
	maxRawLen   = 15 // one hex digit after the fixed '0' lead
)

var (
	ErrValueOutOfRange  = errors.New("nec: value does not fit four hex digits")
	ErrPayloadTooLarge  = errors.New("nec: payload too large")
	ErrMalformed        = errors.New("nec: malformed frame")
	ErrChecksumMismatch = errors.New("nec: checksum mismatch")
)

// MessageType is the single-byte tag distinguishing commands, parameter
// access and their replies. Case sensitive on the wire.
type MessageType byte

const (
	TypeCommand           MessageType = 'A'
	TypeCommandReply      MessageType = 'B'
	TypeGetParameter      MessageType = 'C'
	TypeGetParameterReply MessageType = 'D'
	TypeSetParameter      MessageType = 'E'
	TypeSetParameterReply MessageType = 'F'
)

// Descriptor identifies one logical operation: a message type plus the fixed
// opcode bytes from the device documentation.
type Descriptor struct {
	Type   MessageType
	OpCode []byte
}

// Reply is one validated frame received from the display.
type Reply struct {
	Type    MessageType
	Payload []byte
}

// Encode builds the complete wire frame for a descriptor and a 16-bit
// parameter value. Identical inputs produce identical frames; on error no
// partial frame is returned.
func Encode(d Descriptor, value int) ([]byte, error) {
	if value < 0 || value > 0xFFFF {
		return nil, fmt.Errorf("%w: %d", ErrValueOutOfRange, value)
	}
	rawLen := len(d.OpCode) + valueHexLen + stxEtxLen
	lengthByte, ok := encodeLength(rawLen)
	if !ok {
		return nil, fmt.Errorf("%w: payload length %d", ErrPayloadTooLarge, rawLen)
	}

	buf := make([]byte, 0, headerLen+len(d.OpCode)+valueHexLen+trailerLen)
	buf = append(buf,
		soh,
		reservedByte,
		destMonitor1,
		srcController,
		byte(d.Type),
		lengthLead,
		lengthByte,
		stx,
	)
	buf = append(buf, d.OpCode...)
	buf = appendHexValue(buf, uint16(value))
	buf = append(buf, etx)
	buf = append(buf, blockCheck(buf[1:]), Delimiter)
	return buf, nil
}

// Validate checks one received byte sequence against the framing and
// block-check rules and returns its message type and payload. It never
// blocks and does not retain or mutate raw.
func Validate(raw []byte) (Reply, error) {
	if len(raw) < minFrameLen {
		return Reply{}, fmt.Errorf("%w: %d bytes", ErrMalformed, len(raw))
	}
	if raw[0] != soh || raw[headerLen-1] != stx || raw[len(raw)-1] != Delimiter {
		return Reply{}, fmt.Errorf("%w: fixed marker out of position", ErrMalformed)
	}
	if raw[5] != lengthLead {
		return Reply{}, fmt.Errorf("%w: length field %#02x%02x", ErrMalformed, raw[5], raw[6])
	}
	rawLen, ok := decodeLength(raw[6])
	if !ok || rawLen < stxEtxLen {
		return Reply{}, fmt.Errorf("%w: length field %#02x%02x", ErrMalformed, raw[5], raw[6])
	}
	etxIndex := headerLen + rawLen - stxEtxLen
	if len(raw) != etxIndex+trailerLen || raw[etxIndex] != etx {
		return Reply{}, fmt.Errorf("%w: declared length %d disagrees with frame", ErrMalformed, rawLen)
	}
	if check := blockCheck(raw[1 : etxIndex+1]); check != raw[etxIndex+1] {
		return Reply{}, fmt.Errorf("%w: computed %#02x, received %#02x",
			ErrChecksumMismatch, check, raw[etxIndex+1])
	}
	payload := make([]byte, etxIndex-headerLen)
	copy(payload, raw[headerLen:etxIndex])
	return Reply{Type: MessageType(raw[4]), Payload: payload}, nil
}

// encodeLength maps a raw payload length onto the single meaningful hex
// character of the length field. Lengths above 9 skip the ASCII gap between
// '9' and 'A' so the byte stays a hex digit; above 15 the field cannot
// represent the length at all.
func encodeLength(raw int) (byte, bool) {
	if raw < 0 || raw > maxRawLen {
		return 0, false
	}
	if raw > 9 {
		raw += 'A' - '9' - 1
	}
	return byte('0' + raw), true
}

// decodeLength is the inverse of encodeLength. Only '0'..'9' and 'A'..'F'
// are valid on the wire.
func decodeLength(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}

const hexDigits = "0123456789abcdef"

// appendHexValue appends value as four lowercase hex characters, big-endian.
func appendHexValue(buf []byte, value uint16) []byte {
	return append(buf,
		hexDigits[value>>12&0xF],
		hexDigits[value>>8&0xF],
		hexDigits[value>>4&0xF],
		hexDigits[value&0xF],
	)
}

// blockCheck XOR-reduces the span from the reserved byte through ETX. The
// start-of-header byte is excluded.
func blockCheck(span []byte) byte {
	var check byte
	for _, b := range span {
		check ^= b
	}
	return check
}
