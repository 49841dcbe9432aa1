package osc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"unicode/utf8"
)

const bit32Size = 4

// Decode errors. Anything else that arrives on the wire decodes to a
// (possibly argument-less) message: many OSC senders are sloppy about the
// type tag string, so the decoder is deliberately permissive past the
// address field.
var (
	ErrEmptyPacket         = errors.New("osc: empty packet")
	ErrUnterminatedAddress = errors.New("osc: address not NUL-terminated")
	ErrMalformedAddress    = errors.New("osc: malformed address")
)

// Decode parses a raw datagram into a Message.
//
// The address must be a NUL-terminated UTF-8 string starting with '/'. The
// type tag string is optional; if it is missing, unterminated, or does not
// start with ',', the message is returned with zero arguments rather than
// an error. Each 'i' or 'f' tag consumes exactly four bytes; any other tag
// character consumes none and is skipped. If the payload runs out before
// the tag string does, the arguments decoded so far are returned.
func Decode(data []byte) (*Message, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPacket
	}

	addr, off, err := parsePaddedString(data, 0)
	if err != nil {
		return nil, ErrUnterminatedAddress
	}
	if !strings.HasPrefix(addr, "/") || !utf8.ValidString(addr) {
		return nil, ErrMalformedAddress
	}

	msg := &Message{Address: addr}

	tags, off, err := parsePaddedString(data, off)
	if err != nil || !strings.HasPrefix(tags, ",") {
		return msg, nil
	}

	for _, t := range tags[1:] {
		switch TypeTag(t) {
		case TypeInt32:
			if off+bit32Size > len(data) {
				return msg, nil
			}
			msg.Arguments = append(msg.Arguments, Int(int32(binary.BigEndian.Uint32(data[off:off+bit32Size]))))
			off += bit32Size
		case TypeFloat32:
			if off+bit32Size > len(data) {
				return msg, nil
			}
			msg.Arguments = append(msg.Arguments, Float(math.Float32frombits(binary.BigEndian.Uint32(data[off:off+bit32Size]))))
			off += bit32Size
		default:
			// Unknown tag: no payload bytes consumed.
		}
	}

	return msg, nil
}

// parsePaddedString reads a NUL-terminated string starting at off and
// returns it together with the offset just past the string's padding.
func parsePaddedString(data []byte, off int) (string, int, error) {
	if off >= len(data) {
		return "", off, ErrUnterminatedAddress
	}
	pos := bytes.IndexByte(data[off:], 0)
	if pos == -1 {
		return "", off, ErrUnterminatedAddress
	}
	str := string(data[off : off+pos])
	return str, off + pos + 1 + padBytesNeeded(pos+1), nil
}
