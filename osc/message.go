// Package osc implements the subset of Open Sound Control 1.0 used by the
// bridge: messages with int32 and float32 arguments, big-endian, with the
// usual NUL-terminated 4-byte-padded string framing. Bundles and timetags
// are not supported.
package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// TypeTag identifies the wire type of a single argument.
type TypeTag byte

const (
	TypeInt32   TypeTag = 'i'
	TypeFloat32 TypeTag = 'f'
)

// Argument is a single decoded OSC argument. Exactly one of the value
// fields is meaningful, selected by Tag.
type Argument struct {
	Tag     TypeTag
	Int32   int32
	Float32 float32
}

// Int returns an int32 argument.
func Int(v int32) Argument { return Argument{Tag: TypeInt32, Int32: v} }

// Float returns a float32 argument.
func Float(v float32) Argument { return Argument{Tag: TypeFloat32, Float32: v} }

// Int32Value returns the argument as an int32, truncating floats toward
// zero. Matches how controllers mix int and float payloads freely.
func (a Argument) Int32Value() int32 {
	if a.Tag == TypeFloat32 {
		return int32(a.Float32)
	}
	return a.Int32
}

// Float64Value returns the argument widened to float64.
func (a Argument) Float64Value() float64 {
	if a.Tag == TypeInt32 {
		return float64(a.Int32)
	}
	return float64(a.Float32)
}

// String implements fmt.Stringer.
func (a Argument) String() string {
	if a.Tag == TypeFloat32 {
		return fmt.Sprintf("%g", a.Float32)
	}
	return fmt.Sprintf("%d", a.Int32)
}

// Message is a single OSC message: an address pattern plus zero or more
// arguments. Messages are immutable once decoded.
type Message struct {
	Address   string
	Arguments []Argument
}

// NewMessage returns a new Message for the given address.
func NewMessage(addr string, args ...Argument) *Message {
	return &Message{Address: addr, Arguments: args}
}

// TypeTags returns the type tag string for the message, including the
// leading comma.
func (m *Message) TypeTags() string {
	tags := make([]byte, 0, len(m.Arguments)+1)
	tags = append(tags, ',')
	for _, a := range m.Arguments {
		tags = append(tags, byte(a.Tag))
	}
	return string(tags)
}

// String implements fmt.Stringer.
func (m *Message) String() string {
	if m == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.Address)
	b.WriteByte(' ')
	b.WriteString(m.TypeTags())
	for _, a := range m.Arguments {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	return b.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The
// layout is address, type tag string, then the 4-byte big-endian argument
// payload.
func (m *Message) MarshalBinary() ([]byte, error) {
	if !strings.HasPrefix(m.Address, "/") {
		return nil, fmt.Errorf("marshal: address %q does not start with /", m.Address)
	}
	var data bytes.Buffer
	writePaddedString(m.Address, &data)
	writePaddedString(m.TypeTags(), &data)
	for _, a := range m.Arguments {
		var buf [bit32Size]byte
		switch a.Tag {
		case TypeInt32:
			binary.BigEndian.PutUint32(buf[:], uint32(a.Int32))
		case TypeFloat32:
			binary.BigEndian.PutUint32(buf[:], math.Float32bits(a.Float32))
		default:
			return nil, fmt.Errorf("marshal: unsupported type tag %q", a.Tag)
		}
		data.Write(buf[:])
	}
	return data.Bytes(), nil
}

// writePaddedString writes str plus its NUL terminator, padded with
// additional NULs to the next 4-byte boundary.
func writePaddedString(str string, b *bytes.Buffer) {
	b.WriteString(str)
	b.WriteByte(0)
	for i := 0; i < padBytesNeeded(len(str)+1); i++ {
		b.WriteByte(0)
	}
}

// padBytesNeeded determines how many bytes are needed to fill up to the
// next 4-byte boundary.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}
