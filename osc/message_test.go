package osc

import (
	"reflect"
	"testing"
)

const zero = "\x00"

var messageTestCases = []struct {
	name string
	obj  *Message
	raw  []byte
}{
	{
		"no_arguments",
		NewMessage("/ping"),
		[]byte("/ping" + zero + zero + zero + "," + zero + zero + zero),
	},
	{
		"single_int",
		NewMessage("/transport/play", Int(127)),
		[]byte("/transport/play" + zero + ",i" + zero + zero + "\x00\x00\x00\x7f"),
	},
	{
		"cc_triple",
		NewMessage("/midi/cc", Int(1), Int(64), Int(100)),
		[]byte("/midi/cc" + nulls(4) + ",iii" + nulls(4) +
			"\x00\x00\x00\x01" + "\x00\x00\x00\x40" + "\x00\x00\x00\x64"),
	},
	{
		"float_argument",
		NewMessage("/slider/10", Float(0.5)),
		[]byte("/slider/10" + zero + zero + ",f" + zero + zero + "\x3f\x00\x00\x00"),
	},
	{
		"negative_int",
		NewMessage("/x", Int(-1)),
		[]byte("/x" + zero + zero + ",i" + zero + zero + "\xff\xff\xff\xff"),
	},
}

// nulls returns a string of i NUL bytes.
func nulls(i int) string {
	s := ""
	for j := 0; j < i; j++ {
		s += zero
	}
	return s
}

func TestMessage_MarshalBinary(t *testing.T) {
	for _, tt := range messageTestCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.obj.MarshalBinary()
			if err != nil {
				t.Fatalf("MarshalBinary() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.raw) {
				t.Errorf("MarshalBinary() got = %q, want %q", got, tt.raw)
			}
		})
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	for _, tt := range messageTestCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got.Address != tt.obj.Address {
				t.Errorf("Decode() address = %q, want %q", got.Address, tt.obj.Address)
			}
			if !reflect.DeepEqual(got.Arguments, tt.obj.Arguments) {
				t.Errorf("Decode() arguments = %v, want %v", got.Arguments, tt.obj.Arguments)
			}
		})
	}
}

func TestMessage_MarshalBinaryBadAddress(t *testing.T) {
	if _, err := NewMessage("nope").MarshalBinary(); err == nil {
		t.Error("MarshalBinary() accepted address without leading /")
	}
}

func TestPaddingLaw(t *testing.T) {
	for _, addr := range []string{"/", "/a", "/ab", "/abc", "/abcd", "/transport/prevMarker"} {
		msg := NewMessage(addr)
		raw, err := msg.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary(%q) error = %v", addr, err)
		}
		if len(raw) == 0 || len(raw)%4 != 0 {
			t.Errorf("encoded length of %q = %d, want positive multiple of 4", addr, len(raw))
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	tc := []struct {
		name string
		raw  []byte
		want error
	}{
		{"empty_buffer", []byte{}, ErrEmptyPacket},
		{"no_nul_terminator", []byte("/x"), ErrUnterminatedAddress},
		{"missing_leading_slash", []byte("ping" + nulls(4)), ErrMalformedAddress},
		{"invalid_utf8", []byte("/\xff\xfe" + zero + nulls(4)), ErrMalformedAddress},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.raw); err != tt.want {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecode_Permissive(t *testing.T) {
	tc := []struct {
		name     string
		raw      []byte
		wantArgs []Argument
	}{
		{
			// No type tag string at all: still a valid message.
			"missing_typetag",
			[]byte("/transport/play" + zero),
			nil,
		},
		{
			// Type tag without leading comma is ignored wholesale.
			"typetag_without_comma",
			[]byte("/x" + zero + zero + "ii" + zero + zero + "\x00\x00\x00\x01"),
			nil,
		},
		{
			// Unterminated type tag string: valid message, zero args.
			"unterminated_typetag",
			[]byte("/x" + zero + zero + ",iii"),
			nil,
		},
		{
			// Unknown tag chars consume no payload; the int that follows
			// still decodes from the right offset.
			"unknown_tags_skipped",
			[]byte("/x" + zero + zero + ",sbi" + nulls(4) + "\x00\x00\x00\x05"),
			[]Argument{Int(5)},
		},
		{
			// Payload too short for the declared tags: keep what decoded.
			"truncated_arguments",
			[]byte("/x" + zero + zero + ",ii" + zero + "\x00\x00\x00\x07\x00\x00"),
			[]Argument{Int(7)},
		},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got.Arguments, tt.wantArgs) {
				t.Errorf("Decode() arguments = %v, want %v", got.Arguments, tt.wantArgs)
			}
		})
	}
}

func TestArgument_Conversions(t *testing.T) {
	if got := Float(1.9).Int32Value(); got != 1 {
		t.Errorf("Float(1.9).Int32Value() = %d, want 1", got)
	}
	if got := Int(64).Float64Value(); got != 64 {
		t.Errorf("Int(64).Float64Value() = %g, want 64", got)
	}
	if got := Int(-3).Int32Value(); got != -3 {
		t.Errorf("Int(-3).Int32Value() = %d, want -3", got)
	}
}
