package bridge

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/marcojking/logicpro-midi-controller/osc"
)

// Per-message mapping failures. Both are non-fatal: the dispatch loop
// reports them and keeps listening.
var (
	ErrBadArgument     = errors.New("bad argument")
	ErrUnhandledAction = errors.New("unhandled action")
)

// transportCC maps transport action keys to their fixed controller
// numbers, all on channel 0. These match the companion web app.
var transportCC = map[string]uint8{
	"record":     116,
	"play":       117,
	"stop":       118,
	"rewind":     119,
	"undo":       120,
	"loop":       121,
	"click":      122,
	"marker":     123,
	"prevMarker": 124,
	"nextMarker": 125,
	"save":       126,
}

// KeyBinding is a transport action expressed as a literal key with an
// optional command modifier.
type KeyBinding struct {
	Key     string
	Command bool
}

// transportKeys maps transport action keys to Logic Pro's default
// keyboard shortcuts.
var transportKeys = map[string]KeyBinding{
	"record":     {Key: "r"},
	"play":       {Key: "space"},
	"stop":       {Key: "."},
	"rewind":     {Key: ","},
	"undo":       {Key: "z", Command: true},
	"loop":       {Key: "c"},
	"click":      {Key: "k"},
	"marker":     {Key: "'"},
	"prevMarker": {Key: ",", Command: true},
	"nextMarker": {Key: ".", Command: true},
	"save":       {Key: "s", Command: true},
}

// Mapper turns a route hit plus the message arguments into an effect
// descriptor. The tables are built once at startup and read-only after;
// Map is pure and safe to call concurrently.
//
// Value ranges are passed through unclamped by default: a slider value
// outside [0,1] or a CC value outside [0,127] reaches the actuator with
// only the uint8 conversion applied. Clamp opts into saturating both.
type Mapper struct {
	transport     map[string]Effect
	missingValue  int32 // transport value when the message has no args; <0 means BadArgument
	sliderChannel uint8
	clamp         bool
}

// MapperOption adjusts mapper construction.
type MapperOption func(*Mapper)

// WithSliderChannel sets the channel slider CCs are emitted on.
func WithSliderChannel(ch uint8) MapperOption {
	return func(m *Mapper) { m.sliderChannel = ch }
}

// WithClamping saturates out-of-range values to the MIDI ranges instead of
// passing them through.
func WithClamping() MapperOption {
	return func(m *Mapper) { m.clamp = true }
}

// WithTransportKeys overrides individual keystroke bindings. Only
// meaningful for the keystroke mapper.
func WithTransportKeys(overrides map[string]KeyBinding) MapperOption {
	return func(m *Mapper) {
		for action, kb := range overrides {
			if _, ok := m.transport[action]; ok {
				m.transport[action] = Keystroke(kb.Key, kb.Command)
			}
		}
	}
}

// NewMIDIMapper builds the mapper for the MIDI control-change backend.
func NewMIDIMapper(opts ...MapperOption) *Mapper {
	m := &Mapper{
		transport:    make(map[string]Effect, len(transportCC)),
		missingValue: -1,
	}
	for action, cc := range transportCC {
		m.transport[action] = ControlChange(0, cc, 0)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewKeystrokeMapper builds the mapper for the keystroke backend. A
// transport message without a value argument is treated as a full press
// (127), matching senders that emit bare trigger messages.
func NewKeystrokeMapper(opts ...MapperOption) *Mapper {
	m := &Mapper{
		transport:    make(map[string]Effect, len(transportKeys)),
		missingValue: 127,
	}
	for action, kb := range transportKeys {
		m.transport[action] = Keystroke(kb.Key, kb.Command)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map resolves a route hit to an effect. The second return value reports
// whether the effect should fire: transport messages gate on value > 0,
// producing (effect, false, nil) for releases.
func (m *Mapper) Map(hit RouteHit, args []osc.Argument) (Effect, bool, error) {
	switch hit.Table {
	case TableRawCC:
		return m.mapRawCC(args)
	case TableTransport:
		return m.mapTransport(hit.Key, args)
	case TableSlider:
		return m.mapSlider(hit.Key, args)
	}
	return Effect{}, false, fmt.Errorf("%w: no table for %q", ErrUnhandledAction, hit.Pattern)
}

// mapRawCC handles /midi/cc: channel (1-indexed), controller, value.
func (m *Mapper) mapRawCC(args []osc.Argument) (Effect, bool, error) {
	if len(args) < 3 {
		return Effect{}, false, fmt.Errorf("%w: cc needs channel, controller, value (got %d args)", ErrBadArgument, len(args))
	}
	ch := args[0].Int32Value() - 1
	cc := args[1].Int32Value()
	val := args[2].Int32Value()
	return ControlChange(m.toMIDI(ch, 15), m.toMIDI(cc, 127), m.toMIDI(val, 127)), true, nil
}

func (m *Mapper) mapTransport(action string, args []osc.Argument) (Effect, bool, error) {
	eff, ok := m.transport[action]
	if !ok {
		return Effect{}, false, fmt.Errorf("%w: transport %q", ErrUnhandledAction, action)
	}
	value := m.missingValue
	if len(args) > 0 {
		value = args[0].Int32Value()
	} else if value < 0 {
		return Effect{}, false, fmt.Errorf("%w: transport %q needs a value", ErrBadArgument, action)
	}
	if eff.Kind == EffectControlChange {
		eff.Value = m.toMIDI(value, 127)
	}
	// Fire on press only: a zero (or negative) value is a release.
	return eff, value > 0, nil
}

func (m *Mapper) mapSlider(key string, args []osc.Argument) (Effect, bool, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return Effect{}, false, fmt.Errorf("%w: slider id %q is not numeric", ErrBadArgument, key)
	}
	if len(args) < 1 {
		return Effect{}, false, fmt.Errorf("%w: slider %d needs a value", ErrBadArgument, id)
	}
	// [0,1] float scaled to [0,127] by truncation: 0.5 -> 63.
	scaled := int32(args[0].Float64Value() * 127)
	return ControlChange(m.sliderChannel, m.toMIDI(int32(id), 127), m.toMIDI(scaled, 127)), true, nil
}

// toMIDI converts a raw value to a MIDI byte. Without clamping the value
// is converted as-is, preserving the historical pass-through behavior for
// senders that stay in range.
func (m *Mapper) toMIDI(v int32, max int32) uint8 {
	if m.clamp {
		if v < 0 {
			v = 0
		}
		if v > max {
			v = max
		}
	}
	return uint8(v)
}
