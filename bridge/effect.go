package bridge

import "fmt"

// EffectKind selects which actuator operation an Effect describes.
type EffectKind int

const (
	EffectControlChange EffectKind = iota
	EffectKeystroke
)

// Effect is a device-level effect descriptor produced by the mapper and
// consumed by an actuator. For EffectControlChange the Channel, Controller
// and Value fields are set; for EffectKeystroke the Key and Command
// fields are.
type Effect struct {
	Kind       EffectKind
	Channel    uint8
	Controller uint8
	Value      uint8
	Key        string
	Command    bool
}

// ControlChange builds a control-change effect.
func ControlChange(channel, controller, value uint8) Effect {
	return Effect{Kind: EffectControlChange, Channel: channel, Controller: controller, Value: value}
}

// Keystroke builds a keystroke effect.
func Keystroke(key string, command bool) Effect {
	return Effect{Kind: EffectKeystroke, Key: key, Command: command}
}

// String implements fmt.Stringer.
func (e Effect) String() string {
	switch e.Kind {
	case EffectControlChange:
		return fmt.Sprintf("cc ch=%d cc=%d val=%d", e.Channel, e.Controller, e.Value)
	case EffectKeystroke:
		if e.Command {
			return fmt.Sprintf("key cmd+%s", e.Key)
		}
		return fmt.Sprintf("key %s", e.Key)
	}
	return "effect?"
}

// Actuator performs the final physical effect. Implementations are not
// safe for concurrent use; the dispatch loop serializes access.
type Actuator interface {
	Apply(Effect) error
}
