// Package keystroke drives a DAW with synthesized keystrokes via macOS
// System Events, for setups where no MIDI bus is available.
package keystroke

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/marcojking/logicpro-midi-controller/bridge"
)

// DefaultApp is the application keystrokes are delivered to.
const DefaultApp = "Logic Pro"

// DefaultTimeout bounds one osascript invocation. Exceeding it fails the
// keystroke but not the bridge.
const DefaultTimeout = 2 * time.Second

// Injector sends keystrokes to a target application through osascript.
// It is not safe for concurrent use; the dispatch loop serializes Apply
// calls.
type Injector struct {
	App     string
	Timeout time.Duration

	// run is swapped out in tests.
	run func(ctx context.Context, script string) error
}

var _ bridge.Actuator = (*Injector)(nil)

// New returns an Injector targeting app (DefaultApp when empty).
func New(app string) *Injector {
	if app == "" {
		app = DefaultApp
	}
	return &Injector{
		App:     app,
		Timeout: DefaultTimeout,
		run:     runOsascript,
	}
}

// Apply implements bridge.Actuator.
func (k *Injector) Apply(e bridge.Effect) error {
	if e.Kind != bridge.EffectKeystroke {
		return fmt.Errorf("keystroke injector cannot apply %s", e)
	}
	ctx, cancel := context.WithTimeout(context.Background(), k.Timeout)
	defer cancel()
	if err := k.run(ctx, k.Script(e.Key, e.Command)); err != nil {
		return fmt.Errorf("keystroke %q: %w", e.Key, err)
	}
	return nil
}

// Script builds the AppleScript that activates the target application and
// delivers the keystroke. The space bar has no keystroke literal and goes
// out as key code 49.
func (k *Injector) Script(key string, withCommand bool) string {
	var stroke string
	switch {
	case withCommand:
		stroke = fmt.Sprintf("keystroke %q using command down", key)
	case key == "space":
		stroke = "key code 49"
	default:
		stroke = fmt.Sprintf("keystroke %q", key)
	}
	return fmt.Sprintf("tell application %q to activate\ntell application \"System Events\" to %s", k.App, stroke)
}

func runOsascript(ctx context.Context, script string) error {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("osascript timed out")
		}
		return fmt.Errorf("osascript: %w (%s)", err, out)
	}
	return nil
}
