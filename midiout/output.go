// Package midiout drives the MIDI output device that receives the
// bridge's control-change events, typically the IAC Driver bus that Logic
// Pro listens on.
package midiout

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/marcojking/logicpro-midi-controller/bridge"
)

// ErrNoOutputs is returned when no MIDI output ports exist at all.
var ErrNoOutputs = errors.New("no MIDI outputs available")

// portScanTimeout guards against a hung MIDI service; enumeration that
// takes longer than this is treated as returning nothing.
const portScanTimeout = 3 * time.Second

// Output is the MIDI actuator: a single opened output port. It is not
// safe for concurrent use; the dispatch loop serializes Apply calls.
type Output struct {
	mu   sync.Mutex
	drv  *rtmididrv.Driver
	port drivers.Out
	send func(gomidi.Message) error
	name string
	log  *slog.Logger
}

var _ bridge.Actuator = (*Output)(nil)

// Open initialises the rtmidi driver, selects an output port and opens
// it. With an empty override the port whose name contains "IAC" is
// preferred, else the first available port is used. Call Close when done.
func Open(override string, log *slog.Logger) (*Output, error) {
	if log == nil {
		log = slog.Default()
	}
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}

	o := &Output{drv: drv, log: log}
	if err := o.connect(override); err != nil {
		drv.Close()
		return nil, err
	}
	return o, nil
}

// Name returns the selected port's name.
func (o *Output) Name() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.name
}

// Apply implements bridge.Actuator.
func (o *Output) Apply(e bridge.Effect) error {
	if e.Kind != bridge.EffectControlChange {
		return fmt.Errorf("midi output cannot apply %s", e)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.send == nil {
		return fmt.Errorf("output %q is disconnected", o.name)
	}
	if err := o.send(gomidi.ControlChange(e.Channel, e.Controller, e.Value)); err != nil {
		return fmt.Errorf("send cc: %w", err)
	}
	return nil
}

// Close shuts down the port and the rtmidi driver.
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closePort()
	o.drv.Close()
}

func (o *Output) connect(override string) error {
	outs, err := scanOuts(o.drv)
	if err != nil {
		return err
	}
	names := make([]string, len(outs))
	for i, p := range outs {
		names[i] = p.String()
	}

	name, err := PickOutput(names, override)
	if err != nil {
		return err
	}
	if override == "" && !strings.Contains(strings.ToUpper(name), "IAC") {
		o.log.Warn("IAC Driver not found, using first output", "device", name)
	}

	for _, p := range outs {
		if p.String() != name {
			continue
		}
		send, err := gomidi.SendTo(p)
		if err != nil {
			return fmt.Errorf("open %q: %w", name, err)
		}
		o.mu.Lock()
		o.port = p
		o.send = send
		o.name = name
		o.mu.Unlock()
		o.log.Info("MIDI output connected", "device", name)
		return nil
	}
	return fmt.Errorf("MIDI output %q not found", name)
}

func (o *Output) closePort() {
	if o.port != nil {
		_ = o.port.Close()
	}
	o.port = nil
	o.send = nil
}

// PickOutput selects an output port name. An override must match a port
// name exactly or as a case-insensitive substring; otherwise a port whose
// name contains "IAC" wins, then the first port.
func PickOutput(names []string, override string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoOutputs
	}
	if override != "" {
		for _, n := range names {
			if n == override {
				return n, nil
			}
		}
		for _, n := range names {
			if containsCI(n, override) {
				return n, nil
			}
		}
		return "", fmt.Errorf("MIDI output %q not found (available: %s)", override, strings.Join(names, ", "))
	}
	for _, n := range names {
		if containsCI(n, "IAC") {
			return n, nil
		}
	}
	return names[0], nil
}

// ListOutputs enumerates the available output port names.
func ListOutputs() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	defer drv.Close()

	outs, err := scanOuts(drv)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, p := range outs {
		names[i] = p.String()
	}
	return names, nil
}

// scanOuts enumerates output ports with a timeout; CoreMIDI can hang when
// the MIDI server is wedged.
func scanOuts(drv *rtmididrv.Driver) ([]drivers.Out, error) {
	type result struct {
		outs []drivers.Out
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		outs, err := drv.Outs()
		ch <- result{outs: outs, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("list outputs: %w", r.err)
		}
		return r.outs, nil
	case <-time.After(portScanTimeout):
		return nil, errors.New("MIDI port scan timed out (try restarting the MIDI server)")
	}
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
