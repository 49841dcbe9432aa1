package midiout

import (
	"context"
	"time"
)

// Watch polls the output ports and handles hot-unplug of the selected
// device: when the port disappears sends start failing with a device
// error, and when it comes back the port is reopened transparently.
// Blocking; run in a goroutine.
func (o *Output) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.rescan()
		}
	}
}

func (o *Output) rescan() {
	outs, err := scanOuts(o.drv)
	if err != nil {
		o.log.Debug("port rescan failed", "err", err)
		return
	}

	o.mu.Lock()
	name := o.name
	connected := o.send != nil
	o.mu.Unlock()

	present := false
	for _, p := range outs {
		if p.String() == name {
			present = true
			break
		}
	}

	switch {
	case connected && !present:
		o.log.Warn("MIDI output disappeared", "device", name)
		o.mu.Lock()
		o.closePort()
		o.name = name // remember it so we can reconnect
		o.mu.Unlock()

	case !connected && present:
		o.log.Info("MIDI output reappeared, reconnecting", "device", name)
		if err := o.connect(name); err != nil {
			o.log.Error("reconnect failed", "device", name, "err", err)
		}
	}
}
