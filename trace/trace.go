// Package trace provides an optional on-disk hexdump of every received
// datagram, for debugging sloppy OSC senders without attaching a packet
// capture tool.
package trace

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	file    *os.File
	enabled bool
)

// Enable starts trace logging to the given path, truncating any previous
// log. Safe to call more than once.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	file = f
	enabled = true

	fmt.Fprintf(file, "[%s] === packet trace started ===\n", time.Now().Format("15:04:05.000"))
	return nil
}

// Disable stops trace logging and closes the file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

// Packet records one raw datagram. No-op unless Enable has been called.
func Packet(from net.Addr, data []byte) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || file == nil {
		return
	}
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(file, "[%s] %d bytes from %v\n%s", ts, len(data), from, hex.Dump(data))
	file.Sync() // flush immediately so the trace survives a crash
}
