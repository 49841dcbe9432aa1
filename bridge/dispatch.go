package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marcojking/logicpro-midi-controller/osc"
	"github.com/marcojking/logicpro-midi-controller/trace"
)

// MaxPacketSize bounds a single inbound datagram. OSC control surfaces
// send tiny packets; anything larger is truncated by the read.
const MaxPacketSize = 1536

// Signal classifies the outcome of one datagram for reporting.
type Signal int

const (
	SignalActuated Signal = iota
	SignalGated           // transport release (value <= 0), no actuator call
	SignalDecodeError
	SignalRouteMiss
	SignalBadArgument
	SignalUnhandledAction
	SignalDeviceError
)

func (s Signal) String() string {
	switch s {
	case SignalActuated:
		return "actuated"
	case SignalGated:
		return "gated"
	case SignalDecodeError:
		return "decode error"
	case SignalRouteMiss:
		return "route miss"
	case SignalBadArgument:
		return "bad argument"
	case SignalUnhandledAction:
		return "unhandled action"
	case SignalDeviceError:
		return "device error"
	}
	return "unknown"
}

// Event describes one processed datagram; the monitor consumes these.
type Event struct {
	Time    time.Time
	Address string
	Signal  Signal
	Effect  Effect
	Err     error
}

// Stats counts datagram outcomes. All fields are updated atomically.
type Stats struct {
	Received    atomic.Uint64
	Actuated    atomic.Uint64
	Gated       atomic.Uint64
	DecodeErrs  atomic.Uint64
	RouteMisses atomic.Uint64
	BadArgs     atomic.Uint64
	Unhandled   atomic.Uint64
	DeviceErrs  atomic.Uint64
}

// Loop owns the receive socket and drives datagrams through
// decode -> route -> map -> actuate. Decoding, routing, and mapping are
// stateless, so each datagram is processed on its own goroutine; only the
// actuator call is serialized.
type Loop struct {
	router *Router
	mapper *Mapper
	act    Actuator
	actMu  sync.Mutex
	log    *slog.Logger
	events chan Event
	stats  Stats

	bufPool sync.Pool
}

// NewLoop builds a dispatch loop around a router, a mapper, and the single
// actuator handle, which the loop owns from here on.
func NewLoop(router *Router, mapper *Mapper, act Actuator, log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		router: router,
		mapper: mapper,
		act:    act,
		log:    log,
		events: make(chan Event, 64),
		bufPool: sync.Pool{
			New: func() any {
				b := make([]byte, MaxPacketSize)
				return &b
			},
		},
	}
}

// Events returns the monitor event stream. Events are dropped, never
// queued unboundedly, when no one is reading.
func (l *Loop) Events() <-chan Event { return l.events }

// Stats returns the loop's counters.
func (l *Loop) Stats() *Stats { return &l.stats }

// ListenAndServe binds a UDP socket on addr and serves until ctx is
// cancelled. A bind failure is returned immediately and is fatal to the
// caller; per-message errors never propagate here.
func (l *Loop) ListenAndServe(ctx context.Context, addr string) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}
	l.log.Info("listening for OSC", "addr", conn.LocalAddr().String())
	return l.Serve(ctx, conn)
}

// Serve receives datagrams from conn until ctx is cancelled. The
// connection is closed on return.
func (l *Loop) Serve(ctx context.Context, conn net.PacketConn) error {
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	defer conn.Close()

	var tempDelay time.Duration
	for {
		buf := l.bufPool.Get().(*[]byte)
		n, from, err := conn.ReadFrom(*buf)
		if err != nil {
			l.bufPool.Put(buf)
			if ctx.Err() != nil {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Temporary() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if tempDelay > time.Second {
					tempDelay = time.Second
				}
				time.Sleep(tempDelay)
				continue
			}
			return fmt.Errorf("read: %w", err)
		}
		tempDelay = 0

		pkt := make([]byte, n)
		copy(pkt, (*buf)[:n])
		l.bufPool.Put(buf)

		l.stats.Received.Add(1)
		trace.Packet(from, pkt)
		go l.process(pkt)
	}
}

// process runs one datagram to completion. Never returns an error: every
// failure mode is reported and dropped.
func (l *Loop) process(pkt []byte) {
	msg, err := osc.Decode(pkt)
	if err != nil {
		l.stats.DecodeErrs.Add(1)
		l.log.Warn("dropping malformed datagram", "err", err, "len", len(pkt))
		l.emit(Event{Time: time.Now(), Signal: SignalDecodeError, Err: err})
		return
	}

	hit, ok := l.router.Route(msg.Address)
	if !ok {
		l.stats.RouteMisses.Add(1)
		l.log.Debug("unhandled OSC address", "addr", msg.Address, "args", msg.Arguments)
		l.emit(Event{Time: time.Now(), Address: msg.Address, Signal: SignalRouteMiss})
		return
	}

	eff, fire, err := l.mapper.Map(hit, msg.Arguments)
	if err != nil {
		sig := SignalBadArgument
		if errors.Is(err, ErrUnhandledAction) {
			sig = SignalUnhandledAction
			l.stats.Unhandled.Add(1)
		} else {
			l.stats.BadArgs.Add(1)
		}
		l.log.Warn("cannot map message", "addr", msg.Address, "err", err)
		l.emit(Event{Time: time.Now(), Address: msg.Address, Signal: sig, Err: err})
		return
	}
	if !fire {
		l.stats.Gated.Add(1)
		l.log.Debug("transport release, not firing", "addr", msg.Address)
		l.emit(Event{Time: time.Now(), Address: msg.Address, Signal: SignalGated, Effect: eff})
		return
	}

	l.actMu.Lock()
	err = l.act.Apply(eff)
	l.actMu.Unlock()
	if err != nil {
		l.stats.DeviceErrs.Add(1)
		l.log.Warn("actuator failed", "addr", msg.Address, "effect", eff.String(), "err", err)
		l.emit(Event{Time: time.Now(), Address: msg.Address, Signal: SignalDeviceError, Effect: eff, Err: err})
		return
	}

	l.stats.Actuated.Add(1)
	l.log.Info("dispatched", "addr", msg.Address, "effect", eff.String())
	l.emit(Event{Time: time.Now(), Address: msg.Address, Signal: SignalActuated, Effect: eff})
}

func (l *Loop) emit(e Event) {
	select {
	case l.events <- e:
	default:
	}
}
