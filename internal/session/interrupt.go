package session

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// Interrupter turns the first SIGINT/SIGTERM into a session-context
// cancellation and swallows every later signal while cleanup runs. Signals
// only cancel; the rollback pass itself always executes on the session flow,
// so no lock is ever held across I/O here.
type Interrupter struct {
	signals chan os.Signal
	notify  func(c chan<- os.Signal, sig ...os.Signal)

	once  sync.Once
	fired atomic.Bool
	armed context.Context
}

func NewInterrupter() *Interrupter {
	return newInterrupter(signal.Notify)
}

// newInterrupter is the seam for tests, which feed signals through the
// channel directly instead of registering a process-wide handler.
func newInterrupter(notify func(c chan<- os.Signal, sig ...os.Signal)) *Interrupter {
	return &Interrupter{
		signals: make(chan os.Signal, 1),
		notify:  notify,
	}
}

// Arm registers the signal handler once per process lifetime and returns a
// context cancelled by the first interrupt. Repeated calls return the same
// context.
func (i *Interrupter) Arm(ctx context.Context) context.Context {
	i.once.Do(func() {
		armed, cancel := context.WithCancel(ctx)
		i.armed = armed
		i.notify(i.signals, os.Interrupt, syscall.SIGTERM)
		go i.watch(cancel)
	})
	return i.armed
}

// Fired reports whether an interrupt has been received.
func (i *Interrupter) Fired() bool {
	return i.fired.Load()
}

func (i *Interrupter) watch(cancel context.CancelFunc) {
	for sig := range i.signals {
		if i.fired.CompareAndSwap(false, true) {
			slog.Info("Interrupt received, shutting session down", "signal", sig.String())
			cancel()
			continue
		}
		slog.Debug("Ignoring interrupt, shutdown already running", "signal", sig.String())
	}
}
