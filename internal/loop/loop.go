// Package loop is a readiness polling loop over file descriptors. The poll
// itself runs on the caller's goroutine; callbacks are handed to a Dispatcher
// so they can run wherever the rest of the program's state lives.
package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Callback runs when fd reports readiness
type Callback func(fd int, revents int16, priv any)

// Dispatcher runs fn and returns once fn has finished
type Dispatcher interface {
	Dispatch(ctx context.Context, fn func()) error
}

// DispatchFunc adapts a function to Dispatcher
type DispatchFunc func(ctx context.Context, fn func()) error

func (f DispatchFunc) Dispatch(ctx context.Context, fn func()) error { return f(ctx, fn) }

// Inline runs callbacks on the polling goroutine
var Inline Dispatcher = DispatchFunc(func(_ context.Context, fn func()) error {
	fn()
	return nil
})

// DefaultTimeout bounds each poll so cancellation is noticed
const DefaultTimeout = time.Second

type entry struct {
	fd     int
	events int16
	cb     Callback
	priv   any
}

// Loop polls registered descriptors until its context is cancelled
type Loop struct {
	mu      sync.Mutex
	entries []*entry
	timeout time.Duration
	log     *slog.Logger
}

type Option func(*Loop)

func WithTimeout(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.timeout = d
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Loop) { l.log = log }
}

func New(opts ...Option) *Loop {
	l := &Loop{timeout: DefaultTimeout, log: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add registers fd for the poll events in events. A descriptor can only be
// registered once.
func (l *Loop) Add(fd int, events int16, cb Callback, priv any) error {
	if fd < 0 {
		return fmt.Errorf("invalid descriptor %d", fd)
	}
	if cb == nil {
		return fmt.Errorf("descriptor %d: nil callback", fd)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		if e.fd == fd {
			return fmt.Errorf("descriptor %d already registered", fd)
		}
	}
	l.entries = append(l.entries, &entry{fd: fd, events: events, cb: cb, priv: priv})
	l.log.Debug("descriptor added", "fd", fd, "events", events)
	return nil
}

// Remove unregisters fd; unknown descriptors are ignored
func (l *Loop) Remove(fd int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, e := range l.entries {
		if e.fd == fd {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			l.log.Debug("descriptor removed", "fd", fd)
			return
		}
	}
}

// Len returns the number of registered descriptors
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Loop) snapshot() ([]unix.PollFd, []*entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]*entry, len(l.entries))
	copy(entries, l.entries)

	fds := make([]unix.PollFd, len(entries))
	for i, e := range entries {
		fds[i] = unix.PollFd{Fd: int32(e.fd), Events: e.events}
	}
	return fds, entries
}

// Run polls until ctx is cancelled. Every ready descriptor's callback is
// dispatched through d, one at a time, and polling resumes only after it
// returned, so a level-triggered descriptor is drained before it is polled
// again. Run returns nil on cancellation.
func (l *Loop) Run(ctx context.Context, d Dispatcher) error {
	if d == nil {
		d = Inline
	}
	timeoutMs := int(l.timeout.Milliseconds())

	for {
		if ctx.Err() != nil {
			return nil
		}

		fds, entries := l.snapshot()
		if len(fds) == 0 {
			// nothing to wait on but the clock
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(l.timeout):
			}
			continue
		}

		n, err := unix.Poll(fds, timeoutMs)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("poll failed: %w", err)
		}
		if n == 0 {
			continue
		}

		for i, pfd := range fds {
			revents := pfd.Revents
			if revents == 0 {
				continue
			}
			e := entries[i]

			if revents&unix.POLLNVAL != 0 {
				l.log.Warn("descriptor no longer valid, removing", "fd", e.fd)
				l.Remove(e.fd)
				continue
			}

			if err := d.Dispatch(ctx, func() { e.cb(e.fd, revents, e.priv) }); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("dispatch fd %d: %w", e.fd, err)
			}

			// a hung up descriptor without pending data would be reported forever
			if revents&(unix.POLLHUP|unix.POLLERR) != 0 && revents&unix.POLLIN == 0 {
				l.log.Warn("descriptor hung up, removing", "fd", e.fd, "revents", revents)
				l.Remove(e.fd)
			}
		}
	}
}
