package mock

import (
	"errors"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/michaelquigley/mixerctl"
)

type pending struct {
	control *Control
	mask    mixerctl.EventMask
}

// Device is an in-memory mixer. Notifications are queued by the External*
// helpers and delivered by HandleEvents. With a pipe opened, every queued
// notification also makes the poll descriptor readable.
type Device struct {
	name     string
	controls []*Control

	mu      sync.Mutex
	queue   []pending
	readFd  int
	writeFd int
	closed  bool

	// PollErr fails PollDescriptors
	PollErr error
	// HandleErr is returned by HandleEvents after delivering the queue
	HandleErr error
	// HandleCalls counts HandleEvents invocations
	HandleCalls int
}

func NewDevice(name string, controls ...*Control) *Device {
	d := &Device{name: name, readFd: -1, writeFd: -1}
	for _, c := range controls {
		d.Add(c)
	}
	return d
}

// Add appends a control in enumeration order
func (d *Device) Add(c *Control) {
	c.device = d
	d.controls = append(d.controls, c)
}

// OpenPipe backs the poll descriptor with a non-blocking pipe
func (d *Device) OpenPipe() error {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return err
	}
	d.readFd, d.writeFd = fds[0], fds[1]
	return nil
}

func (d *Device) Name() string { return d.name }

func (d *Device) Controls() []mixerctl.Control {
	out := make([]mixerctl.Control, 0, len(d.controls))
	for _, c := range d.controls {
		out = append(out, c)
	}
	return out
}

// PollDescriptors returns the pipe's read end, or nothing without a pipe
func (d *Device) PollDescriptors() ([]unix.PollFd, error) {
	if d.PollErr != nil {
		return nil, d.PollErr
	}
	if d.readFd < 0 {
		return nil, nil
	}
	return []unix.PollFd{{Fd: int32(d.readFd), Events: unix.POLLIN}}, nil
}

// Notify queues a notification for c
func (d *Device) Notify(c *Control, mask mixerctl.EventMask) {
	d.mu.Lock()
	d.queue = append(d.queue, pending{control: c, mask: mask})
	fd := d.writeFd
	d.mu.Unlock()

	if fd >= 0 {
		_, _ = unix.Write(fd, []byte{1})
	}
}

// Pending returns the number of undelivered notifications
func (d *Device) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// HandleEvents delivers every queued notification in order
func (d *Device) HandleEvents() error {
	d.mu.Lock()
	d.HandleCalls++
	queue := d.queue
	d.queue = nil
	fd := d.readFd
	d.mu.Unlock()

	if fd >= 0 {
		buf := make([]byte, 64)
		for {
			n, err := unix.Read(fd, buf)
			if n <= 0 || err != nil {
				break
			}
		}
	}

	for _, p := range queue {
		p.control.notify(p.mask)
	}
	return d.HandleErr
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	if d.readFd >= 0 {
		errs = append(errs, unix.Close(d.readFd))
	}
	if d.writeFd >= 0 {
		errs = append(errs, unix.Close(d.writeFd))
	}
	d.readFd, d.writeFd = -1, -1
	return errors.Join(errs...)
}

var (
	_ mixerctl.Device  = (*Device)(nil)
	_ mixerctl.Control = (*Control)(nil)
)
