package bridge

import (
	"log/slog"

	"github.com/michaelquigley/mixerctl"
	"github.com/michaelquigley/mixerctl/internal/loop"
)

// Registrar accepts descriptors for readiness polling
type Registrar interface {
	Add(fd int, events int16, cb loop.Callback, priv any) error
}

// RegisterPoll registers every notification descriptor of dev with reg. On
// readiness the device drains its pending notifications, running control
// callbacks synchronously. Failures degrade to no live updates and are only
// logged. It returns the number of registered descriptors.
func RegisterPoll(dev mixerctl.Device, reg Registrar, log *slog.Logger) int {
	if log == nil {
		log = slog.Default()
	}

	fds, err := dev.PollDescriptors()
	if err != nil {
		log.Warn("can't get mixer poll descriptors, external changes will not be shown", "device", dev.Name(), "error", err)
		return 0
	}
	if len(fds) == 0 {
		log.Warn("mixer has no poll descriptors, external changes will not be shown", "device", dev.Name())
		return 0
	}

	log.Debug("initializing poll", "device", dev.Name(), "fds", len(fds))

	onReady := func(fd int, revents int16, priv any) {
		d := priv.(mixerctl.Device)
		if err := d.HandleEvents(); err != nil {
			log.Warn("failed to handle mixer events", "device", d.Name(), "fd", fd, "error", err)
		}
	}

	registered := 0
	for _, pfd := range fds {
		if err := reg.Add(int(pfd.Fd), pfd.Events, onReady, dev); err != nil {
			log.Warn("failed to register poll descriptor", "fd", pfd.Fd, "error", err)
			continue
		}
		registered++
	}
	return registered
}
