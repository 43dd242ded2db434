package bridge

import (
	"log/slog"

	"github.com/michaelquigley/mixerctl"
	"github.com/michaelquigley/mixerctl/internal/widget"
)

// Tab indexes of App.Tabs
const (
	TabPlayback = 0
	TabCapture  = 1
)

// App owns everything the view needs: the device, both sections and the tab
// container holding their grids
type App struct {
	Device   mixerctl.Device
	Playback *Section
	Capture  *Section
	Tabs     *widget.Tabs
	// Descriptors is the number of poll descriptors registered for live updates
	Descriptors int

	log     *slog.Logger
	observe Observer
}

// Option configures an App
type Option func(*App)

// WithLogger sets the logger of the app and of every binding it installs
func WithLogger(log *slog.Logger) Option {
	return func(a *App) { a.log = log }
}

// WithObserver reports every hardware notification after widgets were refreshed
func WithObserver(observe Observer) Option {
	return func(a *App) { a.observe = observe }
}

// New builds both sections of dev and registers its notification descriptors
// with reg. A nil reg builds a static view.
func New(dev mixerctl.Device, reg Registrar, opts ...Option) *App {
	a := &App{Device: dev, log: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}

	b := NewBuilder(a.log, a.observe)
	a.Playback = b.Section(dev, mixerctl.Playback)
	a.Capture = b.Section(dev, mixerctl.Capture)

	a.Tabs = widget.NewTabs(mixerctl.Playback.String(), mixerctl.Capture.String())
	a.Tabs.Put(TabPlayback, a.Playback.Grid)
	a.Tabs.Put(TabCapture, a.Capture.Grid)

	if reg != nil {
		a.Descriptors = RegisterPoll(dev, reg, a.log)
	}

	a.log.Info("mixer view ready", "device", dev.Name(),
		"playback", a.Playback.Len(), "capture", a.Capture.Len(), "fds", a.Descriptors)
	return a
}

// Section returns the section shown in tab i
func (a *App) Section(tab int) *Section {
	if tab == TabCapture {
		return a.Capture
	}
	return a.Playback
}
