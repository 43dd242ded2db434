//go:build !linux || !cgo

package mixerctl

import "golang.org/x/sys/unix"

// Mixer is a placeholder used where alsa-lib is not available
type Mixer struct{}

// Open reports that alsa-lib is unavailable in this build
func Open(device string) (*Mixer, error) {
	return nil, ErrNoCgo
}

func (m *Mixer) Close() error        { return nil }
func (m *Mixer) Name() string        { return "" }
func (m *Mixer) Controls() []Control { return nil }

func (m *Mixer) PollDescriptors() ([]unix.PollFd, error) {
	return nil, ErrNoCgo
}

func (m *Mixer) HandleEvents() error {
	return ErrNoCgo
}

// ListCards reports that alsa-lib is unavailable in this build
func ListCards() ([]Card, error) {
	return nil, ErrNoCgo
}
