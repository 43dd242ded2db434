//go:build linux && cgo

package mixerctl

import (
	"fmt"
	"runtime/cgo"

	"golang.org/x/sys/unix"
)

// Mixer is an open alsa-lib mixer handle with the simple element class registered
type Mixer struct {
	device   string
	ptr      uintptr // snd_mixer_t* as uintptr
	elements []*Element
}

// Open opens the mixer for an ALSA device name (e.g. "default", "hw:0") and
// loads its simple elements
func Open(device string) (*Mixer, error) {
	ptr, err := openMixer(device)
	if err != nil {
		return nil, err
	}

	m := &Mixer{
		device: device,
		ptr:    ptr,
	}

	// wrap every element once; the wrappers live as long as the mixer
	for _, elemPtr := range listElements(ptr) {
		el := &Element{
			mixer: m,
			ptr:   elemPtr,
			name:  elementName(elemPtr),
			index: elementIndex(elemPtr),
		}
		el.handle = uintptr(cgo.NewHandle(el))
		bindElement(elemPtr, el.handle)
		m.elements = append(m.elements, el)
	}

	return m, nil
}

// Close detaches element callbacks and closes the mixer handle
func (m *Mixer) Close() error {
	if m == nil || m.ptr == 0 {
		return nil
	}
	for _, el := range m.elements {
		if !el.removed {
			unbindElement(el.ptr)
		}
		el.release()
	}
	err := closeMixer(m.ptr)
	m.ptr = 0
	m.elements = nil
	return err
}

// Name returns the ALSA device name the mixer is attached to
func (m *Mixer) Name() string {
	return m.device
}

// String returns a string representation of the mixer
func (m *Mixer) String() string {
	return fmt.Sprintf("Mixer %s: %d elements", m.device, len(m.elements))
}

// Elements returns the live simple elements in enumeration order
func (m *Mixer) Elements() []*Element {
	elements := make([]*Element, 0, len(m.elements))
	for _, el := range m.elements {
		if !el.removed {
			elements = append(elements, el)
		}
	}
	return elements
}

// Controls returns the live elements as controls
func (m *Mixer) Controls() []Control {
	elements := m.Elements()
	controls := make([]Control, len(elements))
	for i, el := range elements {
		controls[i] = el
	}
	return controls
}

// PollDescriptors returns the descriptors to poll for element notifications
func (m *Mixer) PollDescriptors() ([]unix.PollFd, error) {
	if m.ptr == 0 {
		return nil, fmt.Errorf("mixer not open")
	}
	return pollDescriptors(m.ptr)
}

// HandleEvents runs the callbacks of every element with pending notifications
func (m *Mixer) HandleEvents() error {
	if m.ptr == 0 {
		return fmt.Errorf("mixer not open")
	}
	return handleEvents(m.ptr)
}

// ListCards returns all ALSA cards visible to alsa-lib
func ListCards() ([]Card, error) {
	return listCards()
}

var (
	_ Device  = (*Mixer)(nil)
	_ Control = (*Element)(nil)
)
