package mixerctl

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Direction selects the playback or capture half of a simple mixer element
type Direction int

const (
	Playback Direction = iota
	Capture
)

func (d Direction) String() string {
	switch d {
	case Playback:
		return "Playback"
	case Capture:
		return "Capture"
	default:
		return "Unknown"
	}
}

// EventMask reports what changed on an element; values match SND_CTL_EVENT_MASK_*
type EventMask uint32

const (
	EventMaskValue EventMask = 1 << 0
	EventMaskInfo  EventMask = 1 << 1
	EventMaskAdd   EventMask = 1 << 2
	EventMaskTLV   EventMask = 1 << 3
	// EventMaskRemove is delivered alone, as all bits set, right before an element goes away
	EventMaskRemove EventMask = ^EventMask(0)
)

func (m EventMask) String() string {
	if m == EventMaskRemove {
		return "remove"
	}
	var s string
	add := func(bit EventMask, name string) {
		if m&bit != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	add(EventMaskValue, "value")
	add(EventMaskInfo, "info")
	add(EventMaskAdd, "add")
	add(EventMaskTLV, "tlv")
	if s == "" {
		return "none"
	}
	return s
}

// Callback is invoked for every notification on an element, with the private
// context set through SetCallbackPrivate
type Callback func(private any, mask EventMask)

// MaxEnumNameLen bounds the length of an enumerated item name
const MaxEnumNameLen = 63

var (
	// ErrRemoved is returned by every element query after the element was removed
	ErrRemoved = errors.New("element removed")
	// ErrNotSupported is returned when an element lacks the requested capability
	ErrNotSupported = errors.New("capability not supported by element")
	// ErrNoCgo is returned by the alsa-lib backend in builds without cgo
	ErrNoCgo = errors.New("alsa-lib backend requires linux and cgo")
)

// Control is one simple mixer element: a named hardware parameter with zero or
// more capabilities. Reads use the front-left (mono) channel; writes go to all
// channels.
type Control interface {
	Name() string
	Index() int

	HasVolume(dir Direction) bool
	HasSwitch(dir Direction) bool
	IsEnumerated() bool

	VolumeRange(dir Direction) (min, max int64, err error)
	Volume(dir Direction) (int64, error)
	SetVolumeAll(dir Direction, value int64) error
	Switch(dir Direction) (bool, error)
	SetSwitchAll(dir Direction, on bool) error

	EnumItems() (int, error)
	EnumItemName(item int) (string, error)
	EnumItem() (int, error)
	SetEnumItem(item int) error

	CallbackPrivate() any
	SetCallbackPrivate(private any)
	SetCallback(cb Callback)
}

// Device is an open mixer handle with its loaded controls
type Device interface {
	Name() string
	// Controls returns the loaded controls in stable enumeration order
	Controls() []Control
	// PollDescriptors returns the descriptors that become readable when
	// notifications are pending; the slice may be empty
	PollDescriptors() ([]unix.PollFd, error)
	// HandleEvents drains pending notifications, synchronously invoking every
	// affected control's callback before returning
	HandleEvents() error
	Close() error
}

// Card describes an ALSA sound card
type Card struct {
	Number int
	ID     string
	Name   string
}

// TruncateItemName bounds an enumerated item name to MaxEnumNameLen bytes
func TruncateItemName(name string) string {
	if len(name) > MaxEnumNameLen {
		return name[:MaxEnumNameLen]
	}
	return name
}
