// Package kernel is a mixer backend that talks to the kernel control device
// directly through github.com/gen2brain/alsa, without alsa-lib or cgo. Raw
// control elements are grouped into simple elements by name the way alsa-lib
// does for the common cases: "Master Playback Volume" and "Master Playback
// Switch" become one "Master" element with playback volume and switch.
package kernel

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gen2brain/alsa"
	"golang.org/x/sys/unix"

	"github.com/michaelquigley/mixerctl"
)

// maxEventsPerDrain bounds one HandleEvents call so a chatty card cannot
// starve the caller
const maxEventsPerDrain = 256

// ctl is the part of *alsa.MixerCtl the backend uses
type ctl interface {
	Name() string
	ID() uint32
	Type() alsa.MixerCtlType
	NumValues() uint32
	RangeMin() (int, error)
	RangeMax() (int, error)
	Value(index uint) (int, error)
	SetValue(index uint, value int) error
	AllEnumStrings() ([]string, error)
}

// eventSource is the part of *alsa.Mixer that delivers notifications
type eventSource interface {
	WaitEvent(timeoutMs int) (bool, error)
	ReadEvent() (*alsa.MixerEvent, error)
	Fd() uintptr
	Close() error
}

// Mixer is an open control device with its grouped elements
type Mixer struct {
	card     uint
	name     string
	source   eventSource
	elements []*Element
	byID     map[uint32]*Element
	log      *slog.Logger
}

// Open opens the control device of card and subscribes to its events
func Open(card uint, log *slog.Logger) (*Mixer, error) {
	hw, err := alsa.MixerOpen(card)
	if err != nil {
		return nil, fmt.Errorf("open card %d: %w", card, err)
	}

	if err := hw.SubscribeEvents(true); err != nil {
		_ = hw.Close()
		return nil, fmt.Errorf("subscribe to card %d events: %w", card, err)
	}

	ctls := make([]ctl, 0, len(hw.Ctls))
	for _, c := range hw.Ctls {
		ctls = append(ctls, c)
	}

	m := newMixer(card, hw.Name(), ctls, hw, log)
	m.log.Debug("kernel mixer opened", "card", card, "raw", len(ctls), "elements", len(m.elements))
	return m, nil
}

func newMixer(card uint, name string, ctls []ctl, source eventSource, log *slog.Logger) *Mixer {
	if log == nil {
		log = slog.Default()
	}
	m := &Mixer{
		card:   card,
		name:   name,
		source: source,
		byID:   make(map[uint32]*Element),
		log:    log,
	}
	for _, el := range group(ctls) {
		el.mixer = m
		m.elements = append(m.elements, el)
		for _, c := range el.ctls() {
			m.byID[c.ID()] = el
		}
	}
	return m
}

func (m *Mixer) Name() string {
	if m.name == "" {
		return fmt.Sprintf("card %d", m.card)
	}
	return m.name
}

func (m *Mixer) String() string {
	return fmt.Sprintf("Card %d: %s (%d elements)", m.card, m.Name(), len(m.elements))
}

// Elements returns the elements that were not removed, in enumeration order
func (m *Mixer) Elements() []*Element {
	out := make([]*Element, 0, len(m.elements))
	for _, el := range m.elements {
		if !el.removed {
			out = append(out, el)
		}
	}
	return out
}

func (m *Mixer) Controls() []mixerctl.Control {
	els := m.Elements()
	out := make([]mixerctl.Control, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out
}

// PollDescriptors returns the control device descriptor
func (m *Mixer) PollDescriptors() ([]unix.PollFd, error) {
	if m.source == nil {
		return nil, errors.New("mixer is closed")
	}
	return []unix.PollFd{{Fd: int32(m.source.Fd()), Events: unix.POLLIN}}, nil
}

// HandleEvents reads every pending event and notifies the affected elements.
// Events for controls the mixer does not know, such as newly added ones, are
// skipped.
func (m *Mixer) HandleEvents() error {
	if m.source == nil {
		return errors.New("mixer is closed")
	}

	for i := 0; i < maxEventsPerDrain; i++ {
		pending, err := m.source.WaitEvent(0)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("wait for mixer event: %w", err)
		}
		if !pending {
			return nil
		}

		ev, err := m.source.ReadEvent()
		if err != nil {
			return fmt.Errorf("read mixer event: %w", err)
		}

		el, ok := m.byID[ev.ControlID]
		if !ok {
			m.log.Debug("event for unknown control", "numid", ev.ControlID, "mask", mixerctl.EventMask(ev.Type))
			continue
		}
		el.notify(mixerctl.EventMask(ev.Type))
	}

	m.log.Debug("event drain limit reached", "limit", maxEventsPerDrain)
	return nil
}

func (m *Mixer) Close() error {
	if m.source == nil {
		return nil
	}
	err := m.source.Close()
	m.source = nil
	return err
}

// ListCards returns the sound cards listed in /proc/asound
func ListCards() ([]mixerctl.Card, error) {
	cards, err := alsa.EnumerateCards()
	if err != nil {
		return nil, fmt.Errorf("enumerate cards: %w", err)
	}

	return toCards(cards), nil
}

// toCards maps /proc/asound entries: the card number, the short id in
// brackets and the long description
func toCards(cards []alsa.SoundCard) []mixerctl.Card {
	out := make([]mixerctl.Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, mixerctl.Card{Number: c.ID, ID: c.Name, Name: c.Description})
	}
	return out
}

var _ mixerctl.Device = (*Mixer)(nil)
