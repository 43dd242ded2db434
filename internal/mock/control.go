// Package mock provides an in-memory mixerctl.Device for tests.
package mock

import (
	"fmt"

	"github.com/michaelquigley/mixerctl"
)

// Op names a kind of hardware write
type Op string

const (
	OpVolume Op = "volume"
	OpSwitch Op = "switch"
	OpEnum   Op = "enum"
)

// Write records one hardware write issued through the Control interface
type Write struct {
	Op    Op
	Dir   mixerctl.Direction
	Value int64
}

type volume struct {
	min, max, value int64
}

// Control is an in-memory simple mixer element
type Control struct {
	name  string
	index int

	volumes  [2]*volume
	switches [2]*bool
	items    []string
	item     int
	enum     bool

	private  any
	callback mixerctl.Callback
	removed  bool
	device   *Device

	writes []Write

	// RangeErr fails VolumeRange
	RangeErr error
	// ReadErr fails every value read
	ReadErr error
	// WriteErr fails every value write; failed writes are still recorded
	WriteErr error
}

// Option configures a Control
type Option func(*Control)

func WithIndex(index int) Option {
	return func(c *Control) { c.index = index }
}

func WithVolume(dir mixerctl.Direction, min, max, value int64) Option {
	return func(c *Control) { c.volumes[dir] = &volume{min: min, max: max, value: value} }
}

func WithSwitch(dir mixerctl.Direction, on bool) Option {
	return func(c *Control) {
		v := on
		c.switches[dir] = &v
	}
}

func WithEnum(items []string, selected int) Option {
	return func(c *Control) {
		c.enum = true
		c.items = items
		c.item = selected
	}
}

func NewControl(name string, opts ...Option) *Control {
	c := &Control{name: name}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Control) Name() string { return c.name }
func (c *Control) Index() int   { return c.index }

func (c *Control) HasVolume(dir mixerctl.Direction) bool { return c.volumes[dir] != nil }
func (c *Control) HasSwitch(dir mixerctl.Direction) bool { return c.switches[dir] != nil }
func (c *Control) IsEnumerated() bool                    { return c.enum }

func (c *Control) check(capable bool) error {
	if c.removed {
		return fmt.Errorf("%s: %w", c.name, mixerctl.ErrRemoved)
	}
	if !capable {
		return fmt.Errorf("%s: %w", c.name, mixerctl.ErrNotSupported)
	}
	return nil
}

func (c *Control) VolumeRange(dir mixerctl.Direction) (int64, int64, error) {
	if err := c.check(c.HasVolume(dir)); err != nil {
		return 0, 0, err
	}
	if c.RangeErr != nil {
		return 0, 0, c.RangeErr
	}
	return c.volumes[dir].min, c.volumes[dir].max, nil
}

func (c *Control) Volume(dir mixerctl.Direction) (int64, error) {
	if err := c.check(c.HasVolume(dir)); err != nil {
		return 0, err
	}
	if c.ReadErr != nil {
		return 0, c.ReadErr
	}
	return c.volumes[dir].value, nil
}

func (c *Control) SetVolumeAll(dir mixerctl.Direction, value int64) error {
	if err := c.check(c.HasVolume(dir)); err != nil {
		return err
	}
	c.writes = append(c.writes, Write{Op: OpVolume, Dir: dir, Value: value})
	if c.WriteErr != nil {
		return c.WriteErr
	}
	c.volumes[dir].value = value
	return nil
}

func (c *Control) Switch(dir mixerctl.Direction) (bool, error) {
	if err := c.check(c.HasSwitch(dir)); err != nil {
		return false, err
	}
	if c.ReadErr != nil {
		return false, c.ReadErr
	}
	return *c.switches[dir], nil
}

func (c *Control) SetSwitchAll(dir mixerctl.Direction, on bool) error {
	if err := c.check(c.HasSwitch(dir)); err != nil {
		return err
	}
	var v int64
	if on {
		v = 1
	}
	c.writes = append(c.writes, Write{Op: OpSwitch, Dir: dir, Value: v})
	if c.WriteErr != nil {
		return c.WriteErr
	}
	*c.switches[dir] = on
	return nil
}

func (c *Control) EnumItems() (int, error) {
	if err := c.check(c.enum); err != nil {
		return 0, err
	}
	if c.ReadErr != nil {
		return 0, c.ReadErr
	}
	return len(c.items), nil
}

func (c *Control) EnumItemName(item int) (string, error) {
	if err := c.check(c.enum); err != nil {
		return "", err
	}
	if item < 0 || item >= len(c.items) {
		return "", fmt.Errorf("%s: item %d out of range", c.name, item)
	}
	return c.items[item], nil
}

func (c *Control) EnumItem() (int, error) {
	if err := c.check(c.enum); err != nil {
		return 0, err
	}
	if c.ReadErr != nil {
		return 0, c.ReadErr
	}
	return c.item, nil
}

func (c *Control) SetEnumItem(item int) error {
	if err := c.check(c.enum); err != nil {
		return err
	}
	c.writes = append(c.writes, Write{Op: OpEnum, Value: int64(item)})
	if c.WriteErr != nil {
		return c.WriteErr
	}
	if item < 0 || item >= len(c.items) {
		return fmt.Errorf("%s: item %d out of range", c.name, item)
	}
	c.item = item
	return nil
}

func (c *Control) CallbackPrivate() any             { return c.private }
func (c *Control) SetCallbackPrivate(private any)   { c.private = private }
func (c *Control) SetCallback(cb mixerctl.Callback) { c.callback = cb }

// Callback returns the registered notification callback
func (c *Control) Callback() mixerctl.Callback { return c.callback }

// Writes returns every write issued so far
func (c *Control) Writes() []Write {
	out := make([]Write, len(c.writes))
	copy(out, c.writes)
	return out
}

// ResetWrites forgets recorded writes
func (c *Control) ResetWrites() { c.writes = nil }

// Removed reports whether Remove was delivered
func (c *Control) Removed() bool { return c.removed }

// ExternalVolume changes the volume as another process would and queues a
// value notification
func (c *Control) ExternalVolume(dir mixerctl.Direction, value int64) {
	c.volumes[dir].value = value
	c.queue(mixerctl.EventMaskValue)
}

// ExternalSwitch changes the switch as another process would
func (c *Control) ExternalSwitch(dir mixerctl.Direction, on bool) {
	*c.switches[dir] = on
	c.queue(mixerctl.EventMaskValue)
}

// ExternalEnum changes the enumerated item as another process would
func (c *Control) ExternalEnum(item int) {
	c.item = item
	c.queue(mixerctl.EventMaskValue)
}

// Remove queues a remove notification
func (c *Control) Remove() {
	c.queue(mixerctl.EventMaskRemove)
}

func (c *Control) queue(mask mixerctl.EventMask) {
	if c.device != nil {
		c.device.Notify(c, mask)
	}
}

func (c *Control) notify(mask mixerctl.EventMask) {
	if c.removed {
		return
	}
	if mask == mixerctl.EventMaskRemove {
		c.removed = true
	}
	if c.callback != nil {
		c.callback(c.private, mask)
	}
}
