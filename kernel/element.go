package kernel

import (
	"fmt"

	"github.com/michaelquigley/mixerctl"
)

// Element is a simple element assembled from up to five raw controls
type Element struct {
	mixer *Mixer
	name  string
	index int

	volume   [2]ctl
	switches [2]ctl
	enum     ctl

	private  any
	callback mixerctl.Callback
	removed  bool
}

func (e *Element) Name() string { return e.name }
func (e *Element) Index() int   { return e.index }

func (e *Element) String() string {
	return mixerctl.ControlID(e)
}

func (e *Element) HasVolume(dir mixerctl.Direction) bool { return e.volume[dir] != nil }
func (e *Element) HasSwitch(dir mixerctl.Direction) bool { return e.switches[dir] != nil }
func (e *Element) IsEnumerated() bool                    { return e.enum != nil }

func (e *Element) ctls() []ctl {
	var out []ctl
	for _, c := range []ctl{e.volume[0], e.volume[1], e.switches[0], e.switches[1], e.enum} {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (e *Element) check(c ctl) error {
	if e.removed {
		return fmt.Errorf("%s: %w", e, mixerctl.ErrRemoved)
	}
	if c == nil {
		return fmt.Errorf("%s: %w", e, mixerctl.ErrNotSupported)
	}
	return nil
}

// setAll writes value to every channel of c
func (e *Element) setAll(c ctl, value int) error {
	n := c.NumValues()
	if n == 0 {
		n = 1
	}
	for i := uint(0); i < uint(n); i++ {
		if err := c.SetValue(i, value); err != nil {
			return fmt.Errorf("%s: set channel %d: %w", e, i, err)
		}
	}
	return nil
}

func (e *Element) VolumeRange(dir mixerctl.Direction) (int64, int64, error) {
	c := e.volume[dir]
	if err := e.check(c); err != nil {
		return 0, 0, err
	}
	lo, err := c.RangeMin()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: get range: %w", e, err)
	}
	hi, err := c.RangeMax()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: get range: %w", e, err)
	}
	return int64(lo), int64(hi), nil
}

func (e *Element) Volume(dir mixerctl.Direction) (int64, error) {
	c := e.volume[dir]
	if err := e.check(c); err != nil {
		return 0, err
	}
	v, err := c.Value(0)
	if err != nil {
		return 0, fmt.Errorf("%s: get volume: %w", e, err)
	}
	return int64(v), nil
}

func (e *Element) SetVolumeAll(dir mixerctl.Direction, value int64) error {
	c := e.volume[dir]
	if err := e.check(c); err != nil {
		return err
	}
	return e.setAll(c, int(value))
}

func (e *Element) Switch(dir mixerctl.Direction) (bool, error) {
	c := e.switches[dir]
	if err := e.check(c); err != nil {
		return false, err
	}
	v, err := c.Value(0)
	if err != nil {
		return false, fmt.Errorf("%s: get switch: %w", e, err)
	}
	return v != 0, nil
}

func (e *Element) SetSwitchAll(dir mixerctl.Direction, on bool) error {
	c := e.switches[dir]
	if err := e.check(c); err != nil {
		return err
	}
	v := 0
	if on {
		v = 1
	}
	return e.setAll(c, v)
}

func (e *Element) EnumItems() (int, error) {
	if err := e.check(e.enum); err != nil {
		return 0, err
	}
	items, err := e.enum.AllEnumStrings()
	if err != nil {
		return 0, fmt.Errorf("%s: get enum items: %w", e, err)
	}
	return len(items), nil
}

func (e *Element) EnumItemName(item int) (string, error) {
	if err := e.check(e.enum); err != nil {
		return "", err
	}
	items, err := e.enum.AllEnumStrings()
	if err != nil {
		return "", fmt.Errorf("%s: get enum items: %w", e, err)
	}
	if item < 0 || item >= len(items) {
		return "", fmt.Errorf("%s: enum item %d out of range [0, %d)", e, item, len(items))
	}
	return mixerctl.TruncateItemName(items[item]), nil
}

func (e *Element) EnumItem() (int, error) {
	if err := e.check(e.enum); err != nil {
		return 0, err
	}
	v, err := e.enum.Value(0)
	if err != nil {
		return 0, fmt.Errorf("%s: get enum item: %w", e, err)
	}
	return v, nil
}

func (e *Element) SetEnumItem(item int) error {
	n, err := e.EnumItems()
	if err != nil {
		return err
	}
	if item < 0 || item >= n {
		return fmt.Errorf("%s: enum item %d out of range [0, %d)", e, item, n)
	}
	return e.setAll(e.enum, item)
}

func (e *Element) CallbackPrivate() any             { return e.private }
func (e *Element) SetCallbackPrivate(private any)   { e.private = private }
func (e *Element) SetCallback(cb mixerctl.Callback) { e.callback = cb }

func (e *Element) notify(mask mixerctl.EventMask) {
	if e.removed {
		return
	}
	if mask == mixerctl.EventMaskRemove {
		e.removed = true
	}
	if e.callback != nil {
		e.callback(e.private, mask)
	}
}

var _ mixerctl.Control = (*Element)(nil)
