//go:build linux && cgo

package mixerctl

import (
	"fmt"
	"runtime/cgo"
)

// Element is an alsa-lib simple mixer element
type Element struct {
	mixer    *Mixer
	ptr      uintptr // snd_mixer_elem_t* as uintptr
	handle   uintptr // cgo.Handle stored as the ALSA callback private
	name     string
	index    int
	private  any
	callback Callback
	removed  bool
}

func (e *Element) Name() string { return e.name }
func (e *Element) Index() int   { return e.index }

// String returns the element name with its index when non-zero
func (e *Element) String() string {
	if e.index > 0 {
		return fmt.Sprintf("%s,%d", e.name, e.index)
	}
	return e.name
}

func (e *Element) HasVolume(dir Direction) bool {
	return !e.removed && hasVolume(e.ptr, dir)
}

func (e *Element) HasSwitch(dir Direction) bool {
	return !e.removed && hasSwitch(e.ptr, dir)
}

func (e *Element) IsEnumerated() bool {
	return !e.removed && isEnumerated(e.ptr)
}

func (e *Element) VolumeRange(dir Direction) (int64, int64, error) {
	if err := e.check(e.HasVolume(dir)); err != nil {
		return 0, 0, err
	}
	return volumeRange(e.ptr, dir)
}

func (e *Element) Volume(dir Direction) (int64, error) {
	if err := e.check(e.HasVolume(dir)); err != nil {
		return 0, err
	}
	return getVolume(e.ptr, dir)
}

func (e *Element) SetVolumeAll(dir Direction, value int64) error {
	if err := e.check(e.HasVolume(dir)); err != nil {
		return err
	}
	return setVolumeAll(e.ptr, dir, value)
}

func (e *Element) Switch(dir Direction) (bool, error) {
	if err := e.check(e.HasSwitch(dir)); err != nil {
		return false, err
	}
	return getSwitch(e.ptr, dir)
}

func (e *Element) SetSwitchAll(dir Direction, on bool) error {
	if err := e.check(e.HasSwitch(dir)); err != nil {
		return err
	}
	return setSwitchAll(e.ptr, dir, on)
}

func (e *Element) EnumItems() (int, error) {
	if err := e.check(e.IsEnumerated()); err != nil {
		return 0, err
	}
	return enumItems(e.ptr)
}

func (e *Element) EnumItemName(item int) (string, error) {
	n, err := e.EnumItems()
	if err != nil {
		return "", err
	}
	if item < 0 || item >= n {
		return "", fmt.Errorf("enum item %d out of range [0, %d]", item, n-1)
	}
	return enumItemName(e.ptr, item)
}

func (e *Element) EnumItem() (int, error) {
	if err := e.check(e.IsEnumerated()); err != nil {
		return 0, err
	}
	return getEnumItem(e.ptr)
}

func (e *Element) SetEnumItem(item int) error {
	n, err := e.EnumItems()
	if err != nil {
		return err
	}
	if item < 0 || item >= n {
		return fmt.Errorf("enum item %d out of range [0, %d]", item, n-1)
	}
	return setEnumItem(e.ptr, item)
}

func (e *Element) CallbackPrivate() any     { return e.private }
func (e *Element) SetCallbackPrivate(p any) { e.private = p }
func (e *Element) SetCallback(cb Callback)  { e.callback = cb }

// check reports ErrRemoved or ErrNotSupported ahead of a query
func (e *Element) check(capable bool) error {
	if e.removed {
		return fmt.Errorf("%s: %w", e, ErrRemoved)
	}
	if !capable {
		return fmt.Errorf("%s: %w", e, ErrNotSupported)
	}
	return nil
}

func (e *Element) notify(mask EventMask) {
	if mask == EventMaskRemove {
		e.removed = true
	}
	if e.callback != nil {
		e.callback(e.private, mask)
	}
}

// release frees the cgo handle; the element must not be reached from C afterwards
func (e *Element) release() {
	e.removed = true
	if e.handle != 0 {
		cgo.Handle(e.handle).Delete()
		e.handle = 0
	}
}
