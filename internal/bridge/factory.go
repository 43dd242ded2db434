package bridge

import (
	"log/slog"

	"github.com/michaelquigley/mixerctl"
	"github.com/michaelquigley/mixerctl/internal/widget"
)

// NewVolumeSlider builds a vertical slider seeded with the control's range and
// current volume for dir. It returns nil when the control has no such volume or
// the state cannot be read.
func NewVolumeSlider(c mixerctl.Control, dir mixerctl.Direction, log *slog.Logger) *widget.Slider {
	if !c.HasVolume(dir) {
		return nil
	}

	lo, hi, err := c.VolumeRange(dir)
	if err != nil {
		log.Debug("volume range unavailable", "control", mixerctl.ControlID(c), "dir", dir, "error", err)
		return nil
	}
	value, err := c.Volume(dir)
	if err != nil {
		log.Debug("volume unavailable", "control", mixerctl.ControlID(c), "dir", dir, "error", err)
		return nil
	}

	return widget.NewSlider(lo, hi, value, widget.Vertical, func(ev *widget.Event) {
		if ev.Type != widget.EventWidget {
			return
		}
		s := ev.Self.(*widget.Slider)
		ctl := s.Priv().(mixerctl.Control)
		if err := ctl.SetVolumeAll(dir, s.Value()); err != nil {
			log.Warn("failed to set volume", "control", mixerctl.ControlID(ctl), "dir", dir, "value", s.Value(), "error", err)
		}
	}, c)
}

// NewMuteToggle builds a toggle seeded with the control's switch for dir
func NewMuteToggle(c mixerctl.Control, dir mixerctl.Direction, log *slog.Logger) *widget.Toggle {
	if !c.HasSwitch(dir) {
		return nil
	}

	on, err := c.Switch(dir)
	if err != nil {
		log.Debug("switch unavailable", "control", mixerctl.ControlID(c), "dir", dir, "error", err)
		return nil
	}

	return widget.NewToggle(on, func(ev *widget.Event) {
		if ev.Type != widget.EventWidget {
			return
		}
		t := ev.Self.(*widget.Toggle)
		ctl := t.Priv().(mixerctl.Control)
		if err := ctl.SetSwitchAll(dir, t.Checked()); err != nil {
			log.Warn("failed to set switch", "control", mixerctl.ControlID(ctl), "dir", dir, "on", t.Checked(), "error", err)
		}
	}, c)
}

// NewEnumChoice builds a choice over the control's item names seeded with the
// current item
func NewEnumChoice(c mixerctl.Control, log *slog.Logger) *widget.Choice {
	if !c.IsEnumerated() {
		return nil
	}

	n, err := c.EnumItems()
	if err != nil {
		log.Debug("enum items unavailable", "control", mixerctl.ControlID(c), "error", err)
		return nil
	}

	items := make([]string, n)
	for i := range items {
		name, err := c.EnumItemName(i)
		if err != nil {
			log.Debug("enum item name unavailable", "control", mixerctl.ControlID(c), "item", i, "error", err)
			continue
		}
		items[i] = mixerctl.TruncateItemName(name)
	}

	sel, err := c.EnumItem()
	if err != nil {
		log.Debug("enum item unavailable", "control", mixerctl.ControlID(c), "error", err)
		return nil
	}

	return widget.NewChoice(items, sel, func(ev *widget.Event) {
		if ev.Type != widget.EventWidget {
			return
		}
		ch := ev.Self.(*widget.Choice)
		ctl := ch.Priv().(mixerctl.Control)
		if err := ctl.SetEnumItem(ch.Selected()); err != nil {
			log.Warn("failed to set enum item", "control", mixerctl.ControlID(ctl), "item", ch.Selected(), "error", err)
		}
	}, c)
}

// NewLabel builds the name label of a control
func NewLabel(c mixerctl.Control) *widget.Label {
	return widget.NewLabel(mixerctl.ControlID(c), c)
}
