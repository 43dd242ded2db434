package bridge

import (
	"errors"
	"log/slog"

	"github.com/michaelquigley/mixerctl"
	"github.com/michaelquigley/mixerctl/internal/widget"
)

// Group correlates one control with the widgets it drives in one section.
// Slots are set when the section is built and never reassigned; slider and
// choice are never both present.
type Group struct {
	control mixerctl.Control
	dir     mixerctl.Direction

	slider *widget.Slider
	toggle *widget.Toggle
	choice *widget.Choice
	label  *widget.Label

	removed bool
}

func (g *Group) Control() mixerctl.Control     { return g.control }
func (g *Group) Direction() mixerctl.Direction { return g.dir }
func (g *Group) Slider() *widget.Slider        { return g.slider }
func (g *Group) Toggle() *widget.Toggle        { return g.toggle }
func (g *Group) Choice() *widget.Choice        { return g.choice }
func (g *Group) Label() *widget.Label          { return g.label }

// Removed reports whether the control went away
func (g *Group) Removed() bool { return g.removed }

// Refresh reads the control's current state into every populated slot through
// the programmatic path, in slider, toggle, choice order. A failed read leaves
// its widget untouched; all failures are returned joined.
func (g *Group) Refresh() error {
	if g.removed {
		return mixerctl.ErrRemoved
	}

	var errs []error

	if g.slider != nil {
		if v, err := g.control.Volume(g.dir); err != nil {
			errs = append(errs, err)
		} else {
			g.slider.SetValue(v)
		}
	}

	if g.toggle != nil {
		if on, err := g.control.Switch(g.dir); err != nil {
			errs = append(errs, err)
		} else {
			g.toggle.SetChecked(on)
		}
	}

	if g.choice != nil {
		if sel, err := g.control.EnumItem(); err != nil {
			errs = append(errs, err)
		} else {
			g.choice.SetSelected(sel)
		}
	}

	return errors.Join(errs...)
}

func (g *Group) disable() {
	g.removed = true
	if g.slider != nil {
		g.slider.Disable()
	}
	if g.toggle != nil {
		g.toggle.Disable()
	}
	if g.choice != nil {
		g.choice.Disable()
	}
}

// Observer is told about every notification after the bound groups were refreshed
type Observer func(c mixerctl.Control, mask mixerctl.EventMask, groups []*Group)

// Binding is the private context registered on a control: non-owning pointers
// to the control's playback and capture groups, either of which may be nil.
type Binding struct {
	owner   *Builder
	control mixerctl.Control
	groups  [2]*Group
	log     *slog.Logger
	observe Observer
	dropped bool
}

// Group returns the bound group for dir
func (b *Binding) Group(dir mixerctl.Direction) *Group {
	return b.groups[dir]
}

func (b *Binding) bound() []*Group {
	var out []*Group
	for _, g := range b.groups {
		if g != nil {
			out = append(out, g)
		}
	}
	return out
}

func (b *Binding) handle(mask mixerctl.EventMask) {
	if b.dropped {
		return
	}

	groups := b.bound()

	if mask == mixerctl.EventMaskRemove {
		b.log.Info("control removed", "control", mixerctl.ControlID(b.control))
		for _, g := range groups {
			g.disable()
		}
		b.dropped = true
	} else {
		for _, g := range groups {
			if err := g.Refresh(); err != nil {
				b.log.Debug("refresh failed", "control", mixerctl.ControlID(b.control), "dir", g.dir, "error", err)
			}
		}
	}

	if b.observe != nil {
		b.observe(b.control, mask, groups)
	}
}

// onControlEvent is the one hardware-side callback every bound control shares
func onControlEvent(private any, mask mixerctl.EventMask) {
	if b, ok := private.(*Binding); ok {
		b.handle(mask)
	}
}
