package bridge

import (
	"log/slog"

	"github.com/michaelquigley/mixerctl"
	"github.com/michaelquigley/mixerctl/internal/widget"
)

// Grid columns of a section
const (
	ColPrimary = 0
	ColToggle  = 1
	ColLabel   = 2

	sectionCols = 3
)

// Section is the playback or capture half of the view: one group and one grid
// row per relevant control, in enumeration order
type Section struct {
	Dir    mixerctl.Direction
	Groups []Group
	Grid   *widget.Grid
}

// Len returns the number of controls in the section
func (s *Section) Len() int { return len(s.Groups) }

// Builder builds sections and binds the hardware-side callbacks
type Builder struct {
	log     *slog.Logger
	observe Observer
}

// NewBuilder returns a builder whose bindings log to log and report to observe
func NewBuilder(log *slog.Logger, observe Observer) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{log: log, observe: observe}
}

// BuildSection builds the dir section of dev with default logging
func BuildSection(dev mixerctl.Device, dir mixerctl.Direction, log *slog.Logger) *Section {
	return NewBuilder(log, nil).Section(dev, dir)
}

// Section builds the dir section of dev. Controls not relevant to dir are
// skipped entirely; with none relevant the section has no groups and an
// empty grid.
func (b *Builder) Section(dev mixerctl.Device, dir mixerctl.Direction) *Section {
	var relevant []mixerctl.Control
	for _, c := range dev.Controls() {
		if Classify(c).Relevant(dir) {
			relevant = append(relevant, c)
		}
	}

	s := &Section{Dir: dir, Grid: widget.NewGrid(sectionCols, len(relevant))}
	if len(relevant) == 0 {
		b.log.Debug("no controls in section", "dir", dir)
		return s
	}

	s.Groups = make([]Group, len(relevant))
	for i, c := range relevant {
		g := &s.Groups[i]
		g.control = c
		g.dir = dir

		if dir == mixerctl.Playback && c.IsEnumerated() {
			g.choice = NewEnumChoice(c, b.log)
		} else {
			g.slider = NewVolumeSlider(c, dir, b.log)
		}
		g.toggle = NewMuteToggle(c, dir, b.log)
		g.label = NewLabel(c)

		// typed nil pointers must not land in the grid
		if g.choice != nil {
			b.put(s.Grid, ColPrimary, i, g.choice)
		}
		if g.slider != nil {
			b.put(s.Grid, ColPrimary, i, g.slider)
		}
		if g.toggle != nil {
			b.put(s.Grid, ColToggle, i, g.toggle)
		}
		b.put(s.Grid, ColLabel, i, g.label)

		b.bind(c, g)
	}

	b.log.Debug("section built", "dir", dir, "controls", len(s.Groups))
	return s
}

func (b *Builder) put(g *widget.Grid, col, row int, w widget.Widget) {
	if err := g.Put(col, row, w); err != nil {
		b.log.Error("failed to place widget", "col", col, "row", row, "error", err)
	}
}

// bind registers g on c, sharing one binding and one callback between the
// control's playback and capture groups. A binding left by another builder is
// replaced.
func (b *Builder) bind(c mixerctl.Control, g *Group) {
	binding, ok := c.CallbackPrivate().(*Binding)
	if !ok || binding.owner != b {
		binding = &Binding{owner: b, control: c, log: b.log, observe: b.observe}
		c.SetCallbackPrivate(binding)
		c.SetCallback(onControlEvent)
	}
	binding.groups[g.dir] = g
}
