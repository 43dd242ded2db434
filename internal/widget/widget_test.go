package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []EventType
}

func (r *recorder) handle(ev *Event) {
	r.events = append(r.events, ev.Type)
}

func TestSlider(t *testing.T) {
	var rec recorder
	s := NewSlider(0, 100, 37, Vertical, rec.handle, "priv")

	assert.Equal(t, int64(0), s.Min())
	assert.Equal(t, int64(100), s.Max())
	assert.Equal(t, int64(37), s.Value())
	assert.Equal(t, Vertical, s.Orientation())
	assert.Equal(t, "priv", s.Priv())
	assert.Equal(t, KindSlider, s.Kind())
	assert.Empty(t, rec.events, "construction must not emit")

	t.Run("programmatic set", func(t *testing.T) {
		s.SetValue(50)
		assert.Equal(t, int64(50), s.Value())
		assert.Equal(t, []EventType{EventSet}, rec.events)

		// unchanged value stays silent
		s.SetValue(50)
		assert.Len(t, rec.events, 1)
	})

	t.Run("user input", func(t *testing.T) {
		rec.events = nil
		assert.True(t, s.Step(5))
		assert.Equal(t, int64(55), s.Value())
		assert.Equal(t, []EventType{EventWidget}, rec.events)
	})

	t.Run("clamped", func(t *testing.T) {
		rec.events = nil
		assert.True(t, s.Input(1000))
		assert.Equal(t, int64(100), s.Value())
		assert.False(t, s.Step(1))
		s.SetValue(-20)
		assert.Equal(t, int64(0), s.Value())
		assert.Equal(t, []EventType{EventWidget, EventSet}, rec.events)
	})

	t.Run("disabled", func(t *testing.T) {
		rec.events = nil
		s.Disable()
		assert.True(t, s.Disabled())
		assert.False(t, s.Step(10))
		assert.Equal(t, int64(0), s.Value())
		s.SetValue(10)
		assert.Equal(t, int64(10), s.Value())
		assert.Equal(t, []EventType{EventSet}, rec.events)
	})
}

func TestSliderFraction(t *testing.T) {
	assert.InDelta(t, 0.25, NewSlider(-100, 100, -50, Horizontal, nil, nil).Fraction(), 0.0001)
	assert.Equal(t, 0.0, NewSlider(5, 5, 5, Horizontal, nil, nil).Fraction())

	swapped := NewSlider(10, 0, 20, Vertical, nil, nil)
	assert.Equal(t, int64(0), swapped.Min())
	assert.Equal(t, int64(10), swapped.Value())
}

func TestToggle(t *testing.T) {
	var rec recorder
	tg := NewToggle(false, rec.handle, nil)

	tg.SetChecked(false)
	assert.Empty(t, rec.events)

	tg.SetChecked(true)
	assert.True(t, tg.Checked())
	assert.True(t, tg.Toggle())
	assert.False(t, tg.Checked())
	assert.Equal(t, []EventType{EventSet, EventWidget}, rec.events)

	tg.Disable()
	assert.False(t, tg.Toggle())
	assert.False(t, tg.Checked())
}

func TestChoice(t *testing.T) {
	var rec recorder
	opts := []string{"Mic", "Line", "CD"}
	c := NewChoice(opts, 1, rec.handle, nil)
	opts[0] = "changed"

	assert.Equal(t, []string{"Mic", "Line", "CD"}, c.Options())
	assert.Equal(t, "Line", c.SelectedOption())

	assert.True(t, c.Next())
	assert.Equal(t, 2, c.Selected())
	assert.True(t, c.Next())
	assert.Equal(t, 0, c.Selected())
	assert.True(t, c.Prev())
	assert.Equal(t, 2, c.Selected())
	assert.False(t, c.Select(7))
	assert.False(t, c.Select(2))

	c.SetSelected(1)
	assert.Equal(t, []EventType{EventWidget, EventWidget, EventWidget, EventSet}, rec.events)

	c.SetSelected(9)
	assert.Equal(t, "", c.SelectedOption())
	assert.True(t, c.Prev())
	assert.Equal(t, 2, c.Selected())

	empty := NewChoice(nil, 0, nil, nil)
	assert.False(t, empty.Next())
	assert.False(t, empty.Prev())
}

func TestGrid(t *testing.T) {
	g := NewGrid(3, 2)
	assert.Equal(t, 3, g.Cols())
	assert.Equal(t, 2, g.Rows())

	l := NewLabel("Master", nil)
	require.NoError(t, g.Put(2, 1, l))
	assert.Same(t, l, g.Get(2, 1))
	assert.Nil(t, g.Get(0, 1))
	assert.Nil(t, g.Get(3, 0))
	assert.Error(t, g.Put(0, 2, l))
	assert.Error(t, g.Put(-1, 0, l))

	empty := NewGrid(3, 0)
	assert.Equal(t, 0, empty.Rows())
	assert.Nil(t, empty.Get(0, 0))
}

func TestTabs(t *testing.T) {
	tabs := NewTabs("Playback", "Capture")
	g := NewGrid(3, 1)
	tabs.Put(1, g)
	tabs.Put(5, g)

	assert.Equal(t, 2, tabs.Len())
	assert.Nil(t, tabs.Grid(0))
	assert.Same(t, g, tabs.Grid(1))
	assert.Nil(t, tabs.Grid(2))

	assert.Equal(t, 0, tabs.Active())
	tabs.Next()
	assert.Equal(t, 1, tabs.Active())
	tabs.Next()
	assert.Equal(t, 0, tabs.Active())
	tabs.SetActive(3)
	assert.Equal(t, 0, tabs.Active())
	tabs.SetActive(1)
	assert.Equal(t, 1, tabs.Active())
}
