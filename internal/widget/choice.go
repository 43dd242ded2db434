package widget

// Choice selects exactly one of a fixed list of options
type Choice struct {
	base
	options  []string
	selected int
}

// NewChoice creates a choice over options; an out of range selection is kept
// as is so a bogus hardware index stays visible
func NewChoice(options []string, selected int, h Handler, priv any) *Choice {
	opts := make([]string, len(options))
	copy(opts, options)
	return &Choice{base: base{priv: priv, handler: h}, options: opts, selected: selected}
}

func (c *Choice) Kind() Kind { return KindChoice }
func (c *Choice) Selected() int {
	return c.selected
}

func (c *Choice) Options() []string {
	return c.options
}

// SelectedOption returns the selected option's name, or "" when out of range
func (c *Choice) SelectedOption() string {
	if c.selected < 0 || c.selected >= len(c.options) {
		return ""
	}
	return c.options[c.selected]
}

// SetSelected is the programmatic update path
func (c *Choice) SetSelected(i int) {
	if i == c.selected {
		return
	}
	c.selected = i
	c.emit(c, EventSet)
}

// Select applies a user-driven selection; out of range indexes are rejected
func (c *Choice) Select(i int) bool {
	if c.disabled || i < 0 || i >= len(c.options) || i == c.selected {
		return false
	}
	c.selected = i
	c.emit(c, EventWidget)
	return true
}

// Next selects the following option, wrapping around
func (c *Choice) Next() bool {
	if len(c.options) == 0 {
		return false
	}
	return c.Select((c.selected + 1 + len(c.options)) % len(c.options))
}

// Prev selects the preceding option, wrapping around
func (c *Choice) Prev() bool {
	if len(c.options) == 0 {
		return false
	}
	i := c.selected - 1
	if i < 0 || i >= len(c.options) {
		i = len(c.options) - 1
	}
	return c.Select(i)
}
