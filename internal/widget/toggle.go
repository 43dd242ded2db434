package widget

// Toggle is a two-state check box
type Toggle struct {
	base
	checked bool
}

func NewToggle(checked bool, h Handler, priv any) *Toggle {
	return &Toggle{base: base{priv: priv, handler: h}, checked: checked}
}

func (t *Toggle) Kind() Kind    { return KindToggle }
func (t *Toggle) Checked() bool { return t.checked }

// SetChecked is the programmatic update path
func (t *Toggle) SetChecked(checked bool) {
	if checked == t.checked {
		return
	}
	t.checked = checked
	t.emit(t, EventSet)
}

// Toggle flips the state as user input
func (t *Toggle) Toggle() bool {
	if t.disabled {
		return false
	}
	t.checked = !t.checked
	t.emit(t, EventWidget)
	return true
}
