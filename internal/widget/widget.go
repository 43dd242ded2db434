// Package widget is the small widget toolkit the mixer view is built from.
// Every widget distinguishes user-driven changes (EventWidget) from
// programmatic ones (EventSet) so handlers can ignore their own echo.
package widget

// EventType tells a handler where a state change came from
type EventType int

const (
	// EventWidget is emitted when the user changed the widget
	EventWidget EventType = iota
	// EventSet is emitted when code changed the widget through a Set* method
	EventSet
)

func (t EventType) String() string {
	switch t {
	case EventWidget:
		return "widget"
	case EventSet:
		return "set"
	default:
		return "unknown"
	}
}

// Event is passed to a widget's handler after its state changed
type Event struct {
	Type EventType
	Self Widget
}

// Handler receives change events for a single widget
type Handler func(ev *Event)

// Kind identifies the concrete widget type
type Kind int

const (
	KindLabel Kind = iota
	KindSlider
	KindToggle
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindLabel:
		return "label"
	case KindSlider:
		return "slider"
	case KindToggle:
		return "toggle"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Widget is the part every widget has in common
type Widget interface {
	Kind() Kind
	// Priv returns the opaque user data given at construction
	Priv() any
	Disabled() bool
	// Disable makes the widget ignore user input; programmatic updates still apply
	Disable()
}

type base struct {
	priv     any
	handler  Handler
	disabled bool
}

func (b *base) Priv() any      { return b.priv }
func (b *base) Disabled() bool { return b.disabled }
func (b *base) Disable()       { b.disabled = true }

func (b *base) emit(self Widget, t EventType) {
	if b.handler != nil {
		b.handler(&Event{Type: t, Self: self})
	}
}
