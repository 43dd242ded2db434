package widget

// Orientation of a slider
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Slider selects an integer from a closed range
type Slider struct {
	base
	min, max    int64
	value       int64
	orientation Orientation
}

// NewSlider creates a slider over [min, max] seeded with value (clamped)
func NewSlider(min, max, value int64, orientation Orientation, h Handler, priv any) *Slider {
	if max < min {
		min, max = max, min
	}
	s := &Slider{
		base:        base{priv: priv, handler: h},
		min:         min,
		max:         max,
		orientation: orientation,
	}
	s.value = s.clamp(value)
	return s
}

func (s *Slider) Kind() Kind               { return KindSlider }
func (s *Slider) Min() int64               { return s.min }
func (s *Slider) Max() int64               { return s.max }
func (s *Slider) Value() int64             { return s.value }
func (s *Slider) Orientation() Orientation { return s.orientation }

// Fraction returns the position of the value within the range, 0 to 1
func (s *Slider) Fraction() float64 {
	if s.max == s.min {
		return 0
	}
	return float64(s.value-s.min) / float64(s.max-s.min)
}

// SetValue is the programmatic update path
func (s *Slider) SetValue(value int64) {
	value = s.clamp(value)
	if value == s.value {
		return
	}
	s.value = value
	s.emit(s, EventSet)
}

// Input applies a user-driven value and reports whether it changed anything
func (s *Slider) Input(value int64) bool {
	if s.disabled {
		return false
	}
	value = s.clamp(value)
	if value == s.value {
		return false
	}
	s.value = value
	s.emit(s, EventWidget)
	return true
}

// Step moves the slider by delta as user input
func (s *Slider) Step(delta int64) bool {
	return s.Input(s.value + delta)
}

func (s *Slider) clamp(v int64) int64 {
	if v < s.min {
		return s.min
	}
	if v > s.max {
		return s.max
	}
	return v
}
