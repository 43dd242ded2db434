package widget

// Label displays static text
type Label struct {
	base
	text string
}

func NewLabel(text string, priv any) *Label {
	return &Label{base: base{priv: priv}, text: text}
}

func (l *Label) Kind() Kind   { return KindLabel }
func (l *Label) Text() string { return l.text }
