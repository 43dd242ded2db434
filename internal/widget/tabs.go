package widget

// Tabs is a tabbed container with one grid per tab
type Tabs struct {
	labels []string
	grids  []*Grid
	active int
}

func NewTabs(labels ...string) *Tabs {
	return &Tabs{labels: labels, grids: make([]*Grid, len(labels))}
}

func (t *Tabs) Len() int         { return len(t.labels) }
func (t *Tabs) Labels() []string { return t.labels }
func (t *Tabs) Active() int      { return t.active }

// Put sets the content of tab i
func (t *Tabs) Put(i int, g *Grid) {
	if i >= 0 && i < len(t.grids) {
		t.grids[i] = g
	}
}

// Grid returns the content of tab i
func (t *Tabs) Grid(i int) *Grid {
	if i < 0 || i >= len(t.grids) {
		return nil
	}
	return t.grids[i]
}

// SetActive switches to tab i; invalid indexes are ignored
func (t *Tabs) SetActive(i int) {
	if i >= 0 && i < len(t.labels) {
		t.active = i
	}
}

// Next switches to the following tab, wrapping around
func (t *Tabs) Next() {
	if len(t.labels) > 0 {
		t.active = (t.active + 1) % len(t.labels)
	}
}
