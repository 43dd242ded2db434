// Package tui is the terminal front end: a bubbletea program that renders the
// bridge's widget tree alsamixer style, one control per column, and turns key
// presses into user-driven widget input.
package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/michaelquigley/mixerctl/internal/bridge"
	"github.com/michaelquigley/mixerctl/internal/widget"
)

const (
	colWidth         = 10
	defaultBarHeight = 8
	minBarHeight     = 3
	maxBarHeight     = 16
	// lines around the bars: header, tabs, value, switch, label, detail, help
	chrome = 10
)

// Options tune key handling; steps are percent of a slider's range
type Options struct {
	Step     int
	PageStep int
}

// Model is the bubbletea model over a bridge.App
type Model struct {
	app      *bridge.App
	keys     keyMap
	help     help.Model
	step     int
	pageStep int

	// focus and first visible column, per tab
	focus  [2]int
	offset [2]int

	width, height int
}

func New(app *bridge.App, opts Options) *Model {
	if opts.Step <= 0 {
		opts.Step = 2
	}
	if opts.PageStep <= 0 {
		opts.PageStep = 10
	}
	return &Model{
		app:      app,
		keys:     defaultKeyMap(),
		help:     help.New(),
		step:     opts.Step,
		pageStep: opts.PageStep,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg.fn()
		close(msg.done)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scroll()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)
		m.scroll()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NextTab):
		m.app.Tabs.Next()
	case key.Matches(msg, m.keys.Playback):
		m.app.Tabs.SetActive(bridge.TabPlayback)
	case key.Matches(msg, m.keys.Capture):
		m.app.Tabs.SetActive(bridge.TabCapture)
	case key.Matches(msg, m.keys.Left):
		m.move(-1)
	case key.Matches(msg, m.keys.Right):
		m.move(1)
	case key.Matches(msg, m.keys.Up):
		m.adjust(1, m.step)
	case key.Matches(msg, m.keys.Down):
		m.adjust(-1, m.step)
	case key.Matches(msg, m.keys.PageUp):
		m.adjust(1, m.pageStep)
	case key.Matches(msg, m.keys.PageDown):
		m.adjust(-1, m.pageStep)
	case key.Matches(msg, m.keys.Mute):
		m.toggle()
	case key.Matches(msg, m.keys.Cycle):
		if c, ok := m.cell(bridge.ColPrimary).(*widget.Choice); ok {
			c.Next()
		}
	}
}

func (m *Model) grid() *widget.Grid {
	return m.app.Tabs.Grid(m.app.Tabs.Active())
}

func (m *Model) rows() int {
	if g := m.grid(); g != nil {
		return g.Rows()
	}
	return 0
}

// cell returns the widget in column col of the focused control
func (m *Model) cell(col int) widget.Widget {
	g := m.grid()
	if g == nil {
		return nil
	}
	return g.Get(col, m.focus[m.app.Tabs.Active()])
}

func (m *Model) move(delta int) {
	t := m.app.Tabs.Active()
	n := m.rows()
	if n == 0 {
		return
	}
	m.focus[t] = max(0, min(n-1, m.focus[t]+delta))
}

// adjust steps the focused slider by percent of its range, or moves the
// focused choice one item
func (m *Model) adjust(dir int, percent int) {
	switch w := m.cell(bridge.ColPrimary).(type) {
	case *widget.Slider:
		w.Step(int64(dir) * stepSize(w, percent))
	case *widget.Choice:
		if dir > 0 {
			w.Next()
		} else {
			w.Prev()
		}
	}
}

// toggle flips the focused switch; a control without one cycles its choice
func (m *Model) toggle() {
	if t, ok := m.cell(bridge.ColToggle).(*widget.Toggle); ok {
		t.Toggle()
		return
	}
	if c, ok := m.cell(bridge.ColPrimary).(*widget.Choice); ok {
		c.Next()
	}
}

func stepSize(s *widget.Slider, percent int) int64 {
	d := (s.Max() - s.Min()) * int64(percent) / 100
	if d < 1 {
		d = 1
	}
	return d
}

// visible returns how many control columns fit the terminal
func (m *Model) visible() int {
	if m.width <= 0 {
		return max(1, m.rows())
	}
	return max(1, m.width/colWidth)
}

// scroll keeps the focused control on screen
func (m *Model) scroll() {
	t := m.app.Tabs.Active()
	v := m.visible()
	if m.focus[t] < m.offset[t] {
		m.offset[t] = m.focus[t]
	}
	if m.focus[t] >= m.offset[t]+v {
		m.offset[t] = m.focus[t] - v + 1
	}
	m.offset[t] = max(0, min(m.offset[t], max(0, m.rows()-v)))
}

func (m *Model) barHeight() int {
	if m.height <= 0 {
		return defaultBarHeight
	}
	return max(minBarHeight, min(maxBarHeight, m.height-chrome))
}

func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(title.Render("mixerctl"))
	sb.WriteString(" ")
	sb.WriteString(subtitle.Render(m.app.Device.Name()))
	sb.WriteString("\n")
	sb.WriteString(m.renderTabs())
	sb.WriteString("\n\n")

	if m.rows() == 0 {
		sb.WriteString(subtitle.Render("no controls"))
		sb.WriteString("\n\n")
	} else {
		sb.WriteString(m.renderColumns())
		sb.WriteString("\n\n")
		sb.WriteString(detail.Render(m.describe()))
		sb.WriteString("\n")
	}

	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m *Model) renderTabs() string {
	var parts []string
	for i, l := range m.app.Tabs.Labels() {
		if i == m.app.Tabs.Active() {
			parts = append(parts, activeTab.Render(l))
		} else {
			parts = append(parts, tab.Render(l))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderColumns() string {
	g := m.grid()
	t := m.app.Tabs.Active()
	end := min(g.Rows(), m.offset[t]+m.visible())

	var cols []string
	for row := m.offset[t]; row < end; row++ {
		cols = append(cols, m.renderColumn(g, row, row == m.focus[t]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// renderColumn draws one control: value on top, the bar or item list, the
// switch state and the label
func (m *Model) renderColumn(g *widget.Grid, row int, isFocused bool) string {
	h := m.barHeight()
	lines := make([]string, 0, h+3)

	primary := g.Get(bridge.ColPrimary, row)
	toggle := g.Get(bridge.ColToggle, row)
	disabled := (primary != nil && primary.Disabled()) || (toggle != nil && toggle.Disabled())

	switch w := primary.(type) {
	case *widget.Slider:
		lines = append(lines, cell.Render(strconv.FormatInt(w.Value(), 10)))
		lines = append(lines, bar(w.Fraction(), h)...)
	case *widget.Choice:
		lines = append(lines, cell.Render(fit(w.SelectedOption(), colWidth-1)))
		lines = append(lines, items(w, h)...)
	default:
		lines = append(lines, cell.Render(""))
		for i := 0; i < h; i++ {
			lines = append(lines, cell.Render(""))
		}
	}

	switch w := toggle.(type) {
	case *widget.Toggle:
		if w.Checked() {
			lines = append(lines, cell.Render(unmuted.Render("OO")))
		} else {
			lines = append(lines, cell.Render(muted.Render("MM")))
		}
	default:
		lines = append(lines, cell.Render(""))
	}

	name := ""
	if l, ok := g.Get(bridge.ColLabel, row).(*widget.Label); ok {
		name = fit(l.Text(), colWidth-1)
	}
	switch {
	case disabled:
		name = gone.Render(name)
	case isFocused:
		name = focused.Render(name)
	}
	lines = append(lines, cell.Render(name))

	return strings.Join(lines, "\n")
}

func bar(fraction float64, h int) []string {
	filled := int(math.Round(fraction * float64(h)))
	lines := make([]string, 0, h)
	for i := 0; i < h; i++ {
		if h-i <= filled {
			lines = append(lines, cell.Render(barFill.Render("██")))
		} else {
			lines = append(lines, cell.Render(barTrack.Render("··")))
		}
	}
	return lines
}

// items lists a choice's options around the selected one
func items(c *widget.Choice, h int) []string {
	opts := c.Options()
	start := 0
	if sel := c.Selected(); sel >= h {
		start = sel - h + 1
	}

	lines := make([]string, 0, h)
	for i := start; i < start+h; i++ {
		switch {
		case i >= len(opts):
			lines = append(lines, cell.Render(""))
		case i == c.Selected():
			lines = append(lines, cell.Render(focused.Render(fit(opts[i], colWidth-1))))
		default:
			lines = append(lines, cell.Render(subtitle.Render(fit(opts[i], colWidth-1))))
		}
	}
	return lines
}

// describe is the status line for the focused control
func (m *Model) describe() string {
	var name string
	if l, ok := m.cell(bridge.ColLabel).(*widget.Label); ok {
		name = l.Text()
	}

	var parts []string
	primary := m.cell(bridge.ColPrimary)
	switch w := primary.(type) {
	case *widget.Slider:
		parts = append(parts, fmt.Sprintf("%d [%d, %d] %d%%", w.Value(), w.Min(), w.Max(), int(math.Round(w.Fraction()*100))))
	case *widget.Choice:
		parts = append(parts, fmt.Sprintf("%q (%d/%d)", w.SelectedOption(), w.Selected()+1, len(w.Options())))
	}

	toggle := m.cell(bridge.ColToggle)
	if t, ok := toggle.(*widget.Toggle); ok {
		if t.Checked() {
			parts = append(parts, "on")
		} else {
			parts = append(parts, "off")
		}
	}

	if (primary != nil && primary.Disabled()) || (toggle != nil && toggle.Disabled()) {
		parts = append(parts, "(removed)")
	}

	if len(parts) == 0 {
		return name
	}
	return name + ": " + strings.Join(parts, " ")
}

// fit truncates s to w runes
func fit(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 1 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}
