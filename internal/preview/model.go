// Package preview shows a composed document in the terminal.
//
// The outline of every layer is drawn on a braille canvas, fitted to the
// document's viewBox. A sidebar lists the layers; the selected one is
// highlighted and any layer can be hidden.
package preview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/geosvg/pkg/pipeline"
	"github.com/matzehuels/geosvg/pkg/svg"
)

const (
	sidebarWidth = 28
	minZoom      = 0.1
	maxZoom      = 64
	zoomStep     = 1.25
	panStep      = 8 // dots
)

var (
	accentFg  = lipgloss.Color("36")
	dimFg     = lipgloss.Color("240")
	titleSty  = lipgloss.NewStyle().Bold(true).Foreground(accentFg)
	statusSty = lipgloss.NewStyle().Foreground(dimFg)
	baseSty   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// =============================================================================
// Keys
// =============================================================================

type keyMap struct {
	Toggle  key.Binding
	Fill    key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Reset   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "show/hide layer")),
		Fill:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fill polygons")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Left:    key.NewBinding(key.WithKeys("a", "shift+left"), key.WithHelp("a", "pan left")),
		Right:   key.NewBinding(key.WithKeys("d", "shift+right"), key.WithHelp("d", "pan right")),
		Up:      key.NewBinding(key.WithKeys("w", "shift+up"), key.WithHelp("w", "pan up")),
		Down:    key.NewBinding(key.WithKeys("s", "shift+down"), key.WithHelp("s", "pan down")),
		Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Fill, k.Reset},
		{k.ZoomIn, k.ZoomOut},
		{k.Left, k.Right, k.Up, k.Down},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// Layers
// =============================================================================

type layerItem struct {
	index    int
	name     string
	features int
	shapes   int
	visible  bool
}

func (i layerItem) Title() string {
	mark := "●"
	if !i.visible {
		mark = "○"
	}
	return mark + " " + i.name
}

func (i layerItem) Description() string {
	return fmt.Sprintf("%d features · %d shapes", i.features, i.shapes)
}

func (i layerItem) FilterValue() string { return i.name }

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model for the preview.
type Model struct {
	sets    []pipeline.LayerSet
	visible []bool
	colors  []lipgloss.Color
	viewBox svg.ViewBox

	list list.Model
	help help.Model
	keys keyMap

	width, height int
	zoom          float64
	pan           dot
	fill          bool
	status        string
}

// New builds a preview of doc, whose parts were composed from sets in order.
func New(sets []pipeline.LayerSet, doc svg.Document) Model {
	parts := doc.Parts()
	items := make([]list.Item, len(sets))
	visible := make([]bool, len(sets))
	colors := make([]lipgloss.Color, len(sets))
	for i, ls := range sets {
		colors[i] = layerColor(ls, i, len(sets))
		item := layerItem{index: i, name: ls.Layer.Name, features: ls.Set.Len(), visible: true}
		if i < len(parts) {
			item.shapes = parts[i].Len()
		}
		items[i] = item
		visible[i] = true
	}

	l := list.New(items, list.NewDefaultDelegate(), sidebarWidth, 0)
	l.Title = "Layers"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return Model{
		sets:    sets,
		visible: visible,
		colors:  colors,
		viewBox: doc.ViewBox(),
		list:    l,
		help:    help.New(),
		keys:    defaultKeyMap(),
		zoom:    1,
		status:  "viewBox " + doc.ViewBox().String(),
	}
}

// Run shows m until the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(sidebarWidth, max(1, m.height-3))
		m.help.Width = m.width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			return m.toggleSelected()
		case key.Matches(msg, m.keys.Fill):
			m.fill = !m.fill
			m.status = fmt.Sprintf("fill: %v", m.fill)
			return m, nil
		case key.Matches(msg, m.keys.ZoomIn):
			m.zoom = min(maxZoom, m.zoom*zoomStep)
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			return m, nil
		case key.Matches(msg, m.keys.ZoomOut):
			m.zoom = max(minZoom, m.zoom/zoomStep)
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			return m, nil
		case key.Matches(msg, m.keys.Left):
			m.pan.x += panStep
			return m, nil
		case key.Matches(msg, m.keys.Right):
			m.pan.x -= panStep
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.pan.y += panStep
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.pan.y -= panStep
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			m.zoom, m.pan = 1, dot{}
			m.status = "viewBox " + m.viewBox.String()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(layerItem)
	if !ok {
		return m, nil
	}
	visible := make([]bool, len(m.visible))
	copy(visible, m.visible)
	visible[item.index] = !visible[item.index]
	m.visible = visible

	item.visible = visible[item.index]
	state := "hidden"
	if item.visible {
		state = "shown"
	}
	m.status = item.name + ": " + state
	cmd := m.list.SetItem(m.list.Index(), item)
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	bodyHeight := max(4, m.height-3)
	canvasWidth := max(8, m.width-sidebarWidth-1)

	header := titleSty.Render(" geosvg preview ")
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(sidebarWidth).Height(bodyHeight).Render(m.list.View()),
		" ",
		m.renderCanvas(canvasWidth, bodyHeight),
	)
	footer := statusSty.Render(m.status) + "\n" + m.help.View(m.keys)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// layerColor is the layer's own stroke or fill when it has a fixed value,
// otherwise a hue spread evenly over the layers.
func layerColor(ls pipeline.LayerSet, i, n int) lipgloss.Color {
	for _, s := range []string{ls.Layer.Style.Stroke, ls.Layer.Style.Fill} {
		if s == "" {
			continue
		}
		if c, err := svg.ParseColor(s); err == nil {
			if hex, ok := c.HexString(); ok {
				return lipgloss.Color(hex)
			}
		}
	}
	return lipgloss.Color(colorful.Hcl(360*float64(i)/float64(max(n, 1)), 0.6, 0.7).Clamped().Hex())
}

// renderCanvas draws the visible layers in cols by rows cells. The selected
// layer is drawn in its own color over the rest.
func (m Model) renderCanvas(cols, rows int) string {
	proj := newProjection(m.viewBox, cols, rows, m.zoom, m.pan)
	base := newCanvas(cols, rows)
	focus := newCanvas(cols, rows)
	selected := m.list.Index()
	for i, ls := range m.sets {
		if !m.visible[i] {
			continue
		}
		target := base
		if i == selected {
			target = focus
		}
		for _, f := range ls.Set.Features {
			target.draw(proj, f.Geometry, m.fill)
		}
	}

	focusSty := baseSty
	if selected >= 0 && selected < len(m.colors) {
		focusSty = lipgloss.NewStyle().Foreground(m.colors[selected])
	}
	var sb strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		writeRow(&sb, base, focus, focusSty, y)
	}
	return sb.String()
}

// writeRow writes one row, grouping runs of focus and base cells so each
// run is styled once.
func writeRow(sb *strings.Builder, base, focus *canvas, focusSty lipgloss.Style, y int) {
	var (
		run     []rune
		inFocus bool
	)
	flush := func() {
		if len(run) == 0 {
			return
		}
		if inFocus {
			sb.WriteString(focusSty.Render(string(run)))
		} else {
			sb.WriteString(baseSty.Render(string(run)))
		}
		run = run[:0]
	}
	for x := 0; x < base.w; x++ {
		f := focus.mask(x, y)
		isFocus := f != 0
		if isFocus != inFocus {
			flush()
			inFocus = isFocus
		}
		run = append(run, brailleRune(base.mask(x, y)|f))
	}
	flush()
}
