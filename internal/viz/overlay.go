package viz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blrviz/blrviz/internal/atlas"
	"github.com/blrviz/blrviz/internal/heat"
	"github.com/blrviz/blrviz/internal/render"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"
)

// OverlayLayer is one toggleable group of features.
type OverlayLayer struct {
	Name   string
	Colour lipgloss.Color
	// ColourProperty, when set, names a feature property holding a hex
	// colour that overrides Colour per feature.
	ColourProperty string
	Features       []atlas.Feature
	Hidden         bool
}

func (l OverlayLayer) colourOf(f atlas.Feature) lipgloss.Color {
	if l.ColourProperty != "" {
		if c := f.Properties.MustString(l.ColourProperty, ""); c != "" {
			return lipgloss.Color(c)
		}
	}
	if l.Colour == "" {
		return CurrentTheme.Feature
	}
	return l.Colour
}

type OverlayOptions struct {
	Title string
	// Bound frames the view. A zero bound fits all layers and the heat
	// surface.
	Bound orb.Bound
	Heat  *heat.Surface
	// Inspect lists the point features the cursor can select; the readout
	// shows the selection's name and InspectFields.
	Inspect       []atlas.Feature
	InspectFields []string
}

// OverlayModel draws static layers, optionally over a heat surface.
type OverlayModel struct {
	title  string
	layers []OverlayLayer
	heat   *heat.Surface
	bound  orb.Bound

	inspect []atlas.Feature
	fields  []string
	// cursor in canvas cells
	cursorX, cursorY int
	selected         int

	width, height int
	proj          render.Projector
	plates        []plate
	density       [][]float64
	showHelp      bool
}

func NewOverlayModel(layers []OverlayLayer, opts OverlayOptions) OverlayModel {
	m := OverlayModel{
		title:  opts.Title,
		layers: append([]OverlayLayer(nil), layers...),
		heat:   opts.Heat,
		bound:  opts.Bound,

		inspect:  opts.Inspect,
		fields:   opts.InspectFields,
		selected: -1,
	}
	if m.bound.IsZero() {
		m.bound = overlayBound(m.layers, m.heat)
	}
	m.cursorX, m.cursorY = width/2, height/2
	m.resize(width, height)
	return m
}

func overlayBound(layers []OverlayLayer, s *heat.Surface) orb.Bound {
	var b orb.Bound
	first := true
	add := func(g orb.Bound) {
		if first {
			b, first = g, false
			return
		}
		b = b.Union(g)
	}
	for _, l := range layers {
		for _, f := range l.Features {
			if f.Geometry != nil {
				add(f.Geometry.Bound())
			}
		}
	}
	if s != nil {
		for _, c := range s.Cells() {
			add(s.Polygon(c).Bound())
		}
	}
	return b
}

func (m OverlayModel) Init() tea.Cmd { return nil }

func (m OverlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "t":
			NextTheme()
			m.redraw()
		case "?":
			m.showHelp = !m.showHelp
		case "up":
			m.moveCursor(0, -1)
		case "down":
			m.moveCursor(0, 1)
		case "left":
			m.moveCursor(-1, 0)
		case "right":
			m.moveCursor(1, 0)
		case "tab":
			m.cycle(1)
		case "shift+tab":
			m.cycle(-1)
		default:
			if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.layers) {
				m.layers = append([]OverlayLayer(nil), m.layers...)
				m.layers[n-1].Hidden = !m.layers[n-1].Hidden
				m.redraw()
			}
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width-panelWidth-6, msg.Height-4)
	}
	return m, nil
}

func (m *OverlayModel) resize(w, h int) {
	if w < 20 {
		w = 20
	}
	if h < 10 {
		h = 10
	}
	m.width, m.height = w, h
	m.cursorX, m.cursorY = clampInt(m.cursorX, 0, w-1), clampInt(m.cursorY, 0, h-1)
	m.proj = fit(m.bound, w, h)
	m.density = nil
	if m.heat != nil {
		m.density = densityGrid(m.heat, m.proj, w, h)
	}
	m.selected = m.nearest()
	m.redraw()
}

func (m *OverlayModel) moveCursor(dx, dy int) {
	if len(m.inspect) == 0 {
		return
	}
	m.cursorX = clampInt(m.cursorX+dx, 0, m.width-1)
	m.cursorY = clampInt(m.cursorY+dy, 0, m.height-1)
	m.selected = m.nearest()
	m.redraw()
}

// cycle steps the selection through the inspectable features in order and
// puts the cursor on the new one.
func (m *OverlayModel) cycle(step int) {
	n := len(m.inspect)
	if n == 0 {
		return
	}
	i := m.selected + step
	if m.selected < 0 && step < 0 {
		i = n - 1
	}
	m.selected = ((i % n) + n) % n
	if pt, ok := m.inspect[m.selected].Geometry.(orb.Point); ok {
		x, y := m.proj.Point(pt)
		m.cursorX = clampInt(int(x)/2, 0, m.width-1)
		m.cursorY = clampInt(int(y)/4, 0, m.height-1)
	}
	m.redraw()
}

// nearest returns the index of the inspectable point closest to the cursor,
// or -1 when there is none.
func (m OverlayModel) nearest() int {
	cx, cy := float64(m.cursorX*2)+0.5, float64(m.cursorY*4)+1.5
	best, bestD := -1, 0.0
	for i, f := range m.inspect {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		x, y := m.proj.Point(pt)
		d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
		if best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// Selected reports the feature under the cursor.
func (m OverlayModel) Selected() (atlas.Feature, bool) {
	if m.selected < 0 || m.selected >= len(m.inspect) {
		return atlas.Feature{}, false
	}
	return m.inspect[m.selected], true
}

// redraw rebuilds one plate per colour, in layer order.
func (m *OverlayModel) redraw() {
	m.plates = m.plates[:0:0]
	index := make(map[lipgloss.Color]int)
	for _, l := range m.layers {
		if l.Hidden {
			continue
		}
		for _, f := range l.Features {
			c := l.colourOf(f)
			i, ok := index[c]
			if !ok {
				i = len(m.plates)
				index[c] = i
				m.plates = append(m.plates, newPlate(m.width, m.height, c))
			}
			m.plates[i].canvas.DrawGeometry(f.Geometry, m.proj)
		}
	}

	if len(m.inspect) == 0 {
		return
	}
	cursor := newPlate(m.width, m.height, CurrentTheme.Accent)
	px, py := m.cursorX*2, m.cursorY*4+1
	cursor.canvas.Set(px, py)
	cursor.canvas.Set(px+1, py)
	cursor.canvas.Set(px, py+1)
	cursor.canvas.Set(px+1, py+1)
	if f, ok := m.Selected(); ok {
		cursor.canvas.DrawGeometry(f.Geometry, m.proj)
	}
	m.plates = append(m.plates, cursor)
}

// Layers reports the current layers, including visibility.
func (m OverlayModel) Layers() []OverlayLayer {
	return append([]OverlayLayer(nil), m.layers...)
}

func (m OverlayModel) View() string {
	canvasView := canvasStyle.Render(compose(m.width, m.height, m.plates, m.density))

	var s strings.Builder
	s.WriteString(headerStyle().Render(GradientText(strings.ToUpper(m.title), CurrentTheme.Primary, CurrentTheme.Accent)) + "\n")

	muted := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	for i, l := range m.layers {
		swatch := lipgloss.NewStyle().Foreground(l.colourOf(atlas.Feature{})).Render("■")
		line := fmt.Sprintf("[%d] %s %-18s %5d", i+1, swatch, l.Name, len(l.Features))
		if l.Hidden {
			line = muted.Render(fmt.Sprintf("[%d] □ %-18s %5d", i+1, l.Name, len(l.Features)))
		}
		s.WriteString(line + "\n")
	}

	if m.heat != nil {
		s.WriteString("\n" + labelStyle.Render("Heat cells") + valueStyle.Render(fmt.Sprintf("%d", len(m.heat.Cells()))) + "\n")
		s.WriteString(labelStyle.Render("Peak") + valueStyle.Render(fmt.Sprintf("%.2f", m.heat.Max())) + "\n")
		s.WriteString(rampLegend(panelWidth-6) + "\n")
	}

	if len(m.inspect) > 0 {
		s.WriteString("\n" + m.readout())
	}

	hints := []string{"1-9", "layers", "t", "theme", "?", "help", "q", "quit"}
	if len(m.inspect) > 0 {
		hints = append([]string{"arrows", "cursor", "tab", "next"}, hints...)
	}
	s.WriteString(helpStyle.Render(Separator(panelWidth-6) + "\n" + keyHints(hints...)))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  1-9      - Show/Hide a layer        ║
║  Arrows   - Move the cursor          ║
║  Tab      - Select the next stop     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m OverlayModel) readout() string {
	f, ok := m.Selected()
	if !ok {
		return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render("nothing selected") + "\n"
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true).Render(f.Name) + "\n")
	for _, field := range m.fields {
		v, ok := f.Properties[field]
		if !ok || field == "" {
			continue
		}
		b.WriteString(labelStyle.Render(strings.ToUpper(field[:1])+field[1:]) + valueStyle.Render(fmt.Sprint(v)) + "\n")
	}
	return b.String()
}

func rampLegend(w int) string {
	var b strings.Builder
	for i := 0; i < w; i++ {
		d := float64(i+1) / float64(w)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(heat.Hex(heat.Ramp(d)))).Render(string(shade(d))))
	}
	return b.String()
}
