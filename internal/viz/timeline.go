package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blrviz/blrviz/internal/atlas"
	"github.com/blrviz/blrviz/internal/logger"
	"github.com/blrviz/blrviz/internal/render"
	"github.com/blrviz/blrviz/internal/timeline"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/paulmach/orb"
)

const (
	width      = 60
	height     = 24
	panelWidth = 46
	maxFresh   = 5
)

// TimelineOptions configures a TimelineModel.
type TimelineOptions struct {
	Title string
	// Sink receives every filtered view. It may be nil.
	Sink render.Sink
	// Autoplay starts playback as soon as the program starts.
	Autoplay bool
}

// TimelineModel shows the features built up to the driver's year.
type TimelineModel struct {
	title    string
	features []atlas.Feature
	bound    orb.Bound
	unknown  int
	driver   *timeline.Driver
	sink     render.Sink
	autoplay bool

	year    int
	visible []atlas.Feature
	fresh   []atlas.Feature
	counts  []float64

	width, height int
	canvas        plates
	proj          render.Projector
	showHelp      bool
	err           error
}

type plates struct {
	built plate
	fresh plate
}

func NewTimelineModel(ds *atlas.Dataset, d *timeline.Driver, opts TimelineOptions) TimelineModel {
	features := ds.Features()
	counts := timeline.Counts(features, d.Range())
	series := make([]float64, len(counts))
	for i, c := range counts {
		series[i] = float64(c)
	}

	title := opts.Title
	if title == "" {
		title = ds.Name()
	}

	m := TimelineModel{
		title:    title,
		features: features,
		bound:    ds.Bound(),
		unknown:  len(ds.Unknown()),
		driver:   d,
		sink:     opts.Sink,
		autoplay: opts.Autoplay,
		year:     d.Year(),
		counts:   series,
	}
	m.resize(width, height)
	m.refresh(true)
	return m
}

func (m TimelineModel) Init() tea.Cmd {
	if m.autoplay {
		return m.driver.Start()
	}
	return nil
}

// Update routes keys and ticks to the driver, then rebuilds the filtered
// view if the year moved.
func (m TimelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.driver.Close()
			return m, tea.Quit
		case " ":
			cmd = m.driver.Toggle()
		case "left", "h":
			m.driver.Step(-1)
		case "right", "l":
			m.driver.Step(1)
		case "home", "g":
			m.driver.Set(m.driver.Range().Min)
		case "end", "G":
			m.driver.Set(m.driver.Range().Max)
		case "t":
			NextTheme()
			m.redraw()
		case "?":
			m.showHelp = !m.showHelp
		}
	case timeline.TickMsg:
		var advanced bool
		advanced, cmd = m.driver.Tick(msg)
		if !advanced {
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width-panelWidth-6, msg.Height-4)
		m.redraw()
		return m, nil
	}
	m.refresh(false)
	return m, cmd
}

func (m *TimelineModel) resize(w, h int) {
	if w < 20 {
		w = 20
	}
	if h < 10 {
		h = 10
	}
	m.width, m.height = w, h
	m.canvas = plates{
		built: newPlate(w, h, CurrentTheme.Feature),
		fresh: newPlate(w, h, CurrentTheme.Fresh),
	}
	m.proj = fit(m.bound, w, h)
}

// refresh recomputes the filtered view when the driver's year differs from
// the one on screen, or when forced.
func (m *TimelineModel) refresh(force bool) {
	year := m.driver.Year()
	if !force && year == m.year {
		return
	}
	m.year = year
	m.visible = timeline.Filter(m.features, year)
	m.fresh = timeline.Completed(m.features, year)

	if m.sink != nil {
		if err := m.sink.Render(year, atlas.Collection(m.visible)); err != nil {
			m.err = err
			logger.L().WithError(err).WithField("year", year).Warn("render sink failed")
		} else {
			m.err = nil
		}
	}
	m.redraw()
}

func (m *TimelineModel) redraw() {
	m.canvas.built.colour = CurrentTheme.Feature
	m.canvas.fresh.colour = CurrentTheme.Fresh
	m.canvas.built.canvas.Clear()
	m.canvas.fresh.canvas.Clear()
	for _, f := range m.visible {
		if f.Year == m.year {
			m.canvas.fresh.canvas.DrawGeometry(f.Geometry, m.proj)
			continue
		}
		m.canvas.built.canvas.DrawGeometry(f.Geometry, m.proj)
	}
}

// Year is the threshold currently on screen.
func (m TimelineModel) Year() int { return m.year }

// Visible is the current filtered view.
func (m TimelineModel) Visible() []atlas.Feature { return m.visible }

func (m TimelineModel) Err() error { return m.err }

func (m TimelineModel) View() string {
	canvasView := canvasStyle.Render(compose(m.width, m.height, []plate{m.canvas.built, m.canvas.fresh}, nil))

	r := m.driver.Range()
	var s strings.Builder
	s.WriteString(headerStyle().Render(GradientText(strings.ToUpper(m.title), CurrentTheme.Primary, CurrentTheme.Accent)) + "\n")

	status := "PAUSED"
	if m.driver.Running() {
		status = "PLAYING"
	}
	s.WriteString(statusStyle(m.driver.Running()).Render(status) + "\n\n")

	yearStyle := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Text)
	s.WriteString(yearStyle.Render(fmt.Sprintf("%d", m.year)) + "\n")
	s.WriteString(Slider(m.year, r, panelWidth-6) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render(fmt.Sprintf("%-*d%*d", (panelWidth-6)/2, r.Min, panelWidth-6-(panelWidth-6)/2, r.Max)) + "\n\n")

	s.WriteString(labelStyle.Render("Built") + valueStyle.Render(fmt.Sprintf("%d of %d", len(m.visible), len(m.features)-m.unknown)) + "\n")
	s.WriteString(labelStyle.Render("No year") + valueStyle.Render(fmt.Sprintf("%d", m.unknown)) + "\n")

	if len(m.counts) > 1 {
		chart := asciigraph.Plot(m.counts, asciigraph.Height(5), asciigraph.Width(panelWidth-12), asciigraph.Caption("Built by year"))
		s.WriteString(graphStyle().Render(chart) + "\n")
	}

	s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Fresh).Bold(true).Render(fmt.Sprintf("OPENED IN %d", m.year)) + "\n")
	if len(m.fresh) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	names := make([]string, 0, len(m.fresh))
	for _, f := range m.fresh {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	for i, name := range names {
		if i == maxFresh {
			s.WriteString(valueStyle.Render(fmt.Sprintf("  +%d more", len(names)-maxFresh)) + "\n")
			break
		}
		s.WriteString(valueStyle.Render("  "+name) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render("sink: "+m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(panelWidth-6) + "\n" + keyHints("space", "play", "←→", "year", "t", "theme", "?", "help", "q", "quit")))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Play/Pause               ║
║  Left/H   - One year back            ║
║  Right/L  - One year forward         ║
║  Home/G   - First year               ║
║  End/⇧G   - Last year                ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
