package viz

import (
	"strings"
	"testing"
	"time"

	"github.com/blrviz/blrviz/internal/atlas"
	"github.com/blrviz/blrviz/internal/render"
	"github.com/blrviz/blrviz/internal/timeline"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type frameLog struct {
	years  []int
	counts []int
}

func (l *frameLog) sink() render.Sink {
	return render.SinkFunc(func(year int, fc *geojson.FeatureCollection) error {
		l.years = append(l.years, year)
		l.counts = append(l.counts, len(fc.Features))
		return nil
	})
}

func flyovers() *atlas.Dataset {
	return atlas.NewDataset("flyovers", []atlas.Feature{
		{Name: "Hebbal Flyover", Year: 2003, Geometry: orb.LineString{{77.59, 13.03}, {77.60, 13.04}}},
		{Name: "Silk Board Flyover", Year: 0, Geometry: orb.LineString{{77.62, 12.91}, {77.63, 12.92}}},
		{Name: "Agara Flyover", Year: 2010, Geometry: orb.LineString{{77.64, 12.92}, {77.65, 12.93}}},
	})
}

func newTimeline(log *frameLog, autoplay bool) (TimelineModel, *timeline.Driver) {
	d := timeline.NewDriver(timeline.DefaultRange(), time.Millisecond)
	m := NewTimelineModel(flyovers(), d, TimelineOptions{Title: "Flyovers", Sink: log.sink(), Autoplay: autoplay})
	return m, d
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m TimelineModel, msg tea.Msg) (TimelineModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	tm, ok := next.(TimelineModel)
	if !ok {
		t.Fatalf("expected TimelineModel, got %T", next)
	}
	return tm, cmd
}

func TestTimelineInitialFrame(t *testing.T) {
	log := &frameLog{}
	m, d := newTimeline(log, false)

	if m.Year() != 2023 || d.Running() {
		t.Errorf("expected stopped at 2023, got %d running=%v", m.Year(), d.Running())
	}
	if len(m.Visible()) != 2 {
		t.Errorf("expected 2 visible flyovers, got %d", len(m.Visible()))
	}
	if len(log.years) != 1 || log.years[0] != 2023 || log.counts[0] != 2 {
		t.Errorf("expected one 2023 frame with 2 features, got %v %v", log.years, log.counts)
	}
	if m.Init() != nil {
		t.Error("Init should not schedule anything without autoplay")
	}
}

func TestTimelinePlayWraps(t *testing.T) {
	log := &frameLog{}
	m, d := newTimeline(log, false)

	m, cmd := update(t, m, key(" "))
	if !d.Running() || cmd == nil {
		t.Fatal("space should start playback")
	}

	m, cmd = update(t, m, cmd())
	if m.Year() != 1998 {
		t.Errorf("expected wrap to 1998, got %d", m.Year())
	}
	if len(m.Visible()) != 0 {
		t.Errorf("nothing is built by 1998, got %d", len(m.Visible()))
	}
	if cmd == nil {
		t.Error("expected the next tick")
	}
	if got := log.years[len(log.years)-1]; got != 1998 {
		t.Errorf("sink did not receive 1998, last frame %d", got)
	}
}

func TestTimelineStaleTickAfterScrub(t *testing.T) {
	log := &frameLog{}
	m, d := newTimeline(log, false)

	m, cmd := update(t, m, key(" "))
	pending := cmd()

	m, _ = update(t, m, key("left"))
	if d.Running() {
		t.Fatal("scrubbing should stop playback")
	}
	if m.Year() != 2022 {
		t.Fatalf("expected 2022, got %d", m.Year())
	}

	frames := len(log.years)
	m, cmd = update(t, m, pending)
	if m.Year() != 2022 {
		t.Errorf("stale tick moved the year to %d", m.Year())
	}
	if cmd != nil {
		t.Error("stale tick must not schedule another")
	}
	if len(log.years) != frames {
		t.Error("stale tick must not render a frame")
	}
}

func TestTimelineHomeEnd(t *testing.T) {
	log := &frameLog{}
	m, _ := newTimeline(log, false)

	m, _ = update(t, m, key("home"))
	if m.Year() != 1998 {
		t.Errorf("expected 1998, got %d", m.Year())
	}
	m, _ = update(t, m, key("left"))
	if m.Year() != 1998 {
		t.Errorf("scrub should clamp at 1998, got %d", m.Year())
	}
	m, _ = update(t, m, key("G"))
	if m.Year() != 2023 {
		t.Errorf("expected 2023, got %d", m.Year())
	}
}

func TestTimelineQuitClosesDriver(t *testing.T) {
	m, d := newTimeline(&frameLog{}, true)

	if cmd := m.Init(); cmd == nil || !d.Running() {
		t.Fatal("autoplay should start the driver")
	}

	_, cmd := update(t, m, key("q"))
	if d.Running() {
		t.Error("quit should stop the driver")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestTimelineView(t *testing.T) {
	m, _ := newTimeline(&frameLog{}, false)

	view := m.View()
	for _, want := range []string{"2023", "PAUSED", "OPENED IN 2023", "1998"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	m, _ = update(t, m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay not shown")
	}
}

func TestTimelineOpenedThisYear(t *testing.T) {
	m, _ := newTimeline(&frameLog{}, false)
	for m.Year() != 2010 {
		m, _ = update(t, m, key("left"))
	}
	if !strings.Contains(m.View(), "Agara Flyover") {
		t.Error("flyover opened in 2010 should be listed")
	}
	if len(m.Visible()) != 2 {
		t.Errorf("expected 2 visible in 2010, got %d", len(m.Visible()))
	}
}
