package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestAppOpensEntry(t *testing.T) {
	opened := 0
	app := NewApp([]Entry{
		{Name: "broken", Description: "fails to load", Open: func() (tea.Model, error) {
			return nil, errors.New("no data")
		}},
		{Name: "feeder", Description: "metro feeder", Open: func() (tea.Model, error) {
			opened++
			return NewOverlayModel(feederLayers(), OverlayOptions{Title: "Metro feeder"}), nil
		}},
	})

	next, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = next.(App)
	if app.Active() != nil {
		t.Fatal("failing entry should not open")
	}
	if !strings.Contains(app.View(), "no data") {
		t.Error("load error not shown")
	}

	next, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = next.(App)

	if opened != 1 || app.Active() == nil {
		t.Fatal("feeder entry should be open")
	}
	if !strings.Contains(app.View(), "METRO FEEDER") {
		t.Error("active view not rendered")
	}

	next, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	if next.(App).Active().(OverlayModel).Layers()[0].Hidden != true {
		t.Error("keys should be forwarded to the active view")
	}
}

func TestAppMenu(t *testing.T) {
	app := NewApp([]Entry{{Name: "flyovers", Description: "construction timeline"}})
	view := app.View()
	if !strings.Contains(view, "flyovers") || !strings.Contains(view, "construction timeline") {
		t.Error("menu entries not listed")
	}

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}
