package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Entry is one view offered by the menu. Open is called when the entry is
// picked, so datasets load lazily.
type Entry struct {
	Name        string
	Description string
	Open        func() (tea.Model, error)
}

// App lists the views and hands the terminal to the one picked.
type App struct {
	entries       []Entry
	cursor        int
	active        tea.Model
	err           error
	width, height int
}

func NewApp(entries []Entry) App {
	return App{entries: entries}
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
	}
	if m.active != nil {
		var cmd tea.Cmd
		m.active, cmd = m.active.Update(msg)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.entries) == 0 {
			return m, nil
		}
		return m.open(m.entries[m.cursor])
	}
	return m, nil
}

func (m App) open(e Entry) (tea.Model, tea.Cmd) {
	view, err := e.Open()
	if err != nil {
		m.err = fmt.Errorf("%s: %w", e.Name, err)
		return m, nil
	}
	m.err = nil

	cmds := []tea.Cmd{view.Init()}
	if m.width > 0 {
		var cmd tea.Cmd
		view, cmd = view.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		cmds = append(cmds, cmd)
	}
	m.active = view
	return m, tea.Batch(cmds...)
}

// Active is the open view, or nil while the menu is shown.
func (m App) Active() tea.Model { return m.active }

func (m App) View() string {
	if m.active != nil {
		return m.active.View()
	}

	var b strings.Builder
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	b.WriteString("\n\n    " + GradientText("BLRVIZ", CurrentTheme.Primary, CurrentTheme.Accent) + "\n    " + sub.Render("bengaluru map views") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, e := range m.entries {
		desc := e.Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).Render("▸"),
				lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true).Render(fmt.Sprintf("%-12s", e.Name)),
				lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", sub.Render(fmt.Sprintf("  %-12s", e.Name)), sub.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "open", "q", "quit") + "\n")
	return b.String()
}

// Run starts a full screen program for model.
func Run(model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
