package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Playing lipgloss.Color
	Paused  lipgloss.Color
	// Feature is the default colour of drawn geometry.
	Feature lipgloss.Color
	// Fresh highlights features that opened in the current year.
	Fresh lipgloss.Color
}

// Available themes
var (
	ThemeStreets = Theme{
		Name:    "streets",
		Primary: lipgloss.Color("#4264fb"),
		Accent:  lipgloss.Color("#ffd166"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Playing: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffaa00"),
		Feature: lipgloss.Color("#4264fb"),
		Fresh:   lipgloss.Color("#ff5c8a"),
	}

	ThemeNight = Theme{
		Name:    "night",
		Primary: lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Playing: lipgloss.Color("#00ff00"),
		Paused:  lipgloss.Color("#ff8800"),
		Feature: lipgloss.Color("#00ccff"),
		Fresh:   lipgloss.Color("#ffff00"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"), // Green phosphor
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Playing: lipgloss.Color("#88ff88"),
		Paused:  lipgloss.Color("#ffff00"),
		Feature: lipgloss.Color("#00cc00"),
		Fresh:   lipgloss.Color("#ccffcc"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Playing: lipgloss.Color("#ffffff"),
		Paused:  lipgloss.Color("#888888"),
		Feature: lipgloss.Color("#cccccc"),
		Fresh:   lipgloss.Color("#0088ff"),
	}

	// Default theme
	CurrentTheme = ThemeStreets

	// All available themes
	Themes = []Theme{
		ThemeStreets,
		ThemeNight,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeStreets
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
	SetTheme(names[0])
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
