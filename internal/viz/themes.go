package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a colour scheme for the terminal renderer. Trail colours run from
// oldest to newest.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Axis      lipgloss.Color
	Trail     []lipgloss.Color
	Particle  lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Warning:   lipgloss.Color("#ff8800"),
		Error:     lipgloss.Color("#ff0044"),
		Axis:      lipgloss.Color("#333355"),
		Trail:     []lipgloss.Color{"#2a004a", "#55008f", "#8a00c9", "#c400ff", "#ff40ff"},
		Particle:  lipgloss.Color("#ffff00"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#33ff33"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#66ff66"),
		Text:      lipgloss.Color("#33ff33"),
		Muted:     lipgloss.Color("#116611"),
		Warning:   lipgloss.Color("#ccff00"),
		Error:     lipgloss.Color("#ff3333"),
		Axis:      lipgloss.Color("#0a330a"),
		Trail:     []lipgloss.Color{"#0b3d0b", "#145c14", "#1f8a1f", "#29b829", "#33ff33"},
		Particle:  lipgloss.Color("#ccffcc"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#00b4d8"),
		Secondary: lipgloss.Color("#90e0ef"),
		Accent:    lipgloss.Color("#caf0f8"),
		Text:      lipgloss.Color("#e0fbfc"),
		Muted:     lipgloss.Color("#3d5a80"),
		Warning:   lipgloss.Color("#ffb703"),
		Error:     lipgloss.Color("#ef476f"),
		Axis:      lipgloss.Color("#1b263b"),
		Trail:     []lipgloss.Color{"#03045e", "#023e8a", "#0077b6", "#0096c7", "#48cae4"},
		Particle:  lipgloss.Color("#ffffff"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5e6"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Warning:   lipgloss.Color("#ffc048"),
		Error:     lipgloss.Color("#ff4757"),
		Axis:      lipgloss.Color("#3b2a3c"),
		Trail:     []lipgloss.Color{"#4a1942", "#893168", "#c94b4b", "#ee7752", "#feca57"},
		Particle:  lipgloss.Color("#ffffff"),
	}

	Themes = []Theme{ThemeCyberpunk, ThemeRetroGreen, ThemeOcean, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// Drawing levels: 0 is empty, then the axes, then one per trail colour, then
// the particle.
const levelAxis uint8 = 1

func levelTrail(i, n, colours int) uint8 {
	if n <= 1 {
		return uint8(1 + colours)
	}
	return uint8(2 + i*colours/n)
}

func levelParticle(colours int) uint8 { return uint8(2 + colours) }

type styles struct {
	levels   []lipgloss.Style
	title    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	active   lipgloss.Style
	muted    lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	rec      lipgloss.Style
	warn     lipgloss.Style
	panel    lipgloss.Style
	graph    lipgloss.Style
	helpBox  lipgloss.Style
	canvasBx lipgloss.Style
}

func newStyles(t Theme) styles {
	levels := []lipgloss.Style{
		lipgloss.NewStyle().Foreground(t.Muted),
		lipgloss.NewStyle().Foreground(t.Axis),
	}
	for _, c := range t.Trail {
		levels = append(levels, lipgloss.NewStyle().Foreground(c))
	}
	levels = append(levels, lipgloss.NewStyle().Foreground(t.Particle).Bold(true))

	return styles{
		levels:   levels,
		title:    lipgloss.NewStyle().Foreground(t.Secondary).Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(11),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		active:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(t.Muted),
		running:  lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		paused:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		rec:      lipgloss.NewStyle().Foreground(t.Error).Bold(true).Blink(true),
		warn:     lipgloss.NewStyle().Foreground(t.Warning),
		panel:    lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(0, 2).Width(panelWidth),
		graph:    lipgloss.NewStyle().Foreground(t.Accent),
		helpBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Primary).Padding(0, 2),
		canvasBx: lipgloss.NewStyle().Padding(0, 1),
	}
}
