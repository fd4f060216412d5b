package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gyrosim/internal/config"
	"github.com/san-kum/gyrosim/internal/scene"
)

// picker lists the presets and hands the chosen one to a live Model.
type picker struct {
	presets []string
	cursor  int
	scene   scene.Options
	opts    Options
	theme   Theme

	live    *Model
	width   int
	height  int
	aborted bool
}

func newPicker(sceneOpts scene.Options, opts Options) picker {
	return picker{
		presets: config.ListPresets(),
		scene:   sceneOpts,
		opts:    opts,
		theme:   GetTheme(opts.Theme),
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m.start()
		}
	}
	return m, nil
}

func (m picker) start() (tea.Model, tea.Cmd) {
	preset := config.GetPreset(m.presets[m.cursor])
	if preset == nil {
		return m, nil
	}
	live := NewModel(scene.New(preset.Params, m.scene), m.opts)
	if m.width > 0 && m.height > 0 {
		live.resize(m.width, m.height)
	}
	m.live = &live
	return m, live.Init()
}

func (m picker) View() string {
	if m.live != nil {
		return m.live.View()
	}

	t := m.theme
	title := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.Muted)
	cursor := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	name := lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.Accent)
	key := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)

	var b strings.Builder
	b.WriteString("\n\n    " + title.Render("GYROSIM") + "\n    " + sub.Render("charged particle in a uniform field") + "\n    " + sub.Render("───────────────────────────────────") + "\n\n")
	for i, p := range m.presets {
		d := config.GetPreset(p).Description
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursor.Render("▸"), name.Render(fmt.Sprintf("%-10s", p)), desc.Render(d)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-10s", p)), sub.Render(d)))
		}
	}
	b.WriteString("\n    " + key.Render("j/k") + sub.Render(" navigate  ") + key.Render("enter") + sub.Render(" start  ") + key.Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset picker and then the live renderer for the
// chosen preset.
func RunInteractive(sceneOpts scene.Options, opts Options) error {
	_, err := tea.NewProgram(newPicker(sceneOpts, opts), tea.WithAltScreen()).Run()
	return err
}
