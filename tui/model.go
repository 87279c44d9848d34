package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"midiplay/config"
	"midiplay/mapper"
	"midiplay/midi"
	"midiplay/player"
	"midiplay/theme"
	"midiplay/widgets"
)

type Model struct {
	Engine *player.Engine
	Config *config.Config
	Theme  *theme.Theme

	file     *midi.File
	path     string
	status   string
	quitting bool
}

type tickMsg time.Time

type fileLoadedMsg struct {
	file *midi.File
	path string
}

type loadErrMsg struct {
	path string
	err  error
}

func NewModel(engine *player.Engine, cfg *config.Config, th *theme.Theme, path string) Model {
	return Model{
		Engine: engine,
		Config: cfg,
		Theme:  th,
		path:   path,
	}
}

func loadFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := midi.Load(path)
		if err != nil {
			return loadErrMsg{path: path, err: err}
		}
		return fileLoadedMsg{file: f, path: path}
	}
}

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.path != "" {
		cmds = append(cmds, loadFileCmd(m.path))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Engine.Stop()
			return m, tea.Quit

		case m.Config.Hotkeys.PlayPause, " ":
			m.togglePlayback()

		case m.Config.Hotkeys.Stop, "s":
			m.Engine.Stop()
			m.status = "stopped"

		case "+", "=":
			m.Config.TempoFactor += 0.1
			m.status = fmt.Sprintf("tempo factor %.1f", m.Config.TempoFactor)

		case "-", "_":
			if m.Config.TempoFactor > 0.15 {
				m.Config.TempoFactor -= 0.1
			}
			m.status = fmt.Sprintf("tempo factor %.1f", m.Config.TempoFactor)

		case "]":
			if m.Config.Transpose < 24 {
				m.Config.Transpose++
			}
			m.status = fmt.Sprintf("transpose %+d", m.Config.Transpose)

		case "[":
			if m.Config.Transpose > -24 {
				m.Config.Transpose--
			}
			m.status = fmt.Sprintf("transpose %+d", m.Config.Transpose)

		case "t":
			if m.file != nil {
				m.Config.Transpose = mapper.SuggestTranspose(m.file.Pitches(), m.Config.ReferenceNote)
				m.status = fmt.Sprintf("suggested transpose %+d", m.Config.Transpose)
			}

		case "w":
			if err := m.Config.Save(); err != nil {
				m.status = fmt.Sprintf("save failed: %v", err)
			} else {
				m.status = "config saved"
			}
		}

	case fileLoadedMsg:
		m.file = msg.file
		m.path = msg.path
		m.status = fmt.Sprintf("loaded %s", msg.path)

	case loadErrMsg:
		m.status = fmt.Sprintf("load %s: %v", msg.path, msg.err)

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

func (m *Model) togglePlayback() {
	switch {
	case m.Engine.IsPlaying():
		m.Engine.Pause()
		if m.Engine.IsPaused() {
			m.status = "paused"
		} else {
			m.status = "playing"
		}
	case m.file != nil:
		m.Engine.Start(m.file, m.Config.Clone())
		m.status = "playing"
	default:
		m.status = "no file loaded"
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())

	playState := "STOP"
	if m.Engine.IsPlaying() {
		playState = "PLAY"
		if m.Engine.IsPaused() {
			playState = "PAUSE"
		}
	}

	header := headerStyle.Render(fmt.Sprintf("midiplay  %s  x%.1f  %+dst", playState, m.Config.TempoFactor, m.Config.Transpose))

	var summary string
	if m.file != nil {
		s := m.file.Summary
		summary = dimStyle.Render(fmt.Sprintf("%s  %d tracks  %d notes  %s",
			m.path, s.TrackCount, s.NoteCount, formatDuration(s.DurationMs)))
	} else {
		summary = dimStyle.Render("no file loaded")
	}

	settings := dimStyle.Render(fmt.Sprintf("ref:%d  polyphony:%d  delay:%dms",
		m.Config.ReferenceNote, m.Config.MaxPolyphony, m.Config.StartDelayMs))

	keyboard := widgets.RenderKeyboard(m.Config.KeyLayout, m.Theme)

	help := widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: m.Config.Hotkeys.PlayPause + "/space", Desc: "play/pause"},
			{Key: m.Config.Hotkeys.Stop + "/s", Desc: "stop"},
			{Key: "+/-", Desc: "tempo factor"},
			{Key: "[/]", Desc: "transpose"},
			{Key: "t", Desc: "suggest transpose"},
			{Key: "w", Desc: "save config"},
			{Key: "q", Desc: "quit"},
		}},
	})

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(summary)
	out.WriteString("\n")
	out.WriteString(settings)
	out.WriteString("\n\n")
	out.WriteString(keyboard)
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(help))
	if m.status != "" {
		out.WriteString("\n\n")
		out.WriteString(statusStyle.Render(m.status))
	}
	out.WriteString("\n")

	return out.String()
}

func formatDuration(ms uint64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
