package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"midiplay/config"
	"midiplay/theme"
)

// RenderKeyboard draws the three octave rows of the in-game
// instrument, high octave on top.
func RenderKeyboard(layout config.KeyLayout, th *theme.Theme) string {
	label := lipgloss.NewStyle().Foreground(th.Muted())
	key := lipgloss.NewStyle().Foreground(th.Accent())

	rows := []struct {
		name string
		keys []string
	}{
		{"high", layout.High},
		{"mid ", layout.Medium},
		{"low ", layout.Low},
	}

	var lines []string
	for _, r := range rows {
		var cells []string
		for _, k := range r.keys {
			cells = append(cells, key.Render(fmt.Sprintf("[%s]", strings.ToUpper(k))))
		}
		lines = append(lines, label.Render(r.name)+" "+strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}
