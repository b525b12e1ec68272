package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	barStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(barStyle.Render(m.renderBar()))
	b.WriteString("\n")
	if m.lastErr != "" {
		b.WriteString(errStyle.Render("error: " + m.lastErr))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(helpLine))
	return b.String()
}

const helpLine = "space play/pause · n/p fade skip · N/P cut skip · s shuffle · l loop · +/- crossfade · arrows seek/volume · q quit"

func (m Model) renderBar() string {
	icon := "⏹"
	if m.total > 0 {
		if m.playing {
			icon = "▶"
		} else {
			icon = "⏸"
		}
	}

	title := m.title
	if title == "" {
		title = "nothing loaded"
	}
	maxTitle := m.width - 40
	if maxTitle < 16 {
		maxTitle = 16
	}
	title = runewidth.Truncate(title, maxTitle, "...")

	counter := ""
	if m.total > 0 {
		counter = fmt.Sprintf(" [%d/%d]", m.index+1, m.total)
	}

	flags := m.renderFlags()

	return fmt.Sprintf("%s %s%s  %s/%s%s",
		icon, title, counter,
		fmtDuration(m.position), fmtDuration(m.duration), flags)
}

func (m Model) renderFlags() string {
	var flags []string
	if m.engine.Shuffle() {
		flags = append(flags, "shuffle")
	}
	if mode := m.engine.LoopMode(); mode.String() != "Off" {
		flags = append(flags, "loop:"+mode.String())
	}
	if m.crossfade > 0 {
		flags = append(flags, fmt.Sprintf("fade:%ds", m.crossfade))
	}
	if len(flags) == 0 {
		return ""
	}
	return "  [" + strings.Join(flags, " ") + "]"
}

// fmtDuration renders a duration as m:ss (or h:mm:ss past the hour).
func fmtDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	h := total / 3600
	min := (total % 3600) / 60
	sec := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
	}
	return fmt.Sprintf("%d:%02d", min, sec)
}
