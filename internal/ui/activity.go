package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cinesearch/internal/logtail"
)

const activityLines = 200

type activityState struct {
	open  bool
	lines []string
	err   error
}

type activityMsg struct {
	lines []string
	err   error
}

func readActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return activityMsg{}
		}
		lines, err := logtail.Read(path, activityLines)
		return activityMsg{lines: lines, err: err}
	}
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, readActivityCmd(m.logPath)
	case key.Matches(msg, m.keys.Back, m.keys.Activity, m.keys.Quit):
		m.activity.open = false
	}
	return m, nil
}

// renderActivity shows the tail of the client log, newest at the bottom.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Activity"))
	if m.logPath != "" {
		b.WriteString("  ")
		b.WriteString(styles.FaintText.Render(truncate(m.logPath, maxInt(m.width-14, 10))))
	}
	b.WriteString("\n\n")

	visible := maxInt(m.height-4, 1)
	switch {
	case m.activity.err != nil:
		b.WriteString(styles.DangerText.Render(m.activity.err.Error()))
	case m.logPath == "":
		b.WriteString(styles.MutedText.Render("Logging to a file is disabled"))
	case len(m.activity.lines) == 0:
		b.WriteString(styles.MutedText.Render("No activity yet"))
	default:
		lines := m.activity.lines
		if len(lines) > visible {
			lines = lines[len(lines)-visible:]
		}
		for i, line := range lines {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(m.activityLine(line))
		}
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(0, 1).
		Render(b.String())
}

func (m Model) activityLine(line string) string {
	styles := m.theme.Styles()
	level := logtail.ParseLevel(line)
	text := truncate(logtail.Message(line), maxInt(m.width-10, 10))
	var badge lipgloss.Style
	switch level {
	case logtail.LevelError:
		badge = styles.DangerText
	case logtail.LevelWarn:
		badge = styles.WarningText
	case logtail.LevelDebug:
		badge = styles.FaintText
	default:
		badge = styles.InfoText
	}
	label := string(level)
	if label == "" {
		label = "-"
	}
	return badge.Render(padRight(label, 6)) + styles.Text.Render(text)
}
