package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// handleInputKey processes keys while the search box has focus. Only control
// keys act; everything else is typed into the box.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		cmd := m.submit()
		return m, cmd
	case msg.Type == tea.KeyCtrlR:
		cmd := m.reset()
		return m, cmd
	case key.Matches(msg, m.keys.LeaveInput):
		m.focus = focusList
		m.input.Blur()
		return m, nil
	case msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
		m.moveSelection(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.snapshot.InputText {
		m.store.SetInputText(v)
		m.snapshot = m.store.Snapshot()
	}
	return m, cmd
}

// handleListKey processes keys while the results list has focus.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.FocusInput):
		m.focus = focusInput
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Reset):
		cmd := m.reset()
		return m, cmd
	case key.Matches(msg, m.keys.Open):
		if movie, ok := m.selectedMovie(); ok {
			cmd := m.openDetail(movie.IMDbID)
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, m.keys.Poster):
		if movie, ok := m.selectedMovie(); ok {
			m.openPoster(movie.Title, movie.Poster, ViewSearch)
		}
		return m, nil
	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.Top, m.keys.Bottom):
		m.moveSelection(msg)
		return m, nil
	}
	if next, cmd, ok := m.handleGlobalKey(msg); ok {
		return next, cmd
	}
	return m, nil
}

func (m *Model) moveSelection(msg tea.KeyMsg) {
	n := len(m.results)
	if n == 0 {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.selected--
	case key.Matches(msg, m.keys.Down):
		m.selected++
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = n - 1
	}
	m.selected = clamp(m.selected, 0, n-1)
}

// submit commits the typed text as the search text.
func (m *Model) submit() tea.Cmd {
	text := m.input.Value()
	m.store.SetInputText(text)
	m.store.SetSearchText(text)
	return m.syncFromStore()
}

// reset restores the store's initial state and clears the view with it.
func (m *Model) reset() tea.Cmd {
	m.store.ResetMovies()
	m.view = ViewSearch
	m.focus = focusInput
	cmd := m.syncFromStore()
	return tea.Batch(cmd, m.input.Focus())
}

func (m Model) inputWidth() int {
	// box border and padding, two buttons, gaps
	return maxInt(m.width-32, 10)
}

// renderSearchBar renders the input with its Reset and Search buttons.
func (m Model) renderSearchBar() string {
	styles := m.theme.Styles()
	box := styles.Panel
	if m.focus == focusInput {
		box = styles.PanelFocus
	}
	field := box.Width(m.inputWidth() + 6).Render(m.input.View())

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		m.renderButton("Reset", false, false),
		" ",
		m.renderButton("Search", true, m.fetching),
	)
	return lipgloss.JoinHorizontal(lipgloss.Center, field, " ", buttons)
}

// renderResults renders one card per movie, or the status message when there
// are none.
func (m Model) renderResults(height int) string {
	styles := m.theme.Styles()
	if len(m.results) == 0 {
		if m.fetching {
			return m.renderLoader("Searching " + truncate(m.resultsKey, 40))
		}
		return styles.MutedText.Render(m.snapshot.Message)
	}

	lines := m.cardLines()
	visible := maxInt(height-1, 1)
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := minInt(start+visible, len(lines))

	var b strings.Builder
	b.WriteString(styles.FaintText.Render(resultsSummary(len(m.results), start, end)))
	for i := start; i < end; i++ {
		b.WriteString("\n")
		line := padRight(lines[i], m.width-2)
		if i == m.selected && m.focus == focusList {
			b.WriteString(styles.Selected.Render(line))
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

// cardLines renders the results as one line per movie: title, year and type.
func (m Model) cardLines() []string {
	styles := m.theme.Styles()
	titleWidth := maxInt(m.width-28, 12)
	out := make([]string, 0, len(m.results))
	for i, movie := range m.results {
		marker := "  "
		if i == m.selected {
			marker = "▸ "
		}
		title := padRight(truncate(movie.Title, titleWidth), titleWidth)
		line := marker +
			styles.Text.Bold(true).Render(title) + " " +
			styles.WarningText.Render(padRight(movie.Year, 10)) + " " +
			styles.TypeBadge(movie.Type).Render(orNA(movie.Type))
		out = append(out, line)
	}
	return out
}

func resultsSummary(total, start, end int) string {
	if total == 1 {
		return "1 result"
	}
	if start == 0 && end == total {
		return fmt.Sprintf("%d results", total)
	}
	return fmt.Sprintf("%d results (%d-%d)", total, start+1, end)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
