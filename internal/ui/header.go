package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const (
	logoText  = "OMDbAPI .COM"
	menuMain  = "🔍 Search"
	menuDemo  = "📽️ Sample Movie"
	headline1 = "OMDb API"
	headline2 = "THE OPEN"
	headline3 = "MOVIE DATABASE"
)

// renderHeader renders the bar with the logo, the menus and proxy status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	searchStyle, sampleStyle := styles.MutedText, styles.MutedText
	if m.view == ViewSearch {
		searchStyle = styles.AccentText.Bold(true)
	} else if m.detailID == SampleMovieID {
		sampleStyle = styles.AccentText.Bold(true)
	}

	left := bg.Join([]string{
		bg.Render(logoText, styles.Logo),
		bg.Render(menuMain, searchStyle),
		bg.Render(menuDemo, sampleStyle),
	}, "   ")
	right := m.proxyStatus(styles, bg)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	content := left + bg.Spaces(gap) + right
	return styles.Header.Width(m.width).Render(content)
}

func (m Model) proxyStatus(styles Styles, bg BgStyle) string {
	switch {
	case !m.proxySeen:
		return bg.Render("proxy …", styles.FaintText)
	case m.proxyErr != nil:
		return bg.Render("proxy offline", styles.DangerText)
	default:
		return bg.Render("proxy online", styles.SuccessText)
	}
}

// renderHeadline is the banner shown above the search bar.
func (m Model) renderHeadline() string {
	styles := m.theme.Styles()
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Logo.Render(headline1),
		styles.MutedText.Render(headline2),
		styles.MutedText.Render(headline3),
	)
}

// renderMain lays out header, body and footer for the active view.
func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	height := maxInt(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	var body string
	switch m.view {
	case ViewDetail:
		body = m.renderDetail()
	case ViewPoster:
		body = m.renderPoster(height)
	default:
		top := lipgloss.JoinVertical(lipgloss.Left, m.renderHeadline(), "", m.renderSearchBar(), "")
		body = top + "\n" + m.renderResults(height-lipgloss.Height(top)-1)
	}
	body = lipgloss.NewStyle().Height(height).MaxHeight(height).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.notice != "" {
		return styles.InfoText.Render(m.notice)
	}
	var parts []string
	for _, b := range m.footerBindings() {
		h := b.Help()
		parts = append(parts, styles.WarningText.Render(h.Key)+" "+styles.FaintText.Render(h.Desc))
	}
	return truncateStyled(strings.Join(parts, "  "), m.width)
}

func (m Model) footerBindings() []key.Binding {
	switch m.view {
	case ViewDetail:
		return []key.Binding{m.keys.Back, m.keys.Poster, m.keys.Reset, m.keys.Help, m.keys.Quit}
	case ViewPoster:
		return []key.Binding{m.keys.Back, m.keys.Copy, m.keys.Help, m.keys.Quit}
	}
	if m.focus == focusInput {
		return []key.Binding{m.keys.Submit, m.keys.LeaveInput, m.keys.ForceQuit}
	}
	return m.keys.ShortHelp()
}

func truncateStyled(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
