package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cinesearch/internal/movies"
	"github.com/five82/cinesearch/internal/omdb"
)

// openDetail switches to the detail view and loads id.
func (m *Model) openDetail(id string) tea.Cmd {
	m.view = ViewDetail
	m.focus = focusList
	m.input.Blur()
	if id == m.detailID && m.detailErr == nil && !m.detailLoading && m.detail.IMDbID != "" {
		m.refreshDetailContent()
		return nil
	}
	m.detailID = id
	m.detail = omdb.DetailedMovie{}
	m.detailErr = nil
	m.detailViewport.GotoTop()
	if m.source == nil {
		return nil
	}
	m.detailLoading = true
	m.refreshDetailContent()
	return tea.Batch(fetchDetailCmd(m.ctx, m.source, id), m.spinner.Tick)
}

// handleDetail applies a lookup result if it is for the movie on screen.
func (m *Model) handleDetail(msg detailMsg) {
	if msg.id != m.detailID {
		return
	}
	m.detailLoading = false
	m.detail = msg.movie
	m.detailErr = msg.err
	if msg.err != nil {
		m.logger.Warn("movie lookup failed", "imdb_id", msg.id, "error", msg.err)
	}
	m.refreshDetailContent()
}

func (m *Model) openPoster(title, url string, from View) {
	m.posterTitle = title
	m.posterURL = url
	m.posterFrom = from
	m.view = ViewPoster
	m.focus = focusList
	m.input.Blur()
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		if m.view == ViewPoster {
			m.view = m.posterFrom
		} else {
			m.view = ViewSearch
		}
		return m, nil
	case m.view == ViewDetail && key.Matches(msg, m.keys.Poster):
		if m.detail.IMDbID != "" {
			m.openPoster(m.detail.Title, m.detail.Poster, ViewDetail)
		}
		return m, nil
	case m.view == ViewPoster && key.Matches(msg, m.keys.Copy):
		if !posterAvailable(m.posterURL) {
			m.notice = "No poster to copy"
			return m, nil
		}
		return m, copyCmd(m.posterURL)
	case key.Matches(msg, m.keys.Reset):
		cmd := m.reset()
		return m, cmd
	}
	if next, cmd, ok := m.handleGlobalKey(msg); ok {
		return next, cmd
	}
	if m.view == ViewDetail {
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refreshDetailContent re-renders the detail body into the viewport.
func (m *Model) refreshDetailContent() {
	if !m.ready {
		return
	}
	m.detailViewport.SetContent(m.detailContent())
}

func (m Model) detailContent() string {
	styles := m.theme.Styles()
	if m.detailLoading {
		return m.renderLoader("Loading " + m.detailID)
	}
	if m.detailErr != nil {
		return styles.DangerText.Render(detailErrorText(m.detailErr))
	}
	d := m.detail
	if d.IMDbID == "" && d.Title == "" {
		return styles.MutedText.Render("Nothing selected")
	}

	width := maxInt(m.width-4, 20)
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(d.Title))
	b.WriteString("  ")
	b.WriteString(styles.WarningText.Render(d.Year))
	b.WriteString("  ")
	b.WriteString(styles.TypeBadge(d.Type).Render(orNA(d.Type)))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Join(nonEmpty(d.Rated, d.Runtime, d.Released), " · ")))
	b.WriteString("\n\n")

	if genres := d.GenreList(); len(genres) > 0 {
		chips := make([]string, 0, len(genres))
		for _, g := range genres {
			chips = append(chips, styles.InfoText.Render("["+g+"]"))
		}
		b.WriteString(strings.Join(chips, " "))
		b.WriteString("\n\n")
	}

	if plot := strings.TrimSpace(d.Plot); plot != "" && !strings.EqualFold(plot, "N/A") {
		b.WriteString(lipgloss.NewStyle().Width(width).Render(styles.Text.Render(plot)))
		b.WriteString("\n\n")
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted)).Width(12)
	rows := []struct{ k, v string }{
		{"Director", d.Director},
		{"Writer", d.Writer},
		{"Actors", strings.Join(d.ActorList(), ", ")},
		{"Language", d.Language},
		{"Country", d.Country},
		{"Awards", d.Awards},
		{"Box office", d.BoxOffice},
		{"IMDb", imdbLine(d)},
		{"Metascore", d.Metascore},
	}
	for _, r := range rows {
		b.WriteString(label.Render(r.k))
		b.WriteString(styles.Text.Render(truncate(orNA(r.v), width-12)))
		b.WriteString("\n")
	}

	if len(d.Ratings) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render("Ratings"))
		b.WriteString("\n")
		for _, r := range d.Ratings {
			b.WriteString(label.Render(truncate(r.Source, 11)))
			b.WriteString(styles.SuccessText.Render(r.Value))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderDetail() string {
	return m.detailViewport.View()
}

// renderPoster shows the poster URL; the terminal cannot draw the image itself.
func (m Model) renderPoster(height int) string {
	styles := m.theme.Styles()
	var body string
	if posterAvailable(m.posterURL) {
		body = lipgloss.JoinVertical(lipgloss.Center,
			styles.Text.Bold(true).Render(m.posterTitle),
			"",
			styles.InfoText.Underline(true).Render(m.posterURL),
			"",
			styles.FaintText.Render("y copy · esc back"),
		)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Center,
			styles.Text.Bold(true).Render(m.posterTitle),
			"",
			styles.MutedText.Render("No poster available"),
		)
	}
	box := styles.Panel.Padding(1, 3).Render(body)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}

func posterAvailable(url string) bool {
	return omdb.SimpleMovie{Poster: url}.HasPoster()
}

func imdbLine(d omdb.DetailedMovie) string {
	if d.IMDbRating == "" || strings.EqualFold(d.IMDbRating, "N/A") {
		return ""
	}
	if d.IMDbVotes == "" || strings.EqualFold(d.IMDbVotes, "N/A") {
		return d.IMDbRating
	}
	return fmt.Sprintf("%s (%s votes)", d.IMDbRating, d.IMDbVotes)
}

func detailErrorText(err error) string {
	var apiErr *movies.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return movies.FailureMessage
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !strings.EqualFold(v, "N/A") {
			out = append(out, v)
		}
	}
	return out
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(text)}
	}
}
