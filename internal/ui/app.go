package ui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/cinesearch/internal/omdb"
	"github.com/five82/cinesearch/internal/prefs"
	"github.com/five82/cinesearch/internal/state"
)

// SampleMovieID is the title behind the header's Sample Movie menu.
const SampleMovieID = "tt4520988"

// View represents the current active view.
type View int

const (
	ViewSearch View = iota
	ViewDetail
	ViewPoster
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// MovieSource is what the UI needs from the movie search.
// *movies.Searcher implements it.
type MovieSource interface {
	MoviesFor(ctx context.Context, text string) ([]omdb.SimpleMovie, error)
	Movie(ctx context.Context, imdbID string) (omdb.DetailedMovie, error)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Source    MovieSource
	ThemeName string
	PrefsPath string
	LogPath   string
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	source    MovieSource
	prefsPath string
	logPath   string
	logger    *slog.Logger
	keys      keyMap

	theme  Theme
	view   View
	focus  focusArea
	width  int
	height int
	ready  bool

	// Search state mirrored from the store on this goroutine.
	snapshot   state.SearchState
	input      textinput.Model
	spinner    spinner.Model
	resultsKey string
	results    []omdb.SimpleMovie
	fetchErr   error
	fetching   bool
	selected   int

	// Detail and poster views
	detailID       string
	detail         omdb.DetailedMovie
	detailErr      error
	detailLoading  bool
	detailViewport viewport.Model
	posterTitle    string
	posterURL      string
	posterFrom     View

	proxyErr  error
	proxySeen bool
	notice    string
	showHelp  bool
	activity  activityState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = state.New("")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}

	input := textinput.New()
	input.Placeholder = "Search for a movie"
	input.Prompt = "🔍 "
	input.CharLimit = 120
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		store:     store,
		source:    opts.Source,
		prefsPath: opts.PrefsPath,
		logPath:   opts.LogPath,
		logger:    logger,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		view:      ViewSearch,
		focus:     focusInput,
		input:     input,
		spinner:   spin,
	}
	m.snapshot = store.Snapshot()
	m.input.SetValue(m.snapshot.InputText)
	m.resultsKey = m.snapshot.SearchText
	// A search committed before the UI started still needs its results.
	m.fetching = m.source != nil && strings.TrimSpace(m.resultsKey) != ""
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if !m.fetching {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, fetchMoviesCmd(m.ctx, m.source, m.resultsKey), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.inputWidth()
		if !m.ready {
			m.detailViewport = viewport.New(m.width, m.bodyHeight())
		} else {
			m.detailViewport.Width = m.width
			m.detailViewport.Height = m.bodyHeight()
		}
		m.ready = true
		m.refreshDetailContent()
		return m, nil

	case StoreChangedMsg:
		return m, m.syncFromStore()

	case moviesMsg:
		m.handleMovies(msg)
		return m, nil

	case detailMsg:
		m.handleDetail(msg)
		return m, nil

	case ProxyStatusMsg:
		m.proxySeen = true
		m.proxyErr = msg.Err
		return m, nil

	case activityMsg:
		m.activity.lines = msg.lines
		m.activity.err = msg.err
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.notice = "Clipboard unavailable: " + msg.err.Error()
		} else {
			m.notice = "Poster URL copied"
		}
		return m, nil

	case spinner.TickMsg:
		if !m.fetching && !m.detailLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == focusInput && m.view == ViewSearch {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.activity.open {
		return m.renderActivity()
	}
	return m.renderMain()
}

// handleKey routes keyboard input: overlays first, then the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.activity.open {
		return m.handleActivityKey(msg)
	}
	m.notice = ""

	switch m.view {
	case ViewDetail, ViewPoster:
		return m.handleDetailKey(msg)
	}
	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

// handleGlobalKey covers keys shared by every view outside the search box.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil, true
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil, true
	case key.Matches(msg, m.keys.Activity):
		m.activity.open = true
		return m, readActivityCmd(m.logPath), true
	case key.Matches(msg, m.keys.MenuSearch):
		m.view = ViewSearch
		return m, nil, true
	case key.Matches(msg, m.keys.MenuSample):
		cmd := m.openDetail(SampleMovieID)
		return m, cmd, true
	}
	return m, nil, false
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
		m.logger.Warn("save prefs failed", "error", err)
	}
}

// syncFromStore mirrors the store into the model and starts a fetch when the
// committed search text moved to a new key.
func (m *Model) syncFromStore() tea.Cmd {
	st := m.store.Snapshot()
	m.snapshot = st
	if m.input.Value() != st.InputText {
		m.input.SetValue(st.InputText)
	}
	if st.SearchText == m.resultsKey {
		return nil
	}
	m.resultsKey = st.SearchText
	m.results = nil
	m.fetchErr = nil
	m.selected = 0
	if strings.TrimSpace(st.SearchText) == "" {
		m.fetching = false
		return nil
	}
	return m.startSearch(st.SearchText)
}

func (m *Model) startSearch(text string) tea.Cmd {
	if m.source == nil {
		return nil
	}
	m.fetching = true
	return tea.Batch(fetchMoviesCmd(m.ctx, m.source, text), m.spinner.Tick)
}

// handleMovies applies a result only if it belongs to the current committed text.
func (m *Model) handleMovies(msg moviesMsg) {
	if msg.key != m.resultsKey {
		m.logger.Debug("ignoring superseded result", "key", msg.key, "current", m.resultsKey)
		return
	}
	m.fetching = false
	m.snapshot = m.store.Snapshot()
	if msg.err != nil {
		m.results = nil
		m.fetchErr = msg.err
		return
	}
	m.results = msg.movies
	m.fetchErr = nil
	m.selected = clamp(m.selected, 0, maxInt(len(m.results)-1, 0))
}

func (m Model) selectedMovie() (omdb.SimpleMovie, bool) {
	if m.selected < 0 || m.selected >= len(m.results) {
		return omdb.SimpleMovie{}, false
	}
	return m.results[m.selected], true
}

func (m Model) bodyHeight() int {
	// header, blank, footer
	return maxInt(m.height-3, 1)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Messages

// StoreChangedMsg tells the model the store changed outside Update.
type StoreChangedMsg struct{}

// ProxyStatusMsg reports the latest proxy health check.
type ProxyStatusMsg struct {
	Err error
}

type moviesMsg struct {
	key    string
	movies []omdb.SimpleMovie
	err    error
}

type detailMsg struct {
	id    string
	movie omdb.DetailedMovie
	err   error
}

type clipboardMsg struct {
	err error
}

// Commands

func fetchMoviesCmd(ctx context.Context, source MovieSource, text string) tea.Cmd {
	return func() tea.Msg {
		found, err := source.MoviesFor(ctx, text)
		return moviesMsg{key: text, movies: found, err: err}
	}
}

func fetchDetailCmd(ctx context.Context, source MovieSource, id string) tea.Cmd {
	return func() tea.Msg {
		movie, err := source.Movie(ctx, id)
		return detailMsg{id: id, movie: movie, err: err}
	}
}

// NewProgram builds the Bubble Tea program for opts.
func NewProgram(opts Options) *tea.Program {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
}
