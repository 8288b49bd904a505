package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/cinesearch/internal/logging"
	"github.com/five82/cinesearch/internal/movies"
	"github.com/five82/cinesearch/internal/omdb"
	"github.com/five82/cinesearch/internal/prefs"
	"github.com/five82/cinesearch/internal/state"
)

type fakeSource struct {
	movies map[string][]omdb.SimpleMovie
	detail map[string]omdb.DetailedMovie
	err    error
}

func (f *fakeSource) MoviesFor(_ context.Context, text string) ([]omdb.SimpleMovie, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.movies[text], nil
}

func (f *fakeSource) Movie(_ context.Context, id string) (omdb.DetailedMovie, error) {
	if f.err != nil {
		return omdb.DetailedMovie{}, f.err
	}
	return f.detail[id], nil
}

type fakeFetcher struct {
	search omdb.SearchResponse
}

func (f fakeFetcher) SearchMovies(context.Context, string) (omdb.SearchResponse, error) {
	return f.search, nil
}

func (f fakeFetcher) MovieDetail(context.Context, string) (omdb.DetailedMovie, error) {
	return omdb.DetailedMovie{Response: omdb.ResponseFalse, Error: "Incorrect IMDb ID."}, nil
}

func batmanMovies() []omdb.SimpleMovie {
	return []omdb.SimpleMovie{
		{Title: "Batman Begins", Year: "2005", IMDbID: "tt0372784", Type: "movie", Poster: "https://example.com/begins.jpg"},
		{Title: "The Batman", Year: "2022", IMDbID: "tt1877830", Type: "movie", Poster: "N/A"},
	}
}

func newTestModel(t *testing.T, store *state.Store, src MovieSource) Model {
	t.Helper()
	m := New(Options{
		Store:     store,
		Source:    src,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Logger:    logging.Discard(),
	})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSubmitShowsResults(t *testing.T) {
	store := state.New("")
	src := &fakeSource{movies: map[string][]omdb.SimpleMovie{"batman": batmanMovies()}}
	m := newTestModel(t, store, src)

	m = typeText(t, m, "batman")
	if got := store.Snapshot().InputText; got != "batman" {
		t.Fatalf("InputText = %q, want batman", got)
	}
	if got := store.Snapshot().SearchText; got != "" {
		t.Fatalf("SearchText before submit = %q, want empty", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := store.Snapshot().SearchText; got != "batman" {
		t.Fatalf("SearchText = %q, want batman", got)
	}
	if !m.fetching {
		t.Fatalf("expected fetching after submit")
	}

	m = update(t, m, fetchMoviesCmd(context.Background(), src, "batman")())
	if m.fetching {
		t.Fatalf("expected fetch to finish")
	}
	view := m.View()
	for _, want := range []string{"Batman Begins", "2005", "The Batman", "2022", "2 results"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, state.DefaultMessage) {
		t.Fatalf("message should be hidden while results are listed")
	}
}

func TestSupersededResultIgnored(t *testing.T) {
	store := state.New("")
	src := &fakeSource{}
	m := newTestModel(t, store, src)

	m = typeText(t, m, "new")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, moviesMsg{key: "old", movies: batmanMovies()})

	if len(m.results) != 0 {
		t.Fatalf("results = %d, want 0 for superseded key", len(m.results))
	}
	if !m.fetching {
		t.Fatalf("superseded result must not end the current fetch")
	}
}

func TestNotFoundShowsMessage(t *testing.T) {
	store := state.New("")
	searcher := movies.NewSearcher(store, fakeFetcher{
		search: omdb.SearchResponse{Response: omdb.ResponseFalse, Error: "Movie not found!"},
	}, movies.Options{RetryDelay: time.Millisecond, Logger: logging.Discard()})
	m := newTestModel(t, store, searcher)

	m = typeText(t, m, "zzzzqqq")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, fetchMoviesCmd(context.Background(), searcher, "zzzzqqq")())

	if got := store.Snapshot().Message; got != "Movie not found!" {
		t.Fatalf("Message = %q, want Movie not found!", got)
	}
	if !strings.Contains(m.View(), "Movie not found!") {
		t.Fatalf("view should show the API error:\n%s", m.View())
	}
}

func TestTransportFailureShowsFailureMessage(t *testing.T) {
	store := state.New("")
	src := &fakeSource{err: errors.New("connection refused")}
	m := newTestModel(t, store, src)

	m = typeText(t, m, "batman")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	// The searcher reports into the store; mimic it before the result lands.
	store.SetMessage(movies.FailureMessage)
	m = update(t, m, fetchMoviesCmd(context.Background(), src, "batman")())

	if m.fetchErr == nil {
		t.Fatalf("expected fetch error")
	}
	if !strings.Contains(m.View(), movies.FailureMessage) {
		t.Fatalf("view should show failure message:\n%s", m.View())
	}
}

func TestResetRestoresPrompt(t *testing.T) {
	store := state.New("")
	src := &fakeSource{movies: map[string][]omdb.SimpleMovie{"batman": batmanMovies()}}
	m := newTestModel(t, store, src)

	m = typeText(t, m, "batman")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, fetchMoviesCmd(context.Background(), src, "batman")())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if got := store.Snapshot(); got != store.Initial() {
		t.Fatalf("store = %+v, want initial %+v", got, store.Initial())
	}
	if m.input.Value() != "" {
		t.Fatalf("input = %q, want empty", m.input.Value())
	}
	if len(m.results) != 0 || m.fetching {
		t.Fatalf("results = %d fetching = %v after reset", len(m.results), m.fetching)
	}
	if !strings.Contains(m.View(), state.DefaultMessage) {
		t.Fatalf("view should show the prompt after reset:\n%s", m.View())
	}
}

func TestListNavigationAndDetail(t *testing.T) {
	store := state.New("")
	src := &fakeSource{
		movies: map[string][]omdb.SimpleMovie{"batman": batmanMovies()},
		detail: map[string]omdb.DetailedMovie{
			"tt1877830": {Title: "The Batman", Year: "2022", IMDbID: "tt1877830", Genre: "Action, Crime", Director: "Matt Reeves", Response: omdb.ResponseTrue},
		},
	}
	m := newTestModel(t, store, src)
	m = typeText(t, m, "batman")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, fetchMoviesCmd(context.Background(), src, "batman")())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != focusList {
		t.Fatalf("focus = %v, want list", m.focus)
	}
	m = update(t, m, runes("j"))
	if m.selected != 1 {
		t.Fatalf("selected = %d, want 1", m.selected)
	}
	m = update(t, m, runes("j"))
	if m.selected != 1 {
		t.Fatalf("selection must stop at the last row, got %d", m.selected)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != ViewDetail || m.detailID != "tt1877830" || !m.detailLoading {
		t.Fatalf("view = %v id = %q loading = %v", m.view, m.detailID, m.detailLoading)
	}

	// A late answer for another movie is dropped.
	m = update(t, m, detailMsg{id: "tt0372784", movie: omdb.DetailedMovie{Title: "Batman Begins"}})
	if !m.detailLoading {
		t.Fatalf("unrelated detail should not finish loading")
	}

	m = update(t, m, fetchDetailCmd(context.Background(), src, "tt1877830")())
	view := m.View()
	for _, want := range []string{"The Batman", "Matt Reeves", "[Action]", "[Crime]"} {
		if !strings.Contains(view, want) {
			t.Fatalf("detail missing %q:\n%s", want, view)
		}
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != ViewSearch {
		t.Fatalf("view = %v after back, want search", m.view)
	}
}

func TestDetailLookupError(t *testing.T) {
	store := state.New("")
	searcher := movies.NewSearcher(store, fakeFetcher{}, movies.Options{RetryDelay: time.Millisecond, Logger: logging.Discard()})
	m := newTestModel(t, store, searcher)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m = update(t, m, runes("2"))
	if m.view != ViewDetail || m.detailID != SampleMovieID {
		t.Fatalf("sample menu should open %s, got view %v id %q", SampleMovieID, m.view, m.detailID)
	}
	m = update(t, m, fetchDetailCmd(context.Background(), searcher, SampleMovieID)())
	if !strings.Contains(m.View(), "Incorrect IMDb ID.") {
		t.Fatalf("view should show lookup error:\n%s", m.View())
	}
}

func TestPosterView(t *testing.T) {
	store := state.New("")
	src := &fakeSource{movies: map[string][]omdb.SimpleMovie{"batman": batmanMovies()}}
	m := newTestModel(t, store, src)
	m = typeText(t, m, "batman")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, fetchMoviesCmd(context.Background(), src, "batman")())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m = update(t, m, runes("v"))
	if m.view != ViewPoster {
		t.Fatalf("view = %v, want poster", m.view)
	}
	if !strings.Contains(m.View(), "https://example.com/begins.jpg") {
		t.Fatalf("poster view missing URL:\n%s", m.View())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = update(t, m, runes("j"))
	m = update(t, m, runes("v"))
	if !strings.Contains(m.View(), "No poster available") {
		t.Fatalf("poster view should report a missing poster:\n%s", m.View())
	}
	m = update(t, m, runes("y"))
	if m.notice != "No poster to copy" {
		t.Fatalf("notice = %q", m.notice)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, state.New(""), nil)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = update(t, m, runes("?"))
	if !m.showHelp {
		t.Fatalf("expected help to open")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not rendered")
	}
	m = update(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{Store: state.New(""), PrefsPath: path, Logger: logging.Discard()})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m = update(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if got := prefs.Load(path).Theme; got != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", got)
	}
}

func TestStoreChangedSyncsMessage(t *testing.T) {
	store := state.New("")
	m := newTestModel(t, store, &fakeSource{})

	store.SetMessage("Too many results.")
	m = update(t, m, StoreChangedMsg{})
	if !strings.Contains(m.View(), "Too many results.") {
		t.Fatalf("view should reflect store message:\n%s", m.View())
	}
}

func TestProxyStatusInHeader(t *testing.T) {
	m := newTestModel(t, state.New(""), nil)
	m = update(t, m, ProxyStatusMsg{Err: errors.New("dial tcp: refused")})
	if !strings.Contains(m.View(), "proxy offline") {
		t.Fatalf("header should report offline proxy")
	}
	m = update(t, m, ProxyStatusMsg{})
	if !strings.Contains(m.View(), "proxy online") {
		t.Fatalf("header should report online proxy")
	}
}

func TestActivityOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cinesearch.log")
	content := "time=2026-01-02T03:04:05Z level=INFO msg=\"movie search\" results=2\n" +
		"time=2026-01-02T03:04:06Z level=WARN msg=\"movie search failed\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	m := New(Options{Store: state.New(""), LogPath: path, PrefsPath: filepath.Join(t.TempDir(), "p.toml"), Logger: logging.Discard()})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = update(t, m, runes("L"))
	if !m.activity.open {
		t.Fatalf("activity overlay should open")
	}
	m = update(t, m, readActivityCmd(path)())
	view := m.View()
	if !strings.Contains(view, "movie search failed") || !strings.Contains(view, "WARN") {
		t.Fatalf("activity view missing log lines:\n%s", view)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.activity.open {
		t.Fatalf("esc should close the overlay")
	}
}
