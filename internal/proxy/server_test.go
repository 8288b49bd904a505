package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/cinesearch/internal/apiclient"
	"github.com/five82/cinesearch/internal/logging"
	"github.com/five82/cinesearch/internal/omdb"
)

type fakeUpstream struct {
	mu      sync.Mutex
	body    []byte
	err     error
	titles  []string
	lookups []string
}

func (f *fakeUpstream) Search(_ context.Context, title string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles = append(f.titles, title)
	return f.body, f.err
}

func (f *fakeUpstream) Lookup(_ context.Context, imdbID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, imdbID)
	return f.body, f.err
}

func serve(t *testing.T, up omdb.Upstream, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := NewServer(up, logging.Discard())
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMovies_PassesBodyThroughVerbatim(t *testing.T) {
	raw := `{"Search":[{"Title":"The Matrix","Year":"1999"}],  "Response":"True"}`
	up := &fakeUpstream{body: []byte(raw)}

	rec := serve(t, up, "/api/movies?title=The+Matrix")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, echoJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, raw, rec.Body.String())
	assert.Equal(t, []string{"The Matrix"}, up.titles)
}

func TestMovies_ApplicationFailureStillOK(t *testing.T) {
	raw := `{"Response":"False","Error":"Movie not found!"}`
	rec := serve(t, &fakeUpstream{body: []byte(raw)}, "/api/movies?title=zzzznotfound")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, raw, rec.Body.String())
}

func TestMovies_UpstreamErrorIsBadGateway(t *testing.T) {
	rec := serve(t, &fakeUpstream{err: errors.New("dial tcp: refused")}, "/api/movies?title=Matrix")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var env omdb.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.OK())
	assert.NotEmpty(t, env.Error)
}

func TestMovie_ForwardsID(t *testing.T) {
	up := &fakeUpstream{body: []byte(`{"Title":"Frozen II","Response":"True"}`)}
	rec := serve(t, up, "/api/movie?id=tt4520988")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"tt4520988"}, up.lookups)

	rec = serve(t, up, "/api/movie")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, up.lookups, 1)
}

func TestHealth(t *testing.T) {
	rec := serve(t, &fakeUpstream{}, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestProxy_EndToEnd(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Search":[{"Title":"The Matrix","Year":"1999","imdbID":"tt0133093","Type":"movie","Poster":"N/A"},{"Title":"The Matrix Reloaded","Year":"2003","imdbID":"tt0234215","Type":"movie","Poster":"N/A"}],"totalResults":"2","Response":"True"}`))
	}))
	t.Cleanup(upstream.Close)

	client, err := omdb.NewClient(upstream.URL, "TEST_KEY")
	require.NoError(t, err)
	front := httptest.NewServer(NewServer(client, logging.Discard()))
	t.Cleanup(front.Close)

	api, err := apiclient.NewClient(front.URL)
	require.NoError(t, err)
	resp, err := api.SearchMovies(context.Background(), "Matrix")
	require.NoError(t, err)

	assert.Equal(t, "apikey=TEST_KEY&s=Matrix", gotQuery)
	assert.True(t, resp.OK())
	assert.Len(t, resp.Search, 2)
	assert.Equal(t, 2, resp.Total())
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PROXY_ADDR", "OMDB_API_KEY", "OMDB_BASE_URL", "APP_ENV", "LOG_DEBUG"} {
		t.Setenv(key, "")
	}
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, omdb.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.Debug)
}

func TestLoadConfig_ReadsDotEnvWithoutOverriding(t *testing.T) {
	// Register restores first, then unset so godotenv may fill them.
	for _, key := range []string{"PROXY_ADDR", "OMDB_API_KEY", "LOG_DEBUG"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("APP_ENV", "development")

	path := filepath.Join(t.TempDir(), ".env")
	content := "OMDB_API_KEY=from-file\nPROXY_ADDR=0.0.0.0:4000\nLOG_DEBUG=true\nAPP_ENV=production\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "0.0.0.0:4000", cfg.Addr)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "development", cfg.Env)
}

const echoJSON = "application/json"
