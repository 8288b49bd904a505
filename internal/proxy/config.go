package proxy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/five82/cinesearch/internal/omdb"
)

const DefaultAddr = "127.0.0.1:3000"

// Config is read from the environment, optionally seeded from .env files.
type Config struct {
	Addr    string
	APIKey  string
	BaseURL string
	Env     string
	Debug   bool
}

// LoadConfig loads envFiles (missing files are skipped) and reads the proxy
// variables. Values already present in the environment win over file values.
func LoadConfig(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	cfg := Config{
		Addr:    getenv("PROXY_ADDR", DefaultAddr),
		APIKey:  strings.TrimSpace(os.Getenv("OMDB_API_KEY")),
		BaseURL: getenv("OMDB_BASE_URL", omdb.DefaultBaseURL),
		Env:     getenv("APP_ENV", "production"),
		Debug:   getbool("LOG_DEBUG", false),
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
