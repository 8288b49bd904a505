package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the terminal client's settings.
type Config struct {
	ProxyURL       string
	StaleTime      time.Duration
	InitialMessage string
	RedisAddr      string
	LogPath        string
}

const (
	defaultConfigPath     = "~/.config/cinesearch/config.toml"
	defaultLogPath        = "~/.config/cinesearch/cinesearch.log"
	defaultProxyURL       = "http://127.0.0.1:3000"
	defaultStaleMinutes   = 60
	defaultInitialMessage = "Search for the movie title!"
)

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		ProxyURL:       defaultProxyURL,
		StaleTime:      defaultStaleMinutes * time.Minute,
		InitialMessage: defaultInitialMessage,
		LogPath:        mustExpand(defaultLogPath),
	}
}

// Load locates and parses the client config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ProxyURL       string `toml:"proxy_url"`
		StaleMinutes   int    `toml:"stale_minutes"`
		InitialMessage string `toml:"initial_message"`
		RedisAddr      string `toml:"redis_addr"`
		LogPath        string `toml:"log_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.ProxyURL); v != "" {
		cfg.ProxyURL = v
	}
	if raw.StaleMinutes > 0 {
		cfg.StaleTime = time.Duration(raw.StaleMinutes) * time.Minute
	}
	if v := strings.TrimSpace(raw.InitialMessage); v != "" {
		cfg.InitialMessage = v
	}
	cfg.RedisAddr = strings.TrimSpace(raw.RedisAddr)
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
