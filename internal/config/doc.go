// Package config loads the cinesearch terminal client's TOML settings.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/cinesearch/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or empty, use defaults
//
// # TOML Format
//
//	proxy_url = "http://127.0.0.1:3000"
//	stale_minutes = 60
//	initial_message = "Search for the movie title!"
//	redis_addr = "localhost:6379"   # optional shared result cache
//	log_path = "~/.config/cinesearch/cinesearch.log"
//
// All fields are optional. Tilde expansion is applied to the config path and
// log_path. A non-positive stale_minutes keeps the one hour default.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than a
// missing file, and TOML parse errors. A missing file is not an error.
//
// The proxy does not use this package; it reads its environment instead.
package config
