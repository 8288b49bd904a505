// Package app is the composition root for the cinesearch terminal client.
//
// Run loads config.toml and prefs.toml, opens the log file, optionally connects
// the Redis cache backend, then builds the pieces in order:
//
//	apiclient.Client  talks to the proxy
//	state.Store       search text and status message
//	movies.Searcher   cached searches and lookups that report into the store
//	ui.Model          the Bubble Tea program
//
// Store changes made off the UI goroutine are forwarded to the program as
// ui.StoreChangedMsg. A background poller checks the proxy's /healthz and
// reports the result as ui.ProxyStatusMsg; failed checks back off up to 30s.
//
// Only config and logging failures are fatal. An unreachable proxy or Redis
// server is reported and the client keeps running.
package app
