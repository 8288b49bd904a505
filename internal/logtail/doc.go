// Package logtail reads the end of the client's log file for the activity overlay.
//
// Read keeps a ring of the last maxLines lines, so memory stays bounded however
// large the file grows:
//
//	lines, err := logtail.Read(cfg.LogPath, 200)
//
// ParseLevel and Message pull the level and msg attributes out of records written
// by log/slog, letting the UI color lines and show a compact summary. ParseLevel
// understands the text and JSON handlers; Message only the text handler, which is
// what the client writes. Lines in any other shape come back unchanged.
package logtail
