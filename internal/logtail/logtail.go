package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns the last maxLines lines of the file at path; maxLines <= 0 returns
// every line. A missing file is an empty log, not an error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	total := 0
	for scanner.Scan() {
		ring[total%maxLines] = scanner.Text()
		total++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if total <= maxLines {
		return ring[:total], nil
	}
	start := total % maxLines
	return append(ring[start:], ring[:start]...), nil
}

// Level is the severity parsed from a slog text or JSON record.
type Level string

const (
	LevelDebug   Level = "DEBUG"
	LevelInfo    Level = "INFO"
	LevelWarn    Level = "WARN"
	LevelError   Level = "ERROR"
	LevelUnknown Level = ""
)

// ParseLevel extracts the level from a line written by log/slog.
func ParseLevel(line string) Level {
	for _, lvl := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		if strings.Contains(line, "level="+string(lvl)) || strings.Contains(line, `"level":"`+string(lvl)+`"`) {
			return lvl
		}
	}
	return LevelUnknown
}

// Message returns the msg attribute of a slog text line, or the line itself.
func Message(line string) string {
	idx := strings.Index(line, "msg=")
	if idx < 0 {
		return line
	}
	rest := line[idx+len("msg="):]
	if strings.HasPrefix(rest, `"`) {
		if end := strings.Index(rest[1:], `"`); end >= 0 {
			return rest[1 : end+1]
		}
		return rest[1:]
	}
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		return rest[:end]
	}
	return rest
}
