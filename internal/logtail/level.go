package logtail

import (
	"encoding/json"
	"regexp"
	"strings"
)

var textLevel = regexp.MustCompile(`(?:^|\s)level=([A-Za-z]+)`)

var levelRank = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

// Level returns the upper-cased slog level of a log line, or "" when the
// line carries none.
func Level(line string) string {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		var rec struct {
			Level string `json:"level"`
		}
		if err := json.Unmarshal([]byte(trimmed), &rec); err == nil {
			return normalizeLevel(rec.Level)
		}
	}
	if m := textLevel.FindStringSubmatch(trimmed); m != nil {
		return normalizeLevel(m[1])
	}
	return ""
}

// Filter returns the lines at or above minLevel. An empty or unknown
// minLevel keeps everything.
func Filter(lines []string, minLevel string) []string {
	min, ok := levelRank[normalizeLevel(minLevel)]
	if !ok {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		lvl := Level(line)
		if lvl == "" {
			out = append(out, line)
			continue
		}
		if rank, known := levelRank[lvl]; !known || rank >= min {
			out = append(out, line)
		}
	}
	return out
}

// NextLevel cycles through the filter levels: "" (all), INFO, WARN, ERROR.
func NextLevel(current string) string {
	switch normalizeLevel(current) {
	case "":
		return "INFO"
	case "INFO":
		return "WARN"
	case "WARN":
		return "ERROR"
	default:
		return ""
	}
}

func normalizeLevel(level string) string {
	level = strings.ToUpper(strings.TrimSpace(level))
	if level == "WARNING" {
		return "WARN"
	}
	return level
}
