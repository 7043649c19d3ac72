package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/atikulmunna/accesstail/internal/model"
)

// Parser converts a raw access log line into a LogRecord.
// The second result is false when the line does not have the expected shape;
// callers skip such lines without reporting them.
type Parser interface {
	Parse(line string) (model.LogRecord, bool)
}

const (
	timeLayout    = "02/Jan/2006:15:04:05"
	displayLayout = "02.01.2006 15:04"
)

// Supported values for New's format argument.
const (
	FormatCombined = "combined"
	FormatJSON     = "json"
	FormatAuto     = "auto"
	FormatRegex    = "regex"
)

// New returns the parser for the named log format. pattern is only used by
// FormatRegex. Timestamps are interpreted in loc; nil means time.Local.
func New(format, pattern string, loc *time.Location) (Parser, error) {
	if loc == nil {
		loc = time.Local
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCombined:
		return NewCombinedParser(loc), nil
	case FormatJSON:
		return NewJSONParser(loc), nil
	case FormatAuto:
		return NewAutoParser(loc), nil
	case FormatRegex:
		return NewRegexParser(pattern, loc)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// fields holds the extracted text of one access log line before it becomes a record.
type fields struct {
	ip, time, method, url string
	status                int
	size, referer, agent  string
}

func newRecord(raw string, f fields, loc *time.Location) model.LogRecord {
	display, sortTime := parseTime(f.time, loc)
	style := model.ClassifyStatus(f.status)
	return model.LogRecord{
		Raw:       raw,
		IP:        f.ip,
		Timestamp: display,
		SortTime:  sortTime,
		Method:    f.method,
		URL:       f.url,
		Status:    f.status,
		Size:      f.size,
		Referer:   f.referer,
		Agent:     f.agent,
		Color:     style.CSS(),
		Style:     style,
	}
}

// parseTime reads the first token of a bracketed log timestamp such as
// "11/Feb/2026:13:43:22 +0000". The numeric offset is not applied: the
// wall clock is taken as-is in loc. On failure the text is returned verbatim
// with a zero sort time.
func parseTime(text string, loc *time.Location) (string, int64) {
	token, _, _ := strings.Cut(text, " ")
	t, err := time.ParseInLocation(timeLayout, token, loc)
	if err != nil {
		return text, 0
	}
	return t.Format(displayLayout), t.Unix()
}

// trimEOL strips a trailing "\n" or "\r\n".
func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// validStatus reports whether n is a three-digit status code.
func validStatus(n int) bool {
	return n >= 100 && n <= 999
}
