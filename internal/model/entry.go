package model

// LogRecord represents a single parsed access log line.
// Field names in the JSON tags are consumed by the dashboard client.
type LogRecord struct {
	Raw       string    `json:"raw"`       // original line text, without its terminator
	IP        string    `json:"ip"`        // client address
	Timestamp string    `json:"timestamp"` // display form, DD.MM.YYYY HH:MM
	SortTime  int64     `json:"sort_time"` // seconds since epoch, 0 when unknown
	Method    string    `json:"method"`
	URL       string    `json:"url"`
	Status    int       `json:"status"`
	Size      string    `json:"size"`
	Referer   string    `json:"referer"`
	Agent     string    `json:"agent"`
	Color     string    `json:"color"` // inline CSS for the row
	Style     StyleHint `json:"-"`
}

// RawLine is one complete line read from a log file.
type RawLine struct {
	Text   string
	Source string // originating file path
}
