package parser

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/atikulmunna/accesstail/internal/model"
)

const sampleLine = `203.0.113.7 - - [11/Feb/2026:13:43:22 +0000] "GET /api/v1/items?page=2 HTTP/1.1" 404 153 "https://example.com/start" "Mozilla/5.0 (X11; Linux x86_64)"`

func TestCombinedParser(t *testing.T) {
	p := NewCombinedParser(time.UTC)

	rec, ok := p.Parse(sampleLine)
	if !ok {
		t.Fatal("expected match")
	}

	checks := []struct{ name, got, want string }{
		{"ip", rec.IP, "203.0.113.7"},
		{"method", rec.Method, "GET"},
		{"url", rec.URL, "/api/v1/items?page=2"},
		{"size", rec.Size, "153"},
		{"referer", rec.Referer, "https://example.com/start"},
		{"agent", rec.Agent, "Mozilla/5.0 (X11; Linux x86_64)"},
		{"raw", rec.Raw, sampleLine},
		{"timestamp", rec.Timestamp, "11.02.2026 13:43"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %q, got %q", c.name, c.want, c.got)
		}
	}

	if rec.Status != 404 {
		t.Errorf("expected status 404, got %d", rec.Status)
	}
	if want := time.Date(2026, 2, 11, 13, 43, 22, 0, time.UTC).Unix(); rec.SortTime != want {
		t.Errorf("expected sort time %d, got %d", want, rec.SortTime)
	}
	if rec.Style != model.StyleWarning {
		t.Errorf("expected warning style, got %s", rec.Style)
	}
	if rec.Color != model.StyleWarning.CSS() {
		t.Errorf("expected warning css, got %q", rec.Color)
	}
}

func TestCombinedParserTrailingNewline(t *testing.T) {
	p := NewCombinedParser(time.UTC)

	for _, suffix := range []string{"\n", "\r\n"} {
		rec, ok := p.Parse(sampleLine + suffix)
		if !ok {
			t.Fatalf("expected match with suffix %q", suffix)
		}
		if rec.Raw != sampleLine {
			t.Errorf("expected raw without terminator, got %q", rec.Raw)
		}
	}
}

func TestCombinedParserStatusRoundTrip(t *testing.T) {
	p := NewCombinedParser(time.UTC)

	for _, status := range []int{200, 201, 301, 304, 404, 418, 499, 500, 503} {
		line := strings.Replace(sampleLine, " 404 ", " "+strconv.Itoa(status)+" ", 1)
		rec, ok := p.Parse(line)
		if !ok {
			t.Fatalf("status %d: expected match", status)
		}
		if rec.Status != status {
			t.Errorf("expected status %d, got %d", status, rec.Status)
		}
	}
}

func TestCombinedParserNoMatch(t *testing.T) {
	p := NewCombinedParser(time.UTC)

	lines := map[string]string{
		"empty":              "",
		"blank":              "   \n",
		"truncated quote":    `10.0.0.1 - - [11/Feb/2026:13:43:22 +0000] "GET /index.html HTTP/1.1`,
		"non-numeric status": `10.0.0.1 - - [11/Feb/2026:13:43:22 +0000] "GET / HTTP/1.1" abc 12 "-" "curl"`,
		"missing size":       `10.0.0.1 - - [11/Feb/2026:13:43:22 +0000] "GET / HTTP/1.1" 200 - "-" "curl"`,
		"common format":      `10.0.0.1 - - [11/Feb/2026:13:43:22 +0000] "GET / HTTP/1.1" 200 512`,
		"plain text":         "2026-02-17 ERROR something broke",
		"request no target":  `10.0.0.1 - - [11/Feb/2026:13:43:22 +0000] "-" 400 0 "-" "-"`,
	}

	for name, line := range lines {
		t.Run(name, func(t *testing.T) {
			rec, ok := p.Parse(line)
			if ok {
				t.Errorf("expected no match, got %+v", rec)
			}
			if rec != (model.LogRecord{}) {
				t.Errorf("expected zero record on no match, got %+v", rec)
			}
		})
	}
}

func TestCombinedParserBadTimestamp(t *testing.T) {
	p := NewCombinedParser(time.UTC)

	line := `10.0.0.1 - - [yesterday noon] "GET / HTTP/1.1" 200 512 "-" "curl/8.0"`
	rec, ok := p.Parse(line)
	if !ok {
		t.Fatal("expected match despite unparseable timestamp")
	}
	if rec.SortTime != 0 {
		t.Errorf("expected sort time 0, got %d", rec.SortTime)
	}
	if rec.Timestamp != "yesterday noon" {
		t.Errorf("expected verbatim timestamp, got %q", rec.Timestamp)
	}
}

func TestCombinedParserIgnoresOffset(t *testing.T) {
	p := NewCombinedParser(time.UTC)

	utc, _ := p.Parse(sampleLine)
	shifted, _ := p.Parse(strings.Replace(sampleLine, "+0000", "+0300", 1))

	if utc.SortTime != shifted.SortTime {
		t.Errorf("offset must not shift the sort time: %d vs %d", utc.SortTime, shifted.SortTime)
	}
}

func TestParseTimeLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	display, sortTime := parseTime("11/Feb/2026:13:43:22 +0000", loc)
	if display != "11.02.2026 13:43" {
		t.Errorf("expected wall-clock display, got %q", display)
	}
	if want := time.Date(2026, 2, 11, 10, 43, 22, 0, time.UTC).Unix(); sortTime != want {
		t.Errorf("expected %d, got %d", want, sortTime)
	}
}

func TestJSONParser(t *testing.T) {
	p := NewJSONParser(time.UTC)

	line := `{"remote_addr":"198.51.100.4","time_local":"11/Feb/2026:13:43:22 +0000","request":"POST /login HTTP/2.0","status":"502","body_bytes_sent":"0","http_referer":"","http_user_agent":"curl/8.5.0"}`
	rec, ok := p.Parse(line)
	if !ok {
		t.Fatal("expected match")
	}
	if rec.IP != "198.51.100.4" || rec.Method != "POST" || rec.URL != "/login" {
		t.Errorf("unexpected fields: %+v", rec)
	}
	if rec.Status != 502 || rec.Style != model.StyleSevere {
		t.Errorf("expected severe 502, got %d %s", rec.Status, rec.Style)
	}
	if rec.Agent != "curl/8.5.0" || rec.Referer != "" || rec.Size != "0" {
		t.Errorf("unexpected free-text fields: %+v", rec)
	}
	if rec.Timestamp != "11.02.2026 13:43" {
		t.Errorf("unexpected timestamp %q", rec.Timestamp)
	}
}

func TestJSONParserNumericFields(t *testing.T) {
	p := NewJSONParser(time.UTC)

	line := `{"remote_addr":"10.1.1.1","time_local":"11/Feb/2026:13:43:22 +0000","request_method":"GET","request_uri":"/","status":301,"body_bytes_sent":169}`
	rec, ok := p.Parse(line)
	if !ok {
		t.Fatal("expected match")
	}
	if rec.Status != 301 || rec.Size != "169" || rec.Method != "GET" || rec.URL != "/" {
		t.Errorf("unexpected fields: %+v", rec)
	}
}

func TestJSONParserNoMatch(t *testing.T) {
	p := NewJSONParser(time.UTC)

	for _, line := range []string{
		"not json at all",
		`["array"]`,
		`{"remote_addr":"10.1.1.1","time_local":"x","request":"GET / HTTP/1.1"}`,
		`{"remote_addr":"10.1.1.1","time_local":"x","request":"GET / HTTP/1.1","status":"ok"}`,
		`{"time_local":"x","request":"GET / HTTP/1.1","status":200}`,
		`{"remote_addr":"10.1.1.1","time_local":"x","request":"-","status":400}`,
	} {
		if _, ok := p.Parse(line); ok {
			t.Errorf("expected no match for %s", line)
		}
	}
}

func TestRegexParser(t *testing.T) {
	p, err := NewRegexParser(`^(?P<ip>\S+) (?P<method>[A-Z]+) (?P<url>\S+) (?P<status>\d{3})$`, time.UTC)
	if err != nil {
		t.Fatal(err)
	}

	rec, ok := p.Parse("10.0.0.9 DELETE /items/7 204")
	if !ok {
		t.Fatal("expected match")
	}
	if rec.IP != "10.0.0.9" || rec.Method != "DELETE" || rec.URL != "/items/7" || rec.Status != 204 {
		t.Errorf("unexpected fields: %+v", rec)
	}
	if rec.SortTime != 0 {
		t.Errorf("expected unknown time without a time group, got %d", rec.SortTime)
	}

	if _, ok := p.Parse("10.0.0.9 DELETE /items/7 OK"); ok {
		t.Error("expected no match")
	}
}

func TestRegexParserInvalidPattern(t *testing.T) {
	if _, err := NewRegexParser(`[invalid`, time.UTC); err == nil {
		t.Error("expected error for invalid regex")
	}
	if _, err := NewRegexParser(`^(?P<ip>\S+)`, time.UTC); err == nil {
		t.Error("expected error for pattern without status group")
	}
}

func TestAutoParser(t *testing.T) {
	p := NewAutoParser(time.UTC)

	if rec, ok := p.Parse(sampleLine); !ok || rec.Status != 404 {
		t.Errorf("combined line: ok=%v status=%d", ok, rec.Status)
	}

	jsonLine := `{"remote_addr":"10.1.1.1","time_local":"11/Feb/2026:13:43:22 +0000","request":"GET /x HTTP/1.1","status":200}`
	if rec, ok := p.Parse(jsonLine); !ok || rec.URL != "/x" {
		t.Errorf("json line: ok=%v url=%q", ok, rec.URL)
	}

	if _, ok := p.Parse("{broken"); ok {
		t.Error("expected no match for broken json")
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"", "combined", "JSON", "auto"} {
		if _, err := New(format, "", nil); err != nil {
			t.Errorf("format %q: %v", format, err)
		}
	}
	if _, err := New("regex", `(?P<status>\d{3})`, time.UTC); err != nil {
		t.Errorf("regex: %v", err)
	}
	if _, err := New("syslog", "", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}
