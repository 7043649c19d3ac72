package aggregator

import (
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strconv"

	"github.com/atikulmunna/accesstail/internal/loader"
)

// CommonStatuses are always offered by the dashboard filter, even when the
// current file never produced them.
var CommonStatuses = []int{200, 201, 301, 302, 304, 400, 401, 403, 404, 405, 429, 500, 502, 503, 504}

// statusPattern picks the status out of `..." 404 ...` without a full parse.
var statusPattern = regexp.MustCompile(`" (\d{3}) `)

// Catalogue is the set of status codes known for one log file.
type Catalogue struct {
	Codes  []int       `json:"codes"`  // ascending, unique, includes CommonStatuses
	Counts map[int]int `json:"counts"` // occurrences per code observed in the file
}

// Count returns how many lines carried code.
func (c Catalogue) Count(code int) int {
	return c.Counts[code]
}

// Scan reads the file at path line by line and collects the distinct status
// codes it contains. Open or read failures are logged and yield a catalogue
// holding only CommonStatuses.
func Scan(path string) Catalogue {
	counts := make(map[int]int)

	if err := scanFile(path, counts); err != nil {
		slog.Warn("status scan failed", "path", path, "err", err)
	}

	set := make(map[int]struct{}, len(counts)+len(CommonStatuses))
	for code := range counts {
		set[code] = struct{}{}
	}
	for _, code := range CommonStatuses {
		set[code] = struct{}{}
	}

	codes := make([]int, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	return Catalogue{Codes: codes, Counts: counts}
}

// scanFile adds every matched status to counts. Codes gathered before a read
// error are kept.
func scanFile(path string, counts map[int]int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return loader.EachLine(f, func(line []byte) {
		m := statusPattern.FindSubmatch(line)
		if m == nil {
			return
		}
		code, err := strconv.Atoi(string(m[1]))
		if err != nil {
			return
		}
		counts[code]++
	})
}
