package loader

import (
	"log/slog"
	"os"

	"github.com/atikulmunna/accesstail/internal/model"
	"github.com/atikulmunna/accesstail/internal/parser"
)

// DefaultMaxRecords caps the bulk snapshot.
const DefaultMaxRecords = 10000

// Load reads the whole file at path and parses it newest-first, stopping once
// max records matched. Unparseable lines are skipped and do not count toward
// the cap. Failures are logged and produce an empty, non-nil slice.
//
// All lines are held in memory once while the records are selected.
func Load(path string, p parser.Parser, max int) []model.LogRecord {
	if max <= 0 {
		max = DefaultMaxRecords
	}

	lines, err := readLines(path)
	if err != nil {
		slog.Warn("bulk load failed", "path", path, "err", err)
		return []model.LogRecord{}
	}
	slog.Debug("bulk load read file", "path", path, "lines", len(lines))

	records := make([]model.LogRecord, 0, min(len(lines), max))
	for i := len(lines) - 1; i >= 0; i-- {
		rec, ok := p.Parse(lines[i])
		if !ok {
			continue
		}
		records = append(records, rec)
		if len(records) >= max {
			break
		}
	}
	return records
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	err = EachLine(f, func(line []byte) {
		lines = append(lines, string(line))
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}
