package loader

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
)

// MaxLineSize bounds a single line. Longer lines are skipped whole.
const MaxLineSize = 1024 * 1024

// EachLine calls fn for every line in r, without its terminator. A line longer
// than MaxLineSize is dropped and reading continues with the next one. The
// slice passed to fn is only valid during the call.
func EachLine(r io.Reader, fn func(line []byte)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	var (
		buf      []byte
		oversize bool
	)
	for {
		piece, isPrefix, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if !oversize {
			if len(buf)+len(piece) > MaxLineSize {
				oversize = true
				buf = buf[:0]
			} else if isPrefix || len(buf) > 0 {
				buf = append(buf, piece...)
			}
		}
		if isPrefix {
			continue
		}

		switch {
		case oversize:
			slog.Warn("skipping oversized line", "limit", MaxLineSize)
		case len(buf) > 0:
			fn(buf)
		default:
			fn(piece)
		}
		buf = buf[:0]
		oversize = false
	}
}
