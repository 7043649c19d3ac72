package tailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/atikulmunna/accesstail/internal/model"
	"github.com/atikulmunna/accesstail/internal/watcher"
)

const (
	DefaultPollInterval = time.Second

	readChunk    = 32 * 1024
	maxPending   = 1024 * 1024
	outputBuffer = 512
)

// Options tunes a Tailer.
type Options struct {
	// PollInterval bounds how long an append can go unnoticed when file
	// notifications are missed or unavailable.
	PollInterval time.Duration
}

// Tailer follows one file from the moment it is created, emitting every
// complete line appended afterwards. Content present before New returns is
// never emitted.
type Tailer struct {
	path    string
	file    *os.File
	offset  int64
	pending []byte // bytes of an unterminated line
	buf     []byte
	out     chan model.RawLine
	watch   *watcher.Watcher
	poll    time.Duration
}

// New opens path and positions the read cursor at its current end. A missing
// file is not an error: it is picked up from its first byte once it appears.
func New(path string, opts Options) (*Tailer, error) {
	t := &Tailer{
		path: path,
		buf:  make([]byte, readChunk),
		out:  make(chan model.RawLine, outputBuffer),
		poll: opts.PollInterval,
	}
	if t.poll <= 0 {
		t.poll = DefaultPollInterval
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		offset, err := f.Seek(0, io.SeekEnd)
		if err != nil {
			f.Close()
			return nil, err
		}
		t.file, t.offset = f, offset
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("tail target does not exist yet", "path", path)
	default:
		return nil, err
	}

	w, err := watcher.New(path)
	if err != nil {
		slog.Debug("file notifications unavailable, polling only", "path", path, "err", err)
	} else {
		t.watch = w
	}

	return t, nil
}

// Lines returns the channel where complete lines are sent in file order.
// It is closed when Run returns.
func (t *Tailer) Lines() <-chan model.RawLine {
	return t.out
}

// Run reads appended data on every file notification and poll tick until ctx
// is cancelled. On return the file handle and the OS watch are released.
func (t *Tailer) Run(ctx context.Context) {
	var wg sync.WaitGroup
	defer func() {
		t.closeFile()
		wg.Wait()
		close(t.out)
	}()

	var events <-chan watcher.Event
	if t.watch != nil {
		events = t.watch.Events
		wg.Add(1)
		go func() {
			defer wg.Done()
			t.watch.Start(ctx)
		}()
	}

	ticker := time.NewTicker(t.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				events = nil
				continue
			}
		case <-ticker.C:
		}

		if !t.readNewLines(ctx) {
			return
		}
	}
}

// readNewLines drains the current handle, then follows a truncation or
// replacement of the file. It returns false if ctx ended while emitting.
func (t *Tailer) readNewLines(ctx context.Context) bool {
	if !t.drain(ctx) {
		return false
	}
	if t.reopenIfRotated() {
		return t.drain(ctx)
	}
	return true
}

// drain reads from the cursor to EOF and emits complete lines.
func (t *Tailer) drain(ctx context.Context) bool {
	if t.file == nil {
		return true
	}

	for {
		n, err := t.file.Read(t.buf)
		if n > 0 {
			t.offset += int64(n)
			t.pending = append(t.pending, t.buf[:n]...)
			if !t.emit(ctx) {
				return false
			}
		}
		if err != nil {
			if err != io.EOF {
				slog.Warn("tail read failed", "path", t.path, "err", err)
			}
			return true
		}
		if n == 0 {
			return true
		}
	}
}

// emit sends every newline-terminated line in pending and keeps the rest.
func (t *Tailer) emit(ctx context.Context) bool {
	start := 0
	for {
		i := bytes.IndexByte(t.pending[start:], '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimSuffix(t.pending[start:start+i], []byte{'\r'})
		start += i + 1

		select {
		case t.out <- model.RawLine{Text: string(line), Source: t.path}:
		case <-ctx.Done():
			return false
		}
	}

	t.pending = append(t.pending[:0], t.pending[start:]...)
	if len(t.pending) > maxPending {
		slog.Warn("discarding oversized partial line", "path", t.path, "bytes", len(t.pending))
		t.pending = t.pending[:0]
	}
	return true
}

// reopenIfRotated detects a truncated or replaced file and restarts reading
// from its first byte. It reports whether the cursor moved.
func (t *Tailer) reopenIfRotated() bool {
	info, err := os.Stat(t.path)
	if err != nil {
		// Removed: keep the old handle until a new file appears.
		return false
	}

	if t.file != nil {
		cur, err := t.file.Stat()
		if err == nil && os.SameFile(info, cur) {
			if info.Size() >= t.offset {
				return false
			}
			slog.Info("log file truncated, restarting from beginning", "path", t.path)
			if _, err := t.file.Seek(0, io.SeekStart); err != nil {
				slog.Warn("seek after truncation failed", "path", t.path, "err", err)
				return false
			}
			t.offset = 0
			t.pending = t.pending[:0]
			return true
		}
		slog.Info("log file replaced, reopening", "path", t.path)
		t.closeFile()
	}

	f, err := os.Open(t.path)
	if err != nil {
		slog.Warn("reopen failed", "path", t.path, "err", err)
		return false
	}
	t.file, t.offset = f, 0
	t.pending = t.pending[:0]
	return true
}

func (t *Tailer) closeFile() {
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
}
