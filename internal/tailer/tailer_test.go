package tailer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atikulmunna/accesstail/internal/model"
)

var testOpts = Options{PollInterval: 50 * time.Millisecond}

func appendTo(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		t.Fatal(err)
	}
}

func next(t *testing.T, lines <-chan model.RawLine) model.RawLine {
	t.Helper()
	select {
	case raw, ok := <-lines:
		if !ok {
			t.Fatal("lines channel closed")
		}
		return raw
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for line")
	}
	return model.RawLine{}
}

func expectNothing(t *testing.T, lines <-chan model.RawLine, wait time.Duration) {
	t.Helper()
	select {
	case raw := <-lines:
		t.Fatalf("unexpected line %q", raw.Text)
	case <-time.After(wait):
	}
}

func start(t *testing.T, path string) (*Tailer, context.CancelFunc) {
	t.Helper()
	tail, err := New(path, testOpts)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go tail.Run(ctx)
	t.Cleanup(func() {
		cancel()
		for range tail.Lines() {
		}
	})
	return tail, cancel
}

func TestTailNewLines(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "access.log")
	if err := os.WriteFile(logPath, []byte("existing line\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tail, _ := start(t, logPath)

	appendTo(t, logPath, "hello from test\nsecond line\r\n")

	raw := next(t, tail.Lines())
	if raw.Text != "hello from test" {
		t.Errorf("expected 'hello from test', got %q", raw.Text)
	}
	if raw.Source != logPath {
		t.Errorf("expected source %q, got %q", logPath, raw.Source)
	}
	if raw := next(t, tail.Lines()); raw.Text != "second line" {
		t.Errorf("expected 'second line', got %q", raw.Text)
	}
}

func TestTailPartialLine(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "access.log")
	if err := os.WriteFile(logPath, []byte("old\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tail, _ := start(t, logPath)

	appendTo(t, logPath, "half a ")
	expectNothing(t, tail.Lines(), 300*time.Millisecond)

	appendTo(t, logPath, "line\n")
	if raw := next(t, tail.Lines()); raw.Text != "half a line" {
		t.Errorf("expected joined line, got %q", raw.Text)
	}
}

func TestTailOrder(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "access.log")
	if err := os.WriteFile(logPath, nil, 0644); err != nil {
		t.Fatal(err)
	}

	tail, _ := start(t, logPath)

	want := []string{"one", "two", "three", "four", "five"}
	for _, w := range want {
		appendTo(t, logPath, w+"\n")
	}
	for _, w := range want {
		if raw := next(t, tail.Lines()); raw.Text != w {
			t.Fatalf("expected %q, got %q", w, raw.Text)
		}
	}
}

func TestTailTruncation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "access.log")
	if err := os.WriteFile(logPath, []byte("a fairly long line of pre-existing content\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tail, _ := start(t, logPath)

	if err := os.Truncate(logPath, 0); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	appendTo(t, logPath, "after truncate\n")

	if raw := next(t, tail.Lines()); raw.Text != "after truncate" {
		t.Errorf("expected 'after truncate', got %q", raw.Text)
	}
}

func TestTailReplacedFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "access.log")
	if err := os.WriteFile(logPath, []byte("before\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tail, _ := start(t, logPath)

	if err := os.Rename(logPath, filepath.Join(dir, "access.log.1")); err != nil {
		t.Fatal(err)
	}
	appendTo(t, logPath, "fresh file\n")

	if raw := next(t, tail.Lines()); raw.Text != "fresh file" {
		t.Errorf("expected 'fresh file', got %q", raw.Text)
	}
}

func TestTailMissingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "later.log")

	tail, _ := start(t, logPath)

	appendTo(t, logPath, "first\n")
	if raw := next(t, tail.Lines()); raw.Text != "first" {
		t.Errorf("expected 'first', got %q", raw.Text)
	}
}

func TestTailStopClosesChannel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "access.log")
	if err := os.WriteFile(logPath, nil, 0644); err != nil {
		t.Fatal(err)
	}

	tail, err := New(logPath, testOpts)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tail.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, ok := <-tail.Lines(); ok {
		t.Error("expected closed lines channel")
	}
	if tail.file != nil {
		t.Error("expected file handle released")
	}
}
