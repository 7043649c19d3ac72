package hub

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/atikulmunna/accesstail/internal/model"
	"github.com/atikulmunna/accesstail/internal/parser"
	"github.com/atikulmunna/accesstail/internal/tailer"
	"github.com/google/uuid"
)

const subscriberBuffer = 256

// Hub hands every subscriber its own follower of the log file. Subscribers
// share nothing: each sees the parsed records appended after it subscribed,
// in file order.
type Hub struct {
	path      string
	parser    parser.Parser
	opts      tailer.Options
	active    atomic.Int64
	delivered atomic.Int64
}

// New creates a Hub that follows path and parses with p.
func New(path string, p parser.Parser, opts tailer.Options) *Hub {
	return &Hub{
		path:   path,
		parser: p,
		opts:   opts,
	}
}

// Subscription is one subscriber's stream of records.
type Subscription struct {
	ID      string
	records chan model.LogRecord
	done    chan struct{}
}

// Records returns the channel of parsed records. It is closed once the
// subscription's context ends and its follower has been released.
func (s *Subscription) Records() <-chan model.LogRecord {
	return s.records
}

// Done is closed after the follower has been torn down.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Subscribe attaches a new follower to the log file. Only lines appended after
// Subscribe returns are delivered. Cancel ctx to release the follower.
func (h *Hub) Subscribe(ctx context.Context) (*Subscription, error) {
	tail, err := tailer.New(h.path, h.opts)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		ID:      uuid.NewString(),
		records: make(chan model.LogRecord, subscriberBuffer),
		done:    make(chan struct{}),
	}

	n := h.active.Add(1)
	slog.Debug("subscriber attached", "client", sub.ID, "active", n)

	go tail.Run(ctx)
	go h.pump(ctx, sub, tail)

	return sub, nil
}

// pump parses lines from the follower and delivers matches in order.
func (h *Hub) pump(ctx context.Context, sub *Subscription, tail *tailer.Tailer) {
	defer func() {
		// Wait for the follower to release its file before reporting done.
		for range tail.Lines() {
		}
		close(sub.records)
		close(sub.done)
		n := h.active.Add(-1)
		slog.Debug("subscriber detached", "client", sub.ID, "active", n)
	}()

	for raw := range tail.Lines() {
		rec, ok := h.parser.Parse(raw.Text)
		if !ok {
			continue
		}
		select {
		case sub.records <- rec:
			h.delivered.Add(1)
		case <-ctx.Done():
			return
		}
	}
}

// Active returns the number of attached subscribers.
func (h *Hub) Active() int64 {
	return h.active.Load()
}

// Delivered returns the total number of records handed to subscribers.
func (h *Hub) Delivered() int64 {
	return h.delivered.Load()
}
