package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/atikulmunna/accesstail/internal/hub"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleStream pushes every record appended after the client connected.
// Browsers get server-sent events; clients asking for a WebSocket upgrade get
// one JSON text message per record.
func (s *Server) handleStream(c *gin.Context) {
	ctx, cancel := context.WithCancel(c.Request.Context())

	// Attach before the response starts so the client's open event marks
	// the point from which appends are delivered.
	sub, err := s.hub.Subscribe(ctx)
	if err != nil {
		cancel()
		slog.Warn("stream follower failed", "path", s.cfg.LogFile, "err", err)
		writeStreamHeaders(c)
		return
	}
	defer func() {
		cancel()
		<-sub.Done()
		slog.Debug("stream closed", "client", sub.ID, "active", s.hub.Active())
	}()

	slog.Debug("stream opened", "client", sub.ID, "remote", c.ClientIP(), "active", s.hub.Active())

	if websocket.IsWebSocketUpgrade(c.Request) {
		s.streamWebSocket(ctx, cancel, c, sub)
		return
	}
	s.streamEvents(ctx, c, sub)
}

func writeStreamHeaders(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()
}

// streamEvents writes `data: <json>\n\n` frames until the client goes away.
func (s *Server) streamEvents(ctx context.Context, c *gin.Context, sub *hub.Subscription) {
	writeStreamHeaders(c)

	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-sub.Records():
			if !ok {
				return
			}
			b, err := json.Marshal(rec)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", b); err != nil {
				slog.Debug("stream write failed", "client", sub.ID, "err", err)
				return
			}
			c.Writer.Flush()
		}
	}
}

func (s *Server) streamWebSocket(ctx context.Context, cancel context.CancelFunc, c *gin.Context, sub *hub.Subscription) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "client", sub.ID, "err", err)
		return
	}
	defer conn.Close()

	// Read pump: a read error means the client went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Write pump.
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-sub.Records():
			if !ok {
				return
			}
			if err := conn.WriteJSON(rec); err != nil {
				slog.Debug("websocket write failed", "client", sub.ID, "err", err)
				return
			}
		}
	}
}
