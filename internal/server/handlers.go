package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/atikulmunna/accesstail/internal/aggregator"
	"github.com/atikulmunna/accesstail/internal/loader"
	"github.com/gin-gonic/gin"
)

type statusOption struct {
	Code  int
	Count int
}

type dashboardData struct {
	LogFile    string
	Statuses   []statusOption
	MaxRecords int
}

// handleDashboard renders the page with the status filter options of the
// current file. The scan runs on every request.
func (s *Server) handleDashboard(c *gin.Context) {
	cat := aggregator.Scan(s.cfg.LogFile)

	data := dashboardData{
		LogFile:    s.cfg.LogFile,
		Statuses:   make([]statusOption, 0, len(cat.Codes)),
		MaxRecords: s.cfg.MaxRecords,
	}
	for _, code := range cat.Codes {
		data.Statuses = append(data.Statuses, statusOption{Code: code, Count: cat.Count(code)})
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		slog.Error("render dashboard", "err", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// serveBulk writes the newest-first snapshot. It is wrapped for gzip.
func (s *Server) serveBulk(w http.ResponseWriter, r *http.Request) {
	records := loader.Load(s.cfg.LogFile, s.parser, s.cfg.MaxRecords)

	body, err := json.Marshal(records)
	if err != nil {
		slog.Error("encode snapshot", "err", err)
		body = []byte("[]")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Debug("snapshot write failed", "remote", r.RemoteAddr, "err", err)
	}
}
