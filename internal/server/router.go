package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Kind identifies which handler serves a request.
type Kind int

const (
	KindDashboard Kind = iota
	KindBulk
	KindStream
)

func (k Kind) String() string {
	switch k {
	case KindStream:
		return "stream"
	case KindBulk:
		return "bulk"
	default:
		return "dashboard"
	}
}

// Route picks the handler for a request path. A path mentioning /stream is
// always the live stream, even if it also mentions /full-log.
func Route(path string) Kind {
	switch {
	case strings.Contains(path, "/stream"):
		return KindStream
	case strings.Contains(path, "/full-log"):
		return KindBulk
	default:
		return KindDashboard
	}
}

// dispatch is the single entry point for every method and path.
func (s *Server) dispatch(c *gin.Context) {
	switch Route(c.Request.URL.Path) {
	case KindStream:
		s.handleStream(c)
	case KindBulk:
		s.bulk.ServeHTTP(c.Writer, c.Request)
	default:
		s.handleDashboard(c)
	}
}
