package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// limitConcurrency admits at most the semaphore's weight of requests at once.
// Live streams hold their slot for as long as the client stays connected.
func limitConcurrency(sem *semaphore.Weighted) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			slog.Warn("rejecting request, client limit reached", "path", c.Request.URL.Path, "remote", c.ClientIP())
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
