package server

import (
	"net/http/pprof"

	"github.com/gin-gonic/gin"
)

// debugEngine serves pprof on its own listener so the dashboard routes stay
// a plain three-way split.
func debugEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
	engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
	engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	engine.GET("/debug/pprof/allocs", gin.WrapH(pprof.Handler("allocs")))
	engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	return engine
}
