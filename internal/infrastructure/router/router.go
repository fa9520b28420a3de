package router

import (
	"net/http"
	"time"

	"planche-service/internal/interface/handler"
	"planche-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers the roster routes, metrics and health check
func NewRouter(rosters *handler.RosterHandler, gatherer prometheus.Gatherer, logger logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	group := r.Group("/rosters/:date")
	group.GET("", rosters.GetRoster)
	group.GET("/updates", rosters.ListUpdates)
	group.POST("/updates", rosters.SubmitUpdate)

	return r
}

func requestLogger(logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String())
	}
}
