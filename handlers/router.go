// handlers/router.go
package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter registers the page, the JSON API and, when metrics is set, /metrics.
// Call gin.SetMode before this.
func SetupRouter(h *MovieHandler, metrics bool) (*gin.Engine, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.Logger))
	r.SetHTMLTemplate(tmpl)

	r.GET("/", h.Index)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/movies/search", h.SearchByTitle)
		api.GET("/movies/best", h.BestMatch)
		api.GET("/movies/top", h.TopN)
		api.GET("/movies/rank", h.FindWithRank)
	}

	if metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	return r, nil
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
