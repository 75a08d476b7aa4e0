package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/securevault/internal/metrics"
)

// MetricsServer exposes /metrics on its own port so it can stay off the public network.
type MetricsServer struct {
	listener
}

func NewMetricsServer(host string, port int, logger *slog.Logger, provider *metrics.Provider) *MetricsServer {
	router := newEngine(logger)
	if provider != nil {
		router.GET("/metrics", func(c *gin.Context) {
			provider.Handler().ServeHTTP(c.Writer, c.Request)
		})
	}

	s := &MetricsServer{listener: newListener("metrics server", host, port, 15*time.Second, logger)}
	s.server.Handler = router
	return s
}

func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start blocks until Shutdown.
func (s *MetricsServer) Start(_ context.Context) error {
	return s.serve()
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.shutdown(ctx)
}
