package http

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// exposedHeaders lets browser clients read download metadata.
var exposedHeaders = []string{
	"X-Request-Id",
	"Content-Disposition",
	"X-Content-Checksum",
	"X-Content-Signature",
}

// corsConfig builds the gin-contrib/cors config for a comma separated origin
// list. A "*" entry allows every origin but disables credentials.
// ok is false when no origin remains after trimming.
func corsConfig(allowOrigins string) (cfg cors.Config, ok bool) {
	origins := strings.FieldsFunc(allowOrigins, func(r rune) bool { return r == ',' || r == ' ' })
	if len(origins) == 0 {
		return cors.Config{}, false
	}

	cfg = cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: exposedHeaders,
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg, true
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg, true
}

// newCORSMiddleware returns nil when CORS is disabled or misconfigured.
func newCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	cfg, ok := corsConfig(allowOrigins)
	if !ok {
		logger.Warn("CORS enabled without origins, ignoring")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Bool("all_origins", cfg.AllowAllOrigins),
		slog.Any("origins", cfg.AllowOrigins))
	return cors.New(cfg)
}
