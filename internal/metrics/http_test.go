package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newMetricsRouter(t *testing.T, namespace string, skipPaths ...string) (*gin.Engine, *Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider, _ := newTestBusinessMetrics(t, namespace)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), namespace, skipPaths...))
	router.GET("/v1/files/:id", func(c *gin.Context) {
		c.String(http.StatusOK, strings.Repeat("x", 2048))
	})
	router.POST("/v1/messages", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"id": "1"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	return router, provider
}

func serve(router *gin.Engine, method, path string) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	t.Run("Success_UsesRoutePattern", func(t *testing.T) {
		router, provider := newMetricsRouter(t, "http_route")

		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/files/123"))
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/files/456"))
		assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/v1/messages"))

		output := scrape(t, provider)

		assertMetricLine(t, output, `http_route_http_requests_total`,
			`method="GET".*route="/v1/files/:id".*status_code="200"`, `2`)
		assertMetricLine(t, output, `http_route_http_requests_total`,
			`method="POST".*route="/v1/messages".*status_code="201"`, `1`)
		assertMetricLine(t, output, `http_route_http_response_size_bytes_count`,
			`method="GET".*route="/v1/files/:id"`, `2`)
		assert.NotContains(t, output, "/v1/files/123")
	})

	t.Run("Success_UnmatchedRoute", func(t *testing.T) {
		router, provider := newMetricsRouter(t, "http_unmatched")

		assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/nope"))

		assertMetricLine(t, scrape(t, provider), `http_unmatched_http_requests_total`,
			`route="unmatched".*status_code="404"`, `1`)
	})

	t.Run("Success_SkipsProbePaths", func(t *testing.T) {
		router, provider := newMetricsRouter(t, "http_skip", "/health")

		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health"))
		assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/v1/messages"))

		output := scrape(t, provider)
		assert.NotContains(t, output, `route="/health"`)
		assertMetricLine(t, output, `http_skip_http_requests_total`, `route="/v1/messages"`, `1`)
	})
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/v1/files/:id", routeLabel("/v1/files/:id"))
	assert.Equal(t, "/", routeLabel("/"))
	assert.Equal(t, unmatchedRoute, routeLabel(""))
}
