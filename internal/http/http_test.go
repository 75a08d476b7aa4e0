package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authHTTP "github.com/allisson/securevault/internal/auth/http"
	authService "github.com/allisson/securevault/internal/auth/service"
	authMocks "github.com/allisson/securevault/internal/auth/usecase/mocks"
	"github.com/allisson/securevault/internal/config"
	"github.com/allisson/securevault/internal/metrics"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
	pkiHTTP "github.com/allisson/securevault/internal/pki/http"
	pkiMocks "github.com/allisson/securevault/internal/pki/usecase/mocks"
	sharingHTTP "github.com/allisson/securevault/internal/sharing/http"
	sharingMocks "github.com/allisson/securevault/internal/sharing/usecase/mocks"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupFullRouter mounts every route on mocked use cases.
func setupFullRouter(
	t *testing.T,
	db *sql.DB,
	provider *metrics.Provider,
) (*Server, *pkiMocks.MockCertificateAuthority, *sharingMocks.MockFileUseCase) {
	t.Helper()
	logger := discardLogger()

	ca := &pkiMocks.MockCertificateAuthority{}
	fileUseCase := &sharingMocks.MockFileUseCase{}
	messageUseCase := &sharingMocks.MockMessageUseCase{}
	userUseCase := &authMocks.MockUserUseCase{}
	sessionUseCase := &authMocks.MockSessionUseCase{}
	authenticator := &authMocks.MockChallengeAuthenticator{}

	cfg := &config.Config{
		MaxUploadSize:    1024,
		MetricsNamespace: "router_test",
	}

	server := NewServer(db, ca, "localhost", 0, logger)
	server.SetupRouter(
		t.Context(),
		cfg,
		Handlers{
			Auth:    authHTTP.NewAuthHandler(userUseCase, sessionUseCase, authenticator, logger),
			User:    authHTTP.NewUserHandler(userUseCase, logger),
			CA:      pkiHTTP.NewCAHandler(ca, logger),
			File:    sharingHTTP.NewFileHandler(fileUseCase, cfg.MaxUploadSize, logger),
			Message: sharingHTTP.NewMessageHandler(messageUseCase, logger),
		},
		sessionUseCase,
		authService.NewTokenService(),
		provider,
	)
	return server, ca, fileUseCase
}

func do(h http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestServer_Health(t *testing.T) {
	server, _, _ := setupFullRouter(t, nil, nil)

	w := do(server.GetHandler(), http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	requestID, err := uuid.Parse(w.Header().Get("X-Request-Id"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), requestID.Version())
}

func TestServer_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		withDB     bool
		pingErr    error
		caErr      error
		wantStatus int
		wantDB     string
		wantCA     string
	}{
		{name: "ready", withDB: true, wantStatus: http.StatusOK, wantDB: "ok", wantCA: "ok"},
		{
			name:       "ca not active",
			withDB:     true,
			caErr:      pkiDomain.ErrCANotActive,
			wantStatus: http.StatusServiceUnavailable,
			wantDB:     "ok",
			wantCA:     "error",
		},
		{
			name:       "database down",
			withDB:     true,
			pingErr:    assert.AnError,
			wantStatus: http.StatusServiceUnavailable,
			wantDB:     "error",
			wantCA:     "ok",
		},
		{name: "no database", wantStatus: http.StatusServiceUnavailable, wantDB: "error", wantCA: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var db *sql.DB
			if tt.withDB {
				mockDB, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
				require.NoError(t, err)
				defer func() { _ = mockDB.Close() }()
				dbMock.ExpectPing().WillReturnError(tt.pingErr)
				db = mockDB
			}

			server, ca, _ := setupFullRouter(t, db, nil)
			if tt.caErr != nil {
				ca.On("Info").Return(nil, tt.caErr)
			} else {
				ca.On("Info").Return(&pkiDomain.CAInfo{Serial: "00"}, nil)
			}

			w := do(server.GetHandler(), http.MethodGet, "/ready")

			assert.Equal(t, tt.wantStatus, w.Code)
			var body struct {
				Status     string            `json:"status"`
				Components map[string]string `json:"components"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantDB, body.Components["database"])
			assert.Equal(t, tt.wantCA, body.Components["certificate_authority"])
		})
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	server, _, _ := setupFullRouter(t, nil, nil)

	assert.Equal(t, http.StatusNotFound, do(server.GetHandler(), http.MethodGet, "/v2/files").Code)
	assert.Equal(t, http.StatusNotFound, do(server.GetHandler(), http.MethodGet, "/metrics").Code)
}

func TestSetupRouter_PublicCAEndpoint(t *testing.T) {
	server, ca, _ := setupFullRouter(t, nil, nil)
	ca.On("Info").Return(&pkiDomain.CAInfo{
		Subject: pkiDomain.Subject{CommonName: "Root CA"},
		Serial:  "0123456789abcdef0123456789abcdef",
	}, nil)

	w := do(server.GetHandler(), http.MethodGet, "/v1/ca/info")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0123456789abcdef0123456789abcdef")
}

func TestSetupRouter_FilesRequireAuthentication(t *testing.T) {
	server, _, fileUseCase := setupFullRouter(t, nil, nil)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/v1/files"},
		{http.MethodPost, "/v1/files"},
		{http.MethodGet, "/v1/messages"},
		{http.MethodGet, "/v1/users/me"},
		{http.MethodPost, "/v1/auth/logout"},
	} {
		w := do(server.GetHandler(), route.method, route.path)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
	assert.Empty(t, fileUseCase.Calls)
}

func TestSetupRouter_RecordsRouteMetrics(t *testing.T) {
	provider, err := metrics.NewProvider("router_test")
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	server, ca, _ := setupFullRouter(t, nil, provider)
	ca.On("Info").Return(&pkiDomain.CAInfo{Serial: "00"}, nil)

	do(server.GetHandler(), http.MethodGet, "/v1/ca/info")
	do(server.GetHandler(), http.MethodGet, "/health")

	scrape := do(provider.Handler(), http.MethodGet, "/metrics").Body.String()
	assert.Contains(t, scrape, `route="/v1/ca/info"`)
	assert.NotContains(t, scrape, `route="/health"`)
}

func TestServer_StartRequiresRouter(t *testing.T) {
	server := NewServer(nil, nil, "localhost", 0, discardLogger())

	assert.Error(t, server.Start(context.Background()))
}

func TestServer_Lifecycle(t *testing.T) {
	server, _, _ := setupFullRouter(t, nil, nil)

	done := make(chan error, 1)
	go func() { done <- server.Start(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestCustomLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantLevel string
	}{
		{name: "success logs at info", path: "/ok?offset=10", wantLevel: "INFO"},
		{name: "client error logs at warn", path: "/missing", wantLevel: "WARN"},
		{name: "server error logs at error", path: "/fail", wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			router := newEngine(slog.New(slog.NewJSONHandler(&buf, nil)))
			router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
			router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

			w := do(router, http.MethodGet, tt.path)
			require.NotEmpty(t, w.Header().Get("X-Request-Id"))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, w.Header().Get("X-Request-Id"), entry["request_id"])
			assert.EqualValues(t, w.Code, entry["status"])
		})
	}
}

func TestNewEngine_RecoversFromPanic(t *testing.T) {
	router := newEngine(discardLogger())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	assert.Equal(t, http.StatusInternalServerError, do(router, http.MethodGet, "/panic").Code)
}

func TestMetricsServer(t *testing.T) {
	t.Run("serves the registry", func(t *testing.T) {
		provider, err := metrics.NewProvider("metrics_server_test")
		require.NoError(t, err)
		defer func() { _ = provider.Shutdown(context.Background()) }()

		server := NewMetricsServer("localhost", 0, discardLogger(), provider)
		w := do(server.GetHandler(), http.MethodGet, "/metrics")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	})

	t.Run("no provider", func(t *testing.T) {
		server := NewMetricsServer("localhost", 0, discardLogger(), nil)

		assert.Equal(t, http.StatusNotFound, do(server.GetHandler(), http.MethodGet, "/metrics").Code)
	})
}
