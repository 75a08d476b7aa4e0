package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	authHTTP "github.com/allisson/securevault/internal/auth/http"
	"github.com/allisson/securevault/internal/httputil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser(username string) *authDomain.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &authDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  username,
		Email:     username + "@example.com",
		CreatedAt: now,
	}
}

// createTestContext creates a test Gin context with a JSON body and, when
// user is not nil, an authenticated user.
func createTestContext(
	method, path string,
	body interface{},
	user *authDomain.User,
) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = req.WithContext(authHTTP.WithUser(req.Context(), user))
	}
	c.Request = req

	return c, w
}

// multipartPart is a file part of a multipart request.
type multipartPart struct {
	filename    string
	contentType string
	content     []byte
}

// createMultipartContext builds an upload request with form fields and an optional file part.
func createMultipartContext(
	t *testing.T,
	fields map[string][]string,
	file *multipartPart,
	user *authDomain.User,
) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, values := range fields {
		for _, value := range values {
			require.NoError(t, writer.WriteField(name, value))
		}
	}
	if file != nil {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + file.filename + `"`}
		if file.contentType != "" {
			header["Content-Type"] = []string{file.contentType}
		}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/v1/files", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if user != nil {
		req = req.WithContext(authHTTP.WithUser(req.Context(), user))
	}
	c.Request = req
	return c, w
}

func withID(c *gin.Context, id string) {
	c.Params = gin.Params{{Key: "id", Value: id}}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}
