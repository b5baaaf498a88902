package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sceneguard/internal/config"
	"sceneguard/internal/logger"
	"sceneguard/internal/middleware"
)

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginHandler(t *testing.T) {
	h := LoginHandler(&config.Config{Password: "secret"}, logger.NewDiscard())

	rec := httptest.NewRecorder()
	h(rec, postForm("/auth/login", url.Values{"password": {"wrong"}}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, postForm("/auth/login", url.Values{"password": {"secret"}}))
	require.Equal(t, http.StatusNoContent, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AuthCookie, cookies[0].Name)
	assert.Equal(t, "true", cookies[0].Value)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLogoutHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LogoutHandler(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestLogHandlers(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{LogDirectory: dir, LogMaxSizeMB: 1}

	rec := httptest.NewRecorder()
	ShowWarningLogsHandler(cfg)(rec, httptest.NewRequest(http.MethodGet, "/logs/warning", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.log"), []byte("hello\n"), 0644))
	rec = httptest.NewRecorder()
	ShowInfoLogsHandler(cfg)(rec, httptest.NewRequest(http.MethodGet, "/logs/info", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello\n", rec.Body.String())

	log := logger.NewLogger(cfg)
	defer log.Close()

	rec = httptest.NewRecorder()
	ClearInfoLogsHandler(log)(rec, httptest.NewRequest(http.MethodGet, "/logs/info/clear", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	ClearErrorLogsHandler(log)(rec, httptest.NewRequest(http.MethodPost, "/logs/error/clear", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
