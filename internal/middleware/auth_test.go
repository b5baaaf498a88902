package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		name       string
		path       string
		cookie     *http.Cookie
		wantStatus int
	}{
		{"login is open", "/auth/login", nil, http.StatusTeapot},
		{"health is open", "/healthz", nil, http.StatusTeapot},
		{"api without cookie", "/api/reports", nil, http.StatusUnauthorized},
		{"api with wrong cookie", "/api/reports", &http.Cookie{Name: AuthCookie, Value: "false"}, http.StatusUnauthorized},
		{"api with cookie", "/api/reports", &http.Cookie{Name: AuthCookie, Value: "true"}, http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
