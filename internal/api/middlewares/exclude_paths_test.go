package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddlewaresExcludePaths(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "blocked", http.StatusUnauthorized)
		})
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	wrapped := MiddlewaresExcludePaths(deny, "/users/signup", "/users/login")(inner)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/users/signup", http.StatusOK},
		{"/users/login", http.StatusOK},
		{"/users/signup/extra", http.StatusOK},
		{"/users/me", http.StatusUnauthorized},
		{"/groups/", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		if rec.Code != tt.wantStatus {
			t.Errorf("path %s: status = %d, want %d", tt.path, rec.Code, tt.wantStatus)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	SecurityHeaders(inner).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}
