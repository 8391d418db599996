package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareAllowsMatchingToken(t *testing.T) {
	h := Middleware("secret")(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/results", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestMiddlewareRejectsWrongToken(t *testing.T) {
	h := Middleware("secret")(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/results", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	h := Middleware("secret")(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewareDisabledWhenEmpty(t *testing.T) {
	h := Middleware("")(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestExtractToken(t *testing.T) {
	bearer := httptest.NewRequest("GET", "/", nil)
	bearer.Header.Set("Authorization", "Bearer abc")
	if got := ExtractToken(bearer); got != "abc" {
		t.Errorf("bearer token = %q, want abc", got)
	}

	raw := httptest.NewRequest("GET", "/", nil)
	raw.Header.Set("Authorization", "abc")
	if got := ExtractToken(raw); got != "abc" {
		t.Errorf("raw token = %q, want abc", got)
	}

	header := httptest.NewRequest("GET", "/", nil)
	header.Header.Set("X-Auth-Token", "xyz")
	if got := ExtractToken(header); got != "xyz" {
		t.Errorf("header token = %q, want xyz", got)
	}

	query := httptest.NewRequest("GET", "/?token=qrs", nil)
	if got := ExtractToken(query); got != "qrs" {
		t.Errorf("query token = %q, want qrs", got)
	}

	if got := ExtractToken(httptest.NewRequest("GET", "/", nil)); got != "" {
		t.Errorf("empty request token = %q, want empty", got)
	}
}
