// Package auth provides static token authentication for the results API.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// ExtractToken extracts the token from an HTTP request.
func ExtractToken(r *http.Request) string {
	// Check Authorization header
	auth := r.Header.Get("Authorization")
	if auth != "" {
		// Handle "Bearer " prefix if present
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer ")
		}
		return auth
	}

	// Check X-Auth-Token header
	if token := r.Header.Get("X-Auth-Token"); token != "" {
		return token
	}

	// Check query parameter
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	return ""
}

// Middleware returns a handler wrapper that rejects requests whose token
// does not match the configured one. An empty configured token disables
// the check.
func Middleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" {
				got := ExtractToken(r)
				if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "invalid or missing token",
					})
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ServiceAuth holds the token a client presents to the API.
type ServiceAuth struct {
	serviceToken string
}

// NewServiceAuth creates a new service authenticator.
func NewServiceAuth(serviceToken string) *ServiceAuth {
	return &ServiceAuth{
		serviceToken: serviceToken,
	}
}

// GetServiceToken returns the service token for API calls.
func (sa *ServiceAuth) GetServiceToken() string {
	return sa.serviceToken
}

// AddAuthHeader adds the service token to an HTTP request.
func (sa *ServiceAuth) AddAuthHeader(req *http.Request) {
	req.Header.Set("Authorization", sa.serviceToken)
}
