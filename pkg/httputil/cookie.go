package httputil

import (
	"errors"
	"net/http"
	"strings"
)

const AuthCookieName = "auth_token"

// GetTokenFromRequest reads a bearer token from the Authorization header and
// falls back to the auth cookie
func GetTokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return "", errors.New("malformed authorization header")
		}
		return strings.TrimSpace(token), nil
	}

	cookie, err := r.Cookie(AuthCookieName)
	if err != nil {
		return "", errors.New("auth token not found")
	}
	if cookie.Value == "" {
		return "", errors.New("auth cookie is empty")
	}
	return cookie.Value, nil
}
