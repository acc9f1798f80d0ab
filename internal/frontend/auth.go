package frontend

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// commandClaims is deliberately just the registered claims: the
// command interface is single-tenant (spec.md §1 "one configuration
// owns the whole process"), so there is no per-user role or session to
// carry, unlike the teacher's CustomClaims.
type commandClaims struct {
	jwt.RegisteredClaims
}

// SignCommandToken issues a bearer token for the HTTP/WebSocket
// front-ends, signed the way the teacher signs access tokens
// (HS256, golang-jwt/jwt/v5) but without the per-user claims that
// don't apply to a single-tenant process.
func SignCommandToken(secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := commandClaims{RegisteredClaims: jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func verifyCommandToken(tokenString, secret string) error {
	_, err := jwt.ParseWithClaims(tokenString, &commandClaims{}, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err
}

// RequireBearer wraps an http.Handler with bearer-token gating
// (spec.md §2 expansion: "bearer-token check... gated by
// security.api_keys.enabled"). The serial front-end is presumed
// physically local and is never wrapped.
func RequireBearer(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tok == "" || verifyCommandToken(tok, secret) != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// wsTokenOK validates the ticket query parameter WebSocket clients use
// in place of an Authorization header (browsers cannot set custom
// headers on the WebSocket upgrade request).
func wsTokenOK(r *http.Request, secret string) bool {
	tok := r.URL.Query().Get("token")
	return tok != "" && verifyCommandToken(tok, secret) == nil
}
