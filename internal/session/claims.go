package session

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenExpiry peeks at the exp claim of a JWT without verifying the
// signature. Diagnostics only: the client never expires a session itself,
// it trusts the backend's 401 for that.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
