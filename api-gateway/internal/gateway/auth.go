package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserAdmin = "X-User-Admin"
	HeaderRequestID = "X-Request-ID"

	tokenCookie = "token"
)

var (
	ErrNoToken      = errors.New("no token")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	ID      string `json:"id,omitempty"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

type Identity struct {
	UserID  string
	IsAdmin bool
}

// tokenFromRequest prefers the session cookie over the Authorization header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(tokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// Authenticate verifies the caller's HS256 token and resolves its identity.
func (g *Gateway) Authenticate(r *http.Request) (Identity, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return Identity{}, ErrNoToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(g.config.JWTSecret), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	operator := g.config.AdminEmail != "" && strings.EqualFold(claims.Email, g.config.AdminEmail)
	if claims.ID == "" {
		// The operator token carries only the admin email.
		if !operator {
			return Identity{}, fmt.Errorf("%w: missing id claim", ErrInvalidToken)
		}
		return Identity{UserID: strings.ToLower(claims.Email), IsAdmin: true}, nil
	}
	return Identity{UserID: claims.ID, IsAdmin: claims.IsAdmin || operator}, nil
}

// setIdentityHeaders replaces whatever identity the client claimed with the
// verified one. A nil identity leaves the request anonymous.
func setIdentityHeaders(h http.Header, id *Identity) {
	h.Del(HeaderUserID)
	h.Del(HeaderUserAdmin)
	if id == nil {
		return
	}
	h.Set(HeaderUserID, id.UserID)
	h.Set(HeaderUserAdmin, strconv.FormatBool(id.IsAdmin))
}
