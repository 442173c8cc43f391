package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Resolver verifies HS256 access tokens presented during the WebSocket
// handshake or on REST requests. The signing secret can be swapped at runtime
// (config reload) without restarting.
type Resolver struct {
	mu         sync.RWMutex
	secret     []byte
	cookieName string
}

// New creates a Resolver checking tokens against secret. cookieName is the
// cookie fallback the token may arrive in (browsers cannot set headers on a
// WebSocket handshake).
func New(secret []byte, cookieName string) *Resolver {
	return &Resolver{secret: secret, cookieName: cookieName}
}

// SetSecret replaces the signing secret. Existing connections keep the
// identity they resolved at handshake time.
func (r *Resolver) SetSecret(secret []byte) {
	r.mu.Lock()
	r.secret = secret
	r.mu.Unlock()
}

// Resolve extracts and verifies the caller's token, returning the user id or
// "" for an anonymous caller. It never returns an error: a missing, malformed,
// or expired token downgrades to anonymous so the connection can proceed.
// Per-operation authorization happens elsewhere.
func (r *Resolver) Resolve(req *http.Request) string {
	raw := r.token(req)
	if raw == "" {
		return ""
	}
	userID, err := r.verify(raw)
	if err != nil {
		return ""
	}
	return userID
}

// token locates the bearer token: Authorization header first, then the
// "token" query parameter, then the configured cookie.
func (r *Resolver) token(req *http.Request) string {
	if h := req.Header.Get("Authorization"); h != "" {
		if raw, ok := strings.CutPrefix(h, "Bearer "); ok {
			return raw
		}
	}
	if raw := req.URL.Query().Get("token"); raw != "" {
		return raw
	}
	if c, err := req.Cookie(r.cookieName); err == nil {
		return c.Value
	}
	return ""
}

func (r *Resolver) verify(raw string) (string, error) {
	r.mu.RLock()
	secret := r.secret
	r.mu.RUnlock()

	if len(secret) == 0 {
		return "", errors.New("identity: no signing secret configured")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("identity: unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}

	userID, _ := claims["userId"].(string)
	if userID == "" {
		return "", errors.New("identity: token carries no userId claim")
	}
	return userID, nil
}
