package identity_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/boardstream/boardstream/internal/identity"
)

const secret = "identity-test-secret"

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func token(t *testing.T, userID string, ttl time.Duration) string {
	t.Helper()
	return sign(t, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(ttl).Unix(),
	}, secret)
}

func request(t *testing.T, decorate func(*http.Request)) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if decorate != nil {
		decorate(req)
	}
	return req
}

func TestResolve_ValidBearerToken(t *testing.T) {
	r := identity.New([]byte(secret), "accessToken")
	req := request(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token(t, "u1", time.Minute))
	})
	if got := r.Resolve(req); got != "u1" {
		t.Errorf("Resolve: got %q, want u1", got)
	}
}

func TestResolve_QueryParameter(t *testing.T) {
	r := identity.New([]byte(secret), "accessToken")
	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token(t, "u2", time.Minute), nil)
	if got := r.Resolve(req); got != "u2" {
		t.Errorf("Resolve: got %q, want u2", got)
	}
}

func TestResolve_Cookie(t *testing.T) {
	r := identity.New([]byte(secret), "accessToken")
	req := request(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token(t, "u3", time.Minute)})
	})
	if got := r.Resolve(req); got != "u3" {
		t.Errorf("Resolve: got %q, want u3", got)
	}
}

// Every failure mode below must resolve to anonymous, never reject.
func TestResolve_FailOpen(t *testing.T) {
	r := identity.New([]byte(secret), "accessToken")

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage", "not-a-jwt"},
		{"expired", token(t, "u1", -time.Minute)},
		{"wrong key", sign(t, jwt.MapClaims{"userId": "u1", "exp": time.Now().Add(time.Minute).Unix()}, "other-secret")},
		{"no userId claim", sign(t, jwt.MapClaims{"exp": time.Now().Add(time.Minute).Unix()}, secret)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(t, func(req *http.Request) {
				if tt.token != "" {
					req.Header.Set("Authorization", "Bearer "+tt.token)
				}
			})
			if got := r.Resolve(req); got != "" {
				t.Errorf("Resolve: got %q, want anonymous", got)
			}
		})
	}
}

func TestResolve_NoSecretConfigured(t *testing.T) {
	r := identity.New(nil, "accessToken")
	req := request(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token(t, "u1", time.Minute))
	})
	if got := r.Resolve(req); got != "" {
		t.Errorf("Resolve without secret: got %q, want anonymous", got)
	}
}

func TestSetSecret_RotatesAtRuntime(t *testing.T) {
	r := identity.New([]byte("old-secret"), "accessToken")
	req := request(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token(t, "u1", time.Minute))
	})

	if got := r.Resolve(req); got != "" {
		t.Fatalf("Resolve before rotation: got %q, want anonymous", got)
	}
	r.SetSecret([]byte(secret))
	if got := r.Resolve(req); got != "u1" {
		t.Errorf("Resolve after rotation: got %q, want u1", got)
	}
}
