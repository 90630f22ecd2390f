package apiclient

import (
	"context"
	"crypto/rsa"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
)

const (
	serviceSubject = "dashboard-gateway"
	serviceRole    = "SERVICE"
	serviceTTL     = 15 * time.Minute
	refreshBefore  = time.Minute
)

// TokenSource picks the bearer token for an upstream call: the caller's own
// token when the request carries one, otherwise a short-lived service token
// signed with the gateway's key. Without a key, calls go out unauthenticated.
type TokenSource struct {
	privateKey *rsa.PrivateKey
	now        func() time.Time

	mu        sync.Mutex
	cached    string
	expiresAt time.Time
}

func NewTokenSource(privateKey *rsa.PrivateKey) *TokenSource {
	return &TokenSource{privateKey: privateKey, now: time.Now}
}

func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if token := domain.BearerFrom(ctx); token != "" {
		return token, nil
	}
	if s.privateKey == nil {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cached != "" && now.Add(refreshBefore).Before(s.expiresAt) {
		return s.cached, nil
	}

	expiresAt := now.Add(serviceTTL)
	claims := jwt.MapClaims{
		"sub":  serviceSubject,
		"role": serviceRole,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", err
	}
	s.cached, s.expiresAt = signed, expiresAt
	return signed, nil
}
