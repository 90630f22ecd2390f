package domain

import "context"

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
)

// Session is the per-user context every society-scoped call receives.
// Token is the caller's bearer token, forwarded upstream.
type Session struct {
	UserID    string `json:"userId"`
	Role      Role   `json:"role"`
	SocietyID string `json:"societyId,omitempty"`
	Token     string `json:"-"`
}

func (s Session) HasSociety() bool {
	return s.SocietyID != ""
}

type bearerKey struct{}

// WithBearer attaches the caller's bearer token to ctx for upstream calls.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func BearerFrom(ctx context.Context) string {
	token, _ := ctx.Value(bearerKey{}).(string)
	return token
}

type sessionKey struct{}

// WithSession stores the authenticated caller on ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
