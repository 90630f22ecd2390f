package ports

import "context"

// SessionStore keeps the society each user has selected.
type SessionStore interface {
	SelectedSociety(ctx context.Context, userID string) (string, error)
	SelectSociety(ctx context.Context, userID, societyID string) error
	ClearSociety(ctx context.Context, userID string) error
}
