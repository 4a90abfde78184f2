package auth

import (
	"context"
	"time"
)

var ErrNoSession = errNoSession{}

type errNoSession struct{}

func (errNoSession) Error() string { return "no session for account" }

// Session is the single stored refresh-token record for an account. Only the
// bcrypt hash of the token's digest is persisted; rotation overwrites the row
// in place.
type Session struct {
	UserID    string
	TokenHash string
	IP        string
	UserAgent string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionRepo persists refresh-token records keyed by account id.
type SessionRepo interface {
	// Save inserts or replaces the session row for the account.
	Save(ctx context.Context, session Session) error
	Get(ctx context.Context, userID string) (Session, error)
	Delete(ctx context.Context, userID string) error
}
