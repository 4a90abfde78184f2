package users

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

var ErrDuplicateEmail = errDuplicateEmail{}

type errDuplicateEmail struct{}

func (errDuplicateEmail) Error() string { return "email already registered" }

type Repo interface {
	// Create inserts the account and its profile in one atomic unit.
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
}
