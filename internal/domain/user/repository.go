package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// ListByRole returns users of the role ordered by name.
	ListByRole(ctx context.Context, role Role) ([]User, error)
}
