package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"board-service/internal/domain/entities"
)

// ErrDuplicateEmail is returned by Create when the email is already taken.
var ErrDuplicateEmail = errors.New("email already registered")

// Find* methods return nil, nil when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error)
	FindById(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Search(ctx context.Context, term string, limit int) ([]*entities.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
