package repositories

import (
	"context"

	"github.com/google/uuid"

	"board-service/internal/domain/entities"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entities.Comment) (*entities.Comment, error)
	FindById(ctx context.Context, id uuid.UUID) (*entities.Comment, error)
	// FindByTicket returns comments oldest first.
	FindByTicket(ctx context.Context, ticketID uint) ([]*entities.Comment, error)
	Update(ctx context.Context, comment *entities.Comment) (*entities.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
