package repositories

import (
	"context"

	"github.com/google/uuid"

	"board-service/internal/domain/entities"
)

type TicketFilter struct {
	ProjectId *uuid.UUID
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *entities.Ticket) (*entities.Ticket, error)
	FindById(ctx context.Context, id uint) (*entities.Ticket, error)
	FindByName(ctx context.Context, name string) (*entities.Ticket, error)
	FindAll(ctx context.Context, filter TicketFilter) ([]*entities.Ticket, error)
	Update(ctx context.Context, ticket *entities.Ticket) (*entities.Ticket, error)
	Delete(ctx context.Context, id uint) error
}
