package repositories

import (
	"context"

	"github.com/google/uuid"

	"board-service/internal/domain/entities"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entities.Project) (*entities.Project, error)
	FindById(ctx context.Context, id uuid.UUID) (*entities.Project, error)
	FindByName(ctx context.Context, name string) (*entities.Project, error)
	FindAll(ctx context.Context) ([]*entities.Project, error)
	Update(ctx context.Context, project *entities.Project) (*entities.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
