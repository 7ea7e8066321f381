package entities

import (
	"strings"

	"github.com/google/uuid"

	"board-service/internal/domain"
)

type Project struct {
	Id          uuid.UUID
	Name        string
	CreatedById uuid.UUID
	CreatedBy   *User
}

func NewProject(name string, creator *User) *Project {
	return &Project{
		Id:          uuid.New(),
		Name:        strings.TrimSpace(name),
		CreatedById: creator.Id,
		CreatedBy:   creator,
	}
}

func (p *Project) Validate() error {
	if p.Name == "" {
		return domain.Validation("name is required")
	}
	if len(p.Name) > 255 {
		return domain.Validation("name must be at most 255 characters")
	}
	return nil
}

func (p *Project) IsOwnedBy(userID uuid.UUID) bool {
	return p.CreatedById == userID
}
