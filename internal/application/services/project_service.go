package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"board-service/internal/application/command"
	"board-service/internal/application/common"
	"board-service/internal/application/interfaces"
	"board-service/internal/application/mapper"
	"board-service/internal/domain"
	"board-service/internal/domain/entities"
	"board-service/internal/domain/repositories"
	"board-service/internal/infrastructure/messaging"
)

var errProjectNotFound = domain.NotFound("Project not found")

type ProjectService struct {
	projectRepo repositories.ProjectRepository
	background  *Background
}

func NewProjectService(projectRepo repositories.ProjectRepository, background *Background) interfaces.ProjectService {
	return &ProjectService{projectRepo: projectRepo, background: background}
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]*common.ProjectResult, error) {
	projects, err := s.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.NewProjectResultsFromEntities(projects), nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*common.ProjectResult, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapper.NewProjectResultFromEntity(project), nil
}

func (s *ProjectService) CreateProject(ctx context.Context, user *entities.User, createCommand *command.CreateProjectCommand) (*common.ProjectResult, error) {
	project := entities.NewProject(createCommand.Name, user)
	if err := project.Validate(); err != nil {
		return nil, err
	}

	createdProject, err := s.projectRepo.Create(ctx, project)
	if err != nil {
		return nil, err
	}

	result := mapper.NewProjectResultFromEntity(createdProject)
	s.background.Emit(messaging.ProjectCreated, createdProject.Id, result)
	return result, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, user *entities.User, id uuid.UUID, updateCommand *command.UpdateProjectCommand) (*common.ProjectResult, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.IsOwnedBy(user.Id) {
		return nil, domain.Forbidden("Only the project creator can update this project")
	}

	if updateCommand.Name != nil {
		if name := strings.TrimSpace(*updateCommand.Name); name != "" {
			project.Name = name
			if err := project.Validate(); err != nil {
				return nil, err
			}
			if project, err = s.projectRepo.Update(ctx, project); err != nil {
				return nil, err
			}
		}
	}

	result := mapper.NewProjectResultFromEntity(project)
	s.background.Emit(messaging.ProjectUpdated, project.Id, result)
	return result, nil
}

// DeleteProject also removes the project's tickets.
func (s *ProjectService) DeleteProject(ctx context.Context, user *entities.User, id uuid.UUID) (*common.MessageResult, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.IsOwnedBy(user.Id) {
		return nil, domain.Forbidden("Only the project creator can delete this project")
	}

	if err := s.projectRepo.Delete(ctx, project.Id); err != nil {
		return nil, err
	}

	s.background.Emit(messaging.ProjectDeleted, project.Id, &common.ProjectRef{Id: project.Id, Name: project.Name})
	return &common.MessageResult{Message: fmt.Sprintf("Project %q deleted successfully", project.Name)}, nil
}

func (s *ProjectService) find(ctx context.Context, id uuid.UUID) (*entities.Project, error) {
	project, err := s.projectRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errProjectNotFound
	}
	return project, nil
}
