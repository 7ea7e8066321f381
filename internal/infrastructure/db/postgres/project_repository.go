package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"board-service/internal/domain/entities"
	"board-service/internal/domain/repositories"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) repositories.ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *entities.Project) (*entities.Project, error) {
	projectModel := ProjectModel{
		Id:          project.Id,
		Name:        project.Name,
		CreatedById: project.CreatedById,
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&projectModel).Error; err != nil {
		return nil, err
	}

	return r.FindById(ctx, project.Id)
}

func (r *ProjectRepository) FindById(ctx context.Context, id uuid.UUID) (*entities.Project, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *ProjectRepository) FindByName(ctx context.Context, name string) (*entities.Project, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]*entities.Project, error) {
	var projectModels []ProjectModel
	if err := r.db.WithContext(ctx).Preload("CreatedBy").Order("name asc").Order("id asc").Find(&projectModels).Error; err != nil {
		return nil, err
	}

	projects := make([]*entities.Project, 0, len(projectModels))
	for i := range projectModels {
		projects = append(projects, toProjectEntity(&projectModels[i]))
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *entities.Project) (*entities.Project, error) {
	err := r.db.WithContext(ctx).
		Model(&ProjectModel{Id: project.Id}).
		Select("Name").
		Updates(ProjectModel{Name: project.Name}).Error
	if err != nil {
		return nil, err
	}

	return r.FindById(ctx, project.Id)
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&ProjectModel{}, "id = ?", id).Error
}

func (r *ProjectRepository) findOne(ctx context.Context, query string, arg any) (*entities.Project, error) {
	var projectModel ProjectModel
	if err := r.db.WithContext(ctx).Preload("CreatedBy").Where(query, arg).First(&projectModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toProjectEntity(&projectModel), nil
}

func toProjectEntity(projectModel *ProjectModel) *entities.Project {
	project := &entities.Project{
		Id:          projectModel.Id,
		Name:        projectModel.Name,
		CreatedById: projectModel.CreatedById,
	}
	if projectModel.CreatedBy.Id != uuid.Nil {
		project.CreatedBy = toUserEntity(&projectModel.CreatedBy)
	}
	return project
}
