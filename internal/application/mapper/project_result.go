package mapper

import (
	"board-service/internal/application/common"
	"board-service/internal/domain/entities"
)

func NewProjectResultFromEntity(project *entities.Project) *common.ProjectResult {
	return &common.ProjectResult{
		Id:        project.Id,
		Name:      project.Name,
		CreatedBy: NewUserResultFromEntity(project.CreatedBy),
	}
}

func NewProjectResultsFromEntities(projects []*entities.Project) []*common.ProjectResult {
	results := make([]*common.ProjectResult, 0, len(projects))
	for _, project := range projects {
		results = append(results, NewProjectResultFromEntity(project))
	}
	return results
}
