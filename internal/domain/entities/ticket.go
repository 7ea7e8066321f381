package entities

import (
	"github.com/google/uuid"

	"board-service/internal/domain"
)

type Ticket struct {
	Id          uint
	Name        string
	Description string
	Status      Status
	ProjectId   uuid.UUID
	Project     *Project
	AssigneeId  *uuid.UUID
	Assignee    *User
}

func NewTicket(name, description string, status Status, projectID uuid.UUID) *Ticket {
	if status == "" {
		status = StatusTodo
	}
	return &Ticket{
		Name:        name,
		Description: description,
		Status:      status,
		ProjectId:   projectID,
	}
}

func (t *Ticket) Validate() error {
	if t.Name == "" {
		return domain.Validation("name is required")
	}
	if len(t.Name) > 255 {
		return domain.Validation("name must be at most 255 characters")
	}
	if t.Description == "" {
		return domain.Validation("description is required")
	}
	if !t.Status.Valid() {
		_, err := ParseStatus(string(t.Status))
		return domain.Validation(err.Error())
	}
	if t.ProjectId == uuid.Nil {
		return domain.Validation("project_id is required")
	}
	return nil
}

func (t *Ticket) Assign(user *User) {
	if user == nil {
		t.AssigneeId = nil
		t.Assignee = nil
		return
	}
	id := user.Id
	t.AssigneeId = &id
	t.Assignee = user
}

func (t *Ticket) MoveTo(project *Project) {
	t.ProjectId = project.Id
	t.Project = project
}
