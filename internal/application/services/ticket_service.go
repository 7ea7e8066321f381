package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"board-service/internal/application/command"
	"board-service/internal/application/common"
	"board-service/internal/application/interfaces"
	"board-service/internal/application/mapper"
	"board-service/internal/application/query"
	"board-service/internal/domain"
	"board-service/internal/domain/entities"
	"board-service/internal/domain/repositories"
	"board-service/internal/infrastructure/messaging"
)

var (
	errTicketNotFound   = domain.NotFound("Ticket not found")
	errAssigneeNotFound = domain.Validation("Assignee not found")
)

type TicketService struct {
	ticketRepo  repositories.TicketRepository
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
	background  *Background
}

func NewTicketService(
	ticketRepo repositories.TicketRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	background *Background,
) interfaces.TicketService {
	return &TicketService{
		ticketRepo:  ticketRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		background:  background,
	}
}

// ListTickets returns every ticket grouped by status; all four keys are
// always present.
func (s *TicketService) ListTickets(ctx context.Context, listQuery *query.TicketListQuery) (map[entities.Status][]*common.TicketResult, error) {
	var filter repositories.TicketFilter
	if listQuery.ProjectId != "" {
		project, err := s.findProject(ctx, listQuery.ProjectId)
		if err != nil {
			return nil, err
		}
		filter.ProjectId = &project.Id
	}

	tickets, err := s.ticketRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapper.NewGroupedTicketResults(tickets), nil
}

func (s *TicketService) CreateTicket(ctx context.Context, createCommand *command.CreateTicketCommand) (*common.TicketResult, error) {
	if createCommand.ProjectId == "" {
		return nil, domain.Validation("project_id is required")
	}
	project, err := s.findProject(ctx, createCommand.ProjectId)
	if err != nil {
		return nil, err
	}

	ticket := entities.NewTicket(
		strings.TrimSpace(createCommand.Name),
		strings.TrimSpace(createCommand.Description),
		entities.Status(createCommand.Status),
		project.Id,
	)
	ticket.MoveTo(project)
	if err := ticket.Validate(); err != nil {
		return nil, err
	}

	if createCommand.AssigneeId != "" {
		assignee, err := s.findAssignee(ctx, createCommand.AssigneeId)
		if err != nil {
			return nil, err
		}
		ticket.Assign(assignee)
	}

	createdTicket, err := s.ticketRepo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}

	result := mapper.NewTicketResultFromEntity(createdTicket)
	s.background.Emit(messaging.TicketCreated, createdTicket.ProjectId, result)
	return result, nil
}

func (s *TicketService) UpdateTicket(ctx context.Context, id uint, updateCommand *command.UpdateTicketCommand) (*common.TicketResult, error) {
	ticket, err := s.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	if updateCommand.AssigneeId != nil && *updateCommand.AssigneeId != "" {
		assignee, err := s.findAssignee(ctx, *updateCommand.AssigneeId)
		if err != nil {
			return nil, err
		}
		ticket.Assign(assignee)
	}

	if updateCommand.ProjectId != nil && *updateCommand.ProjectId != "" {
		project, err := s.findProject(ctx, *updateCommand.ProjectId)
		if err != nil {
			return nil, err
		}
		ticket.MoveTo(project)
	}

	if updateCommand.Name != nil {
		ticket.Name = strings.TrimSpace(*updateCommand.Name)
	}
	if updateCommand.Description != nil {
		ticket.Description = strings.TrimSpace(*updateCommand.Description)
	}
	if updateCommand.Status != nil {
		ticket.Status = entities.Status(*updateCommand.Status)
	}
	if err := ticket.Validate(); err != nil {
		return nil, err
	}

	updatedTicket, err := s.ticketRepo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	result := mapper.NewTicketResultFromEntity(updatedTicket)
	s.background.Emit(messaging.TicketUpdated, updatedTicket.ProjectId, result)
	return result, nil
}

func (s *TicketService) DeleteTicket(ctx context.Context, id uint) (*common.MessageResult, error) {
	ticket, err := s.findTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Delete(ctx, ticket.Id); err != nil {
		return nil, err
	}

	s.background.Emit(messaging.TicketDeleted, ticket.ProjectId, map[string]uint{"id": ticket.Id})
	return &common.MessageResult{Message: "Ticket deleted successfully"}, nil
}

func (s *TicketService) findTicket(ctx context.Context, id uint) (*entities.Ticket, error) {
	ticket, err := s.ticketRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, errTicketNotFound
	}
	return ticket, nil
}

// findProject treats an unparsable id like an unknown one.
func (s *TicketService) findProject(ctx context.Context, rawID string) (*entities.Project, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errProjectNotFound
	}
	project, err := s.projectRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errProjectNotFound
	}
	return project, nil
}

func (s *TicketService) findAssignee(ctx context.Context, rawID string) (*entities.User, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errAssigneeNotFound
	}
	user, err := s.userRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errAssigneeNotFound
	}
	return user, nil
}
