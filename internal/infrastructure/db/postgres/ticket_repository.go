package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"board-service/internal/domain/entities"
	"board-service/internal/domain/repositories"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) repositories.TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *entities.Ticket) (*entities.Ticket, error) {
	ticketModel := TicketModel{
		Name:        ticket.Name,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		ProjectId:   ticket.ProjectId,
		AssigneeId:  ticket.AssigneeId,
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&ticketModel).Error; err != nil {
		return nil, err
	}

	return r.FindById(ctx, ticketModel.Id)
}

func (r *TicketRepository) FindById(ctx context.Context, id uint) (*entities.Ticket, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *TicketRepository) FindByName(ctx context.Context, name string) (*entities.Ticket, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *TicketRepository) FindAll(ctx context.Context, filter repositories.TicketFilter) ([]*entities.Ticket, error) {
	query := r.preloaded(ctx).Order("id asc")
	if filter.ProjectId != nil {
		query = query.Where("project_id = ?", *filter.ProjectId)
	}

	var ticketModels []TicketModel
	if err := query.Find(&ticketModels).Error; err != nil {
		return nil, err
	}

	tickets := make([]*entities.Ticket, 0, len(ticketModels))
	for i := range ticketModels {
		tickets = append(tickets, toTicketEntity(&ticketModels[i]))
	}
	return tickets, nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket *entities.Ticket) (*entities.Ticket, error) {
	err := r.db.WithContext(ctx).
		Model(&TicketModel{Id: ticket.Id}).
		Select("Name", "Description", "Status", "ProjectId", "AssigneeId", "UpdatedAt").
		Updates(TicketModel{
			Name:        ticket.Name,
			Description: ticket.Description,
			Status:      string(ticket.Status),
			ProjectId:   ticket.ProjectId,
			AssigneeId:  ticket.AssigneeId,
			UpdatedAt:   time.Now(),
		}).Error
	if err != nil {
		return nil, err
	}

	return r.FindById(ctx, ticket.Id)
}

func (r *TicketRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&TicketModel{}, "id = ?", id).Error
}

func (r *TicketRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Assignee").Preload("Project")
}

func (r *TicketRepository) findOne(ctx context.Context, query string, arg any) (*entities.Ticket, error) {
	var ticketModel TicketModel
	if err := r.preloaded(ctx).Where(query, arg).First(&ticketModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toTicketEntity(&ticketModel), nil
}

func toTicketEntity(ticketModel *TicketModel) *entities.Ticket {
	ticket := &entities.Ticket{
		Id:          ticketModel.Id,
		Name:        ticketModel.Name,
		Description: ticketModel.Description,
		Status:      entities.Status(ticketModel.Status),
		ProjectId:   ticketModel.ProjectId,
		AssigneeId:  ticketModel.AssigneeId,
	}
	if ticketModel.Project.Id != uuid.Nil {
		ticket.Project = toProjectEntity(&ticketModel.Project)
	}
	if ticketModel.Assignee != nil {
		ticket.Assignee = toUserEntity(ticketModel.Assignee)
	}
	return ticket
}
