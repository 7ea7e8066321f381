package mapper

import (
	"board-service/internal/application/common"
	"board-service/internal/domain/entities"
)

func NewTicketResultFromEntity(ticket *entities.Ticket) *common.TicketResult {
	result := &common.TicketResult{
		Id:          ticket.Id,
		Name:        ticket.Name,
		Description: ticket.Description,
		Status:      ticket.Status,
		Assignee:    NewUserResultFromEntity(ticket.Assignee),
	}
	if ticket.Project != nil {
		result.Project = &common.ProjectRef{Id: ticket.Project.Id, Name: ticket.Project.Name}
	}
	return result
}

// NewGroupedTicketResults buckets tickets under every status, empty or not.
func NewGroupedTicketResults(tickets []*entities.Ticket) map[entities.Status][]*common.TicketResult {
	results := make([]*common.TicketResult, 0, len(tickets))
	for _, ticket := range tickets {
		results = append(results, NewTicketResultFromEntity(ticket))
	}
	return entities.GroupByStatus(results, func(r *common.TicketResult) entities.Status {
		return r.Status
	})
}
