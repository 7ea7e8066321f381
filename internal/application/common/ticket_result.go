package common

import "board-service/internal/domain/entities"

type TicketResult struct {
	Id          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      entities.Status `json:"status"`
	Assignee    *UserResult     `json:"assignee"`
	Project     *ProjectRef     `json:"project"`
}
