package common

import "github.com/google/uuid"

type ProjectResult struct {
	Id        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	CreatedBy *UserResult `json:"created_by"`
}

// ProjectRef is the short form embedded in tickets.
type ProjectRef struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
