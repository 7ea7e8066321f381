package command

type CreateTicketCommand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	ProjectId   string `json:"project_id"`
	AssigneeId  string `json:"assignee_id"`
}

// UpdateTicketCommand is a partial update: nil fields are untouched.
// Empty AssigneeId and ProjectId are ignored too, so a ticket cannot be
// unassigned through an update.
type UpdateTicketCommand struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssigneeId  *string `json:"assignee_id"`
	ProjectId   *string `json:"project_id"`
}
