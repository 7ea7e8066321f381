package query

type TicketListQuery struct {
	// ProjectId restricts the listing when non-empty.
	ProjectId string `query:"project_id"`
}

type AssigneeSearchQuery struct {
	Q string `query:"q"`
}
