package command

type CreateProjectCommand struct {
	Name string `json:"name"`
}

// UpdateProjectCommand leaves the name alone when it is absent or empty.
type UpdateProjectCommand struct {
	Name *string `json:"name"`
}
