package command

type CreateCommentCommand struct {
	Content string `json:"content"`
}

type UpdateCommentCommand struct {
	Content *string `json:"content"`
}
