package mapper

import (
	"board-service/internal/application/common"
	"board-service/internal/domain/entities"
)

func NewCommentResultFromEntity(comment *entities.Comment) *common.CommentResult {
	return &common.CommentResult{
		Id:        comment.Id,
		Ticket:    comment.TicketId,
		Commentor: NewUserResultFromEntity(comment.Commentor),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

func NewCommentResultsFromEntities(comments []*entities.Comment) []*common.CommentResult {
	results := make([]*common.CommentResult, 0, len(comments))
	for _, comment := range comments {
		results = append(results, NewCommentResultFromEntity(comment))
	}
	return results
}
