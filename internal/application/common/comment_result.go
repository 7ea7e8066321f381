package common

import (
	"time"

	"github.com/google/uuid"
)

type CommentResult struct {
	Id        uuid.UUID   `json:"id"`
	Ticket    uint        `json:"ticket"`
	Commentor *UserResult `json:"commentor"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}
