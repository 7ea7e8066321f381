package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"board-service/internal/domain"
)

type Comment struct {
	Id          uuid.UUID
	TicketId    uint
	Ticket      *Ticket
	CommentorId uuid.UUID
	Commentor   *User
	Content     string
	CreatedAt   time.Time
}

func NewComment(ticket *Ticket, commentor *User, content string) *Comment {
	return &Comment{
		Id:          uuid.New(),
		TicketId:    ticket.Id,
		Ticket:      ticket,
		CommentorId: commentor.Id,
		Commentor:   commentor,
		Content:     strings.TrimSpace(content),
		CreatedAt:   time.Now(),
	}
}

func (c *Comment) Validate() error {
	if c.Content == "" {
		return domain.Validation("content is required and cannot be empty")
	}
	return nil
}

func (c *Comment) Edit(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Validation("content cannot be empty")
	}
	c.Content = content
	return nil
}

func (c *Comment) IsAuthoredBy(userID uuid.UUID) bool {
	return c.CommentorId == userID
}

// Preview returns the first maxWords words of the content, with "..."
// appended when words were dropped.
func (c *Comment) Preview(maxWords int) string {
	words := strings.Fields(c.Content)
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
