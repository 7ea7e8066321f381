package postgres

import (
	"time"

	"github.com/google/uuid"
)

type UserModel struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	Name      string `gorm:"size:255;not null"`
	Password  string `gorm:"size:255;not null"`
}

func (UserModel) TableName() string {
	return "users"
}

type ProjectModel struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:255;not null"`
	CreatedById uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy   UserModel `gorm:"foreignKey:CreatedById;constraint:OnDelete:CASCADE"`
}

func (ProjectModel) TableName() string {
	return "projects"
}

// TicketModel keeps the ticket when its assignee goes away but not when its
// project does.
type TicketModel struct {
	Id          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`
	Status      string `gorm:"size:20;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	ProjectId uuid.UUID    `gorm:"type:uuid;not null;index"`
	Project   ProjectModel `gorm:"foreignKey:ProjectId;constraint:OnDelete:CASCADE"`

	AssigneeId *uuid.UUID `gorm:"type:uuid;index"`
	Assignee   *UserModel `gorm:"foreignKey:AssigneeId;constraint:OnDelete:SET NULL"`
}

func (TicketModel) TableName() string {
	return "tickets"
}

type CommentModel struct {
	Id          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	TicketId    uint        `gorm:"not null;index"`
	Ticket      TicketModel `gorm:"foreignKey:TicketId;constraint:OnDelete:CASCADE"`
	CommentorId uuid.UUID   `gorm:"type:uuid;not null;index"`
	Commentor   UserModel   `gorm:"foreignKey:CommentorId;constraint:OnDelete:CASCADE"`
	Content     string      `gorm:"type:text;not null"`
	CreatedAt   time.Time   `gorm:"index"`
}

func (CommentModel) TableName() string {
	return "comments"
}
