package interfaces

import (
	"context"

	"github.com/google/uuid"

	"board-service/internal/application/command"
	"board-service/internal/application/common"
	"board-service/internal/application/query"
	"board-service/internal/domain/entities"
)

type AuthService interface {
	Signup(ctx context.Context, signupCommand *command.SignupCommand) (*command.AuthResult, error)
	Login(ctx context.Context, loginCommand *command.LoginCommand) (*command.AuthResult, error)
	Logout(ctx context.Context, token string) (*common.MessageResult, error)
	Me(user *entities.User) *common.UserResult
	DeleteAccount(ctx context.Context, user *entities.User) (*common.MessageResult, error)
	SearchAssignees(ctx context.Context, searchQuery *query.AssigneeSearchQuery) ([]*common.UserResult, error)
}

type ProjectService interface {
	ListProjects(ctx context.Context) ([]*common.ProjectResult, error)
	GetProject(ctx context.Context, id uuid.UUID) (*common.ProjectResult, error)
	CreateProject(ctx context.Context, user *entities.User, createCommand *command.CreateProjectCommand) (*common.ProjectResult, error)
	UpdateProject(ctx context.Context, user *entities.User, id uuid.UUID, updateCommand *command.UpdateProjectCommand) (*common.ProjectResult, error)
	DeleteProject(ctx context.Context, user *entities.User, id uuid.UUID) (*common.MessageResult, error)
}

type TicketService interface {
	ListTickets(ctx context.Context, listQuery *query.TicketListQuery) (map[entities.Status][]*common.TicketResult, error)
	CreateTicket(ctx context.Context, createCommand *command.CreateTicketCommand) (*common.TicketResult, error)
	UpdateTicket(ctx context.Context, id uint, updateCommand *command.UpdateTicketCommand) (*common.TicketResult, error)
	DeleteTicket(ctx context.Context, id uint) (*common.MessageResult, error)
}

type CommentService interface {
	ListComments(ctx context.Context, ticketID uint) ([]*common.CommentResult, error)
	CreateComment(ctx context.Context, user *entities.User, ticketID uint, createCommand *command.CreateCommentCommand) (*common.CommentResult, error)
	UpdateComment(ctx context.Context, user *entities.User, id uuid.UUID, updateCommand *command.UpdateCommentCommand) (*common.CommentResult, error)
	DeleteComment(ctx context.Context, user *entities.User, id uuid.UUID) (*common.MessageResult, error)
}
