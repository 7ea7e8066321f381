package services

import (
	"context"

	"github.com/google/uuid"

	"board-service/internal/application/command"
	"board-service/internal/application/common"
	"board-service/internal/application/interfaces"
	"board-service/internal/application/mapper"
	"board-service/internal/domain"
	"board-service/internal/domain/entities"
	"board-service/internal/domain/repositories"
	"board-service/internal/infrastructure/email"
	"board-service/internal/infrastructure/messaging"
)

// previewWords is how much of a comment the assignee sees in the email.
const previewWords = 10

var errCommentNotFound = domain.NotFound("Comment not found")

type CommentService struct {
	commentRepo repositories.CommentRepository
	ticketRepo  repositories.TicketRepository
	notifier    email.Notifier
	background  *Background
}

func NewCommentService(
	commentRepo repositories.CommentRepository,
	ticketRepo repositories.TicketRepository,
	notifier email.Notifier,
	background *Background,
) interfaces.CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		ticketRepo:  ticketRepo,
		notifier:    notifier,
		background:  background,
	}
}

func (s *CommentService) ListComments(ctx context.Context, ticketID uint) ([]*common.CommentResult, error) {
	if _, err := s.findTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.FindByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return mapper.NewCommentResultsFromEntities(comments), nil
}

// CreateComment stores the comment and then emails the ticket's assignee,
// if any. The email is sent in the background and its outcome does not
// affect the result.
func (s *CommentService) CreateComment(ctx context.Context, user *entities.User, ticketID uint, createCommand *command.CreateCommentCommand) (*common.CommentResult, error) {
	ticket, err := s.findTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	comment := entities.NewComment(ticket, user, createCommand.Content)
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	createdComment, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	if ticket.Assignee != nil && s.notifier != nil {
		notification := email.CommentNotification{
			To:            ticket.Assignee.Email,
			CommentorName: user.Name,
			TicketName:    ticket.Name,
			Preview:       comment.Preview(previewWords),
		}
		s.background.Go("comment notification", func(ctx context.Context) error {
			return s.notifier.NotifyComment(ctx, notification)
		})
	}

	result := mapper.NewCommentResultFromEntity(createdComment)
	s.background.Emit(messaging.CommentCreated, ticket.ProjectId, result)
	return result, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, user *entities.User, id uuid.UUID, updateCommand *command.UpdateCommentCommand) (*common.CommentResult, error) {
	comment, err := s.findOwnComment(ctx, user, id, "Only the commentor can update this comment")
	if err != nil {
		return nil, err
	}

	if updateCommand.Content != nil && *updateCommand.Content != "" {
		if err := comment.Edit(*updateCommand.Content); err != nil {
			return nil, err
		}
		if comment, err = s.commentRepo.Update(ctx, comment); err != nil {
			return nil, err
		}
	}

	result := mapper.NewCommentResultFromEntity(comment)
	s.emitForTicket(ctx, messaging.CommentUpdated, comment.TicketId, result)
	return result, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, user *entities.User, id uuid.UUID) (*common.MessageResult, error) {
	comment, err := s.findOwnComment(ctx, user, id, "Only the commentor can delete this comment")
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.Delete(ctx, comment.Id); err != nil {
		return nil, err
	}

	s.emitForTicket(ctx, messaging.CommentDeleted, comment.TicketId, map[string]any{"id": comment.Id, "ticket": comment.TicketId})
	return &common.MessageResult{Message: "Comment deleted successfully"}, nil
}

func (s *CommentService) findOwnComment(ctx context.Context, user *entities.User, id uuid.UUID, forbidden string) (*entities.Comment, error) {
	comment, err := s.commentRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, errCommentNotFound
	}
	if !comment.IsAuthoredBy(user.Id) {
		return nil, domain.Forbidden(forbidden)
	}
	return comment, nil
}

func (s *CommentService) findTicket(ctx context.Context, id uint) (*entities.Ticket, error) {
	ticket, err := s.ticketRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, errTicketNotFound
	}
	return ticket, nil
}

// emitForTicket publishes under the ticket's project. Comments only know
// their ticket, so an unresolvable ticket skips the event.
func (s *CommentService) emitForTicket(ctx context.Context, t messaging.EventType, ticketID uint, payload any) {
	ticket, err := s.ticketRepo.FindById(ctx, ticketID)
	if err != nil || ticket == nil {
		return
	}
	s.background.Emit(t, ticket.ProjectId, payload)
}
