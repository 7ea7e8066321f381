package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"board-service/internal/domain/entities"
	"board-service/internal/domain/repositories"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) repositories.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *entities.Comment) (*entities.Comment, error) {
	commentModel := CommentModel{
		Id:          comment.Id,
		TicketId:    comment.TicketId,
		CommentorId: comment.CommentorId,
		Content:     comment.Content,
		CreatedAt:   comment.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&commentModel).Error; err != nil {
		return nil, err
	}

	return r.FindById(ctx, comment.Id)
}

func (r *CommentRepository) FindById(ctx context.Context, id uuid.UUID) (*entities.Comment, error) {
	var commentModel CommentModel
	if err := r.db.WithContext(ctx).Preload("Commentor").Where("id = ?", id).First(&commentModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toCommentEntity(&commentModel), nil
}

func (r *CommentRepository) FindByTicket(ctx context.Context, ticketID uint) ([]*entities.Comment, error) {
	var commentModels []CommentModel
	err := r.db.WithContext(ctx).
		Preload("Commentor").
		Where("ticket_id = ?", ticketID).
		Order("created_at asc").
		Find(&commentModels).Error
	if err != nil {
		return nil, err
	}

	comments := make([]*entities.Comment, 0, len(commentModels))
	for i := range commentModels {
		comments = append(comments, toCommentEntity(&commentModels[i]))
	}
	return comments, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *entities.Comment) (*entities.Comment, error) {
	err := r.db.WithContext(ctx).
		Model(&CommentModel{Id: comment.Id}).
		Update("content", comment.Content).Error
	if err != nil {
		return nil, err
	}

	return r.FindById(ctx, comment.Id)
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&CommentModel{}, "id = ?", id).Error
}

func toCommentEntity(commentModel *CommentModel) *entities.Comment {
	comment := &entities.Comment{
		Id:          commentModel.Id,
		TicketId:    commentModel.TicketId,
		CommentorId: commentModel.CommentorId,
		Content:     commentModel.Content,
		CreatedAt:   commentModel.CreatedAt,
	}
	if commentModel.Commentor.Id != uuid.Nil {
		comment.Commentor = toUserEntity(&commentModel.Commentor)
	}
	return comment
}
