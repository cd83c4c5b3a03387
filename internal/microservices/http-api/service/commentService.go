package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/models"
	"travelguide/internal/microservices/http-api/repository"
)

type CommentService interface {
	// CreateComment replies to a review and notifies the review's author.
	CreateComment(ctx context.Context, userID string, reviewID int64, content string) (*dto.CommentResponse, error)
	GetReviewComments(ctx context.Context, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error)
	// LikeComment notifies the comment's author; a repeat like returns ErrAlreadyLiked.
	LikeComment(ctx context.Context, userID string, commentID int64) (*dto.LikeResponse, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
	notifier    Notifier
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID string, reviewID int64, content string) (*dto.CommentResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, notFound(err, "review")
	}

	comment := &models.Comment{
		UserID:   userID,
		ReviewID: reviewID,
		Content:  content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	evt := actorEvent(ctx, s.userRepo, userID, models.NotificationNewReply)
	comment.User.Username = evt.ActorName
	resp := dto.FromModelToCommentResponse(comment)

	evt.RecipientID = review.UserID
	evt.Payload.LocationID = review.LocationID
	evt.Payload.LocationName = review.Location.Name
	evt.Payload.LocationImage = review.Location.ImageURL
	evt.Payload.ReviewID = review.ID
	evt.Payload.CommentID = comment.ID
	evt.Payload.Text = comment.Content
	evt.Payload.Entity = resp
	s.notifier.Dispatch(evt)

	return resp, nil
}

func (s *commentService) GetReviewComments(ctx context.Context, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	page, pageSize = dto.NormalizePage(page, pageSize)
	comments, total, err := s.commentRepo.GetByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return dto.NewPaginated(out, int(total), page, pageSize), nil
}

func (s *commentService) LikeComment(ctx context.Context, userID string, commentID int64) (*dto.LikeResponse, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, "comment")
	}

	if err := s.commentRepo.AddLike(ctx, commentID, userID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyLiked
		}
		return nil, fmt.Errorf("like comment: %w", err)
	}

	evt := actorEvent(ctx, s.userRepo, userID, models.NotificationNewCommentLike)
	evt.RecipientID = comment.UserID
	evt.Payload.LocationID = comment.Review.LocationID
	evt.Payload.LocationName = comment.Review.Location.Name
	evt.Payload.LocationImage = comment.Review.Location.ImageURL
	evt.Payload.ReviewID = comment.ReviewID
	evt.Payload.CommentID = comment.ID
	evt.Payload.Text = comment.Content
	evt.Payload.Entity = dto.FromModelToCommentResponse(comment)
	s.notifier.Dispatch(evt)

	return &dto.LikeResponse{Liked: true}, nil
}
