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

type ReviewService interface {
	// Create posts a review and notifies the location's owner.
	Create(ctx context.Context, userID string, locationID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ListByLocation(ctx context.Context, locationID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error)
	// Like records a like and notifies the review's author. A second like by
	// the same user returns ErrAlreadyLiked and notifies nobody.
	Like(ctx context.Context, userID string, reviewID int64) (*dto.LikeResponse, error)
}

type reviewService struct {
	reviewRepo   repository.ReviewRepository
	locationRepo repository.LocationRepository
	userRepo     repository.UserRepository
	notifier     Notifier
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

func (s *reviewService) Create(ctx context.Context, userID string, locationID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, notFound(err, "location")
	}

	review := &models.Review{
		UserID:     userID,
		LocationID: locationID,
		Rating:     req.Rating,
		Content:    req.Content,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	evt := actorEvent(ctx, s.userRepo, userID, models.NotificationNewReview)
	review.User.Username = evt.ActorName
	resp := dto.FromModelToReviewResponse(review)

	evt.RecipientID = location.OwnerID
	evt.Payload.LocationID = location.ID
	evt.Payload.LocationName = location.Name
	evt.Payload.LocationImage = location.ImageURL
	evt.Payload.ReviewID = review.ID
	evt.Payload.Text = review.Content
	evt.Payload.Entity = resp
	s.notifier.Dispatch(evt)

	return resp, nil
}

func (s *reviewService) ListByLocation(ctx context.Context, locationID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	page, pageSize = dto.NormalizePage(page, pageSize)
	reviews, total, err := s.reviewRepo.ListByLocation(ctx, locationID, page, pageSize)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginated(out, int(total), page, pageSize), nil
}

func (s *reviewService) Like(ctx context.Context, userID string, reviewID int64) (*dto.LikeResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, notFound(err, "review")
	}

	if err := s.reviewRepo.AddLike(ctx, reviewID, userID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyLiked
		}
		return nil, fmt.Errorf("like review: %w", err)
	}

	evt := actorEvent(ctx, s.userRepo, userID, models.NotificationNewLike)
	evt.RecipientID = review.UserID
	evt.Payload.LocationID = review.LocationID
	evt.Payload.LocationName = review.Location.Name
	evt.Payload.LocationImage = review.Location.ImageURL
	evt.Payload.ReviewID = review.ID
	evt.Payload.Text = review.Content
	evt.Payload.Entity = dto.FromModelToReviewResponse(review)
	s.notifier.Dispatch(evt)

	resp := &dto.LikeResponse{Liked: true}
	if n, err := s.reviewRepo.CountLikes(ctx, reviewID); err == nil {
		resp.Likes = n
	}
	return resp, nil
}
