package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"travelguide/internal/microservices/http-api/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	ListByLocation(ctx context.Context, locationID int64, page, pageSize int) ([]models.Review, int64, error)
	// AddLike records the like; it returns gorm.ErrDuplicatedKey when the user
	// already likes the review.
	AddLike(ctx context.Context, reviewID int64, userID string) error
	CountLikes(ctx context.Context, reviewID int64) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit("User", "Location").Create(review).Error
}

// GetByID loads the review with its author and location, which notifications need.
func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Location").
		First(&review, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByLocation(ctx context.Context, locationID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("location_id = ?", locationID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) AddLike(ctx context.Context, reviewID int64, userID string) error {
	var existing int64
	if err := r.db.WithContext(ctx).Model(&models.ReviewLike{}).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return gorm.ErrDuplicatedKey
	}

	like := &models.ReviewLike{ReviewID: reviewID, UserID: userID}
	if err := r.db.WithContext(ctx).Omit("Review").Create(like).Error; err != nil {
		// a concurrent like can still trip the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return gorm.ErrDuplicatedKey
		}
		return err
	}
	return nil
}

func (r *reviewRepository) CountLikes(ctx context.Context, reviewID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.ReviewLike{}).Where("review_id = ?", reviewID).Count(&total).Error
	return total, err
}
