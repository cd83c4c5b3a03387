package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"travelguide/internal/microservices/http-api/models"
)

type FavoriteRepository interface {
	// Add is idempotent: favoriting twice keeps one row.
	Add(ctx context.Context, userID string, locationID int64) error
	Remove(ctx context.Context, userID string, locationID int64) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, userID string, locationID int64) error {
	fav := &models.Favorite{UserID: userID, LocationID: locationID}
	return r.db.WithContext(ctx).
		Omit("User", "Location").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fav).Error
}

func (r *favoriteRepository) Remove(ctx context.Context, userID string, locationID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND location_id = ?", userID, locationID).
		Delete(&models.Favorite{})
	return result.RowsAffected > 0, result.Error
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Location").
		Order("added_at DESC").
		Find(&favorites).Error
	return favorites, err
}
