package repository

import (
	"context"

	"gorm.io/gorm"

	"travelguide/internal/microservices/http-api/models"
)

type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	List(ctx context.Context, category string, page, pageSize int) ([]models.Location, int64, error)
	UpdateImage(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(location).Error
}

func (r *locationRepository) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).Preload("Owner").First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// List returns locations newest first, optionally narrowed to one category.
func (r *locationRepository) List(ctx context.Context, category string, page, pageSize int) ([]models.Location, int64, error) {
	var locations []models.Location
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Location{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Owner").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&locations).Error
	if err != nil {
		return nil, 0, err
	}
	return locations, total, nil
}

func (r *locationRepository) UpdateImage(ctx context.Context, id int64, url string) error {
	return r.db.WithContext(ctx).Model(&models.Location{}).Where("id = ?", id).Update("image_url", url).Error
}

func (r *locationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Location{}).Error
}
