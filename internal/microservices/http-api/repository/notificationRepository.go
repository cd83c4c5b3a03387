package repository

import (
	"context"

	"gorm.io/gorm"

	"travelguide/internal/microservices/http-api/models"
)

type NotificationRepository interface {
	// CreateBatch inserts all records in one statement, so either every
	// recipient gets a record or none does.
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	ListRecentByRecipient(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	ListByRecipient(ctx context.Context, userID string, page, pageSize int) ([]models.Notification, int64, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Recipient").Create(&notifications).Error
}

// ListRecentByRecipient returns the newest records first, read or not.
func (r *notificationRepository) ListRecentByRecipient(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, userID string, page, pageSize int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkAllAsRead flips every unread record of the user. Zero rows is not an error.
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
