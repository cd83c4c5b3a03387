package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/repository"
)

type NotificationService interface {
	List(ctx context.Context, userID string, page, pageSize int) (*dto.NotificationPage, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	// MarkAllAsRead flips every unread record of the user. Having nothing
	// unread is a success with zero updated.
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
}

type notificationService struct {
	repo   repository.NotificationRepository
	stats  repository.NotificationStats
	logger logrus.FieldLogger
}

func NewNotificationService(repo repository.NotificationRepository, stats repository.NotificationStats, logger logrus.FieldLogger) NotificationService {
	return &notificationService{repo: repo, stats: stats, logger: logger}
}

func (s *notificationService) List(ctx context.Context, userID string, page, pageSize int) (*dto.NotificationPage, error) {
	page, pageSize = dto.NormalizePage(page, pageSize)
	records, total, err := s.repo.ListByRecipient(ctx, userID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	// the badge is nice to have; the list is what matters
	unread, err := s.UnreadCount(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("unread_count_failed")
	}

	return &dto.NotificationPage{
		Paginated: dto.NewPaginated(records, int(total), page, pageSize),
		Unread:    unread,
	}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if s.stats == nil {
		return 0, nil
	}
	return s.stats.CountUnread(ctx, userID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("mark_all_read_failed")
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": userID, "updated": updated}).Debug("notifications_marked_read")
	return updated, nil
}
