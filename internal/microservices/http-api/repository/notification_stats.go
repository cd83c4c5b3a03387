package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// rowQuerier is the part of pgxpool.Pool the stats reader uses.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NotificationStats answers cheap counting questions straight from the pool,
// bypassing GORM.
type NotificationStats interface {
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type notificationStats struct {
	pool rowQuerier
}

func NewNotificationStats(pool rowQuerier) NotificationStats {
	return &notificationStats{pool: pool}
}

func (s *notificationStats) CountUnread(ctx context.Context, userID string) (int64, error) {
	statement, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("count(*)").
		From("notifications").
		Where(sq.Eq{"recipient_id": userID}).
		Where(sq.Eq{"is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build unread count: %w", err)
	}

	var total int64
	if err := s.pool.QueryRow(ctx, statement, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return total, nil
}
