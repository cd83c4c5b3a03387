package live

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"travelguide/internal/microservices/http-api/models"
)

// DefaultHistoryLimit is how many recent records a new connection replays.
const DefaultHistoryLimit = 20

// HistorySource returns a user's most recent notifications, newest first.
type HistorySource interface {
	ListRecentByRecipient(ctx context.Context, userID string, limit int) ([]models.Notification, error)
}

// Streamer opens connections: register, confirm, then replay history.
type Streamer struct {
	registry     *Registry
	history      HistorySource
	historyLimit int
	timeout      time.Duration
	logger       logrus.FieldLogger
}

// NewStreamer creates a Streamer. A non-positive historyLimit uses
// DefaultHistoryLimit.
func NewStreamer(registry *Registry, history HistorySource, historyLimit int, logger logrus.FieldLogger) *Streamer {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Streamer{
		registry:     registry,
		history:      history,
		historyLimit: historyLimit,
		timeout:      5 * time.Second,
		logger:       logger,
	}
}

// Open registers ch for userID. The first frame on the channel is always the
// "connected" envelope, even when a delivery races the registration; a "historic_notifications" envelope follows when the
// user has any records. A failure to load history leaves the connection open
// with no backlog.
func (s *Streamer) Open(ctx context.Context, userID string, ch Channel) (*Connection, error) {
	conn, err := s.registry.Admit(userID, ch, func(c *Connection) Envelope {
		return Envelope{Type: EnvelopeConnected, Data: ConnectedData{ConnectionID: c.ID}}
	})
	if err != nil {
		return nil, err
	}

	s.replay(ctx, conn)
	return conn, nil
}

// Close unregisters a connection the client has closed.
func (s *Streamer) Close(conn *Connection) {
	s.registry.Unregister(conn.ID)
}

func (s *Streamer) replay(ctx context.Context, conn *Connection) {
	log := s.logger.WithFields(logrus.Fields{
		"connection_id": conn.ID,
		"user_id":       conn.UserID,
	})

	hctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.history.ListRecentByRecipient(hctx, conn.UserID, s.historyLimit)
	if err != nil {
		log.WithError(err).Error("history_lookup_failed")
		return
	}
	if len(records) == 0 {
		return
	}

	// the client may have gone away while we were querying
	if !s.registry.Has(conn.ID) {
		log.Debug("history_skipped_connection_gone")
		return
	}

	if err := conn.Send(Envelope{Type: EnvelopeHistoricNotifications, Data: records}); err != nil {
		log.WithError(err).Warn("history_push_failed")
		s.registry.Unregister(conn.ID)
		return
	}
	log.WithField("count", len(records)).Info("history_replayed")
}
