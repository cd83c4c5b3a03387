package live

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"travelguide/internal/microservices/http-api/models"
)

// NotificationStore persists notification records. CreateBatch must insert
// all records or none.
type NotificationStore interface {
	CreateBatch(ctx context.Context, notifications []models.Notification) error
}

// RecipientDirectory lists the users a broadcast event fans out to.
type RecipientDirectory interface {
	ListUserIDsExcept(ctx context.Context, userID string) ([]string, error)
}

// DispatcherConfig tunes a Dispatcher. Zero values take defaults.
type DispatcherConfig struct {
	SnippetMaxLength int
	PersistTimeout   time.Duration
}

// Dispatcher records notification events and pushes them to whoever is
// connected. Nothing it does can fail the business operation that raised the
// event.
type Dispatcher struct {
	registry  *Registry
	store     NotificationStore
	directory RecipientDirectory
	cfg       DispatcherConfig
	logger    logrus.FieldLogger
	wg        sync.WaitGroup
}

// NewDispatcher wires a dispatcher to the registry and storage.
func NewDispatcher(registry *Registry, store NotificationStore, directory RecipientDirectory, cfg DispatcherConfig, logger logrus.FieldLogger) *Dispatcher {
	if cfg.SnippetMaxLength <= 0 {
		cfg.SnippetMaxLength = DefaultSnippetMaxLength
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Dispatcher{
		registry:  registry,
		store:     store,
		directory: directory,
		cfg:       cfg,
		logger:    logger,
	}
}

// Dispatch hands the event to a background goroutine and returns at once.
// Failures end in a log line.
func (d *Dispatcher) Dispatch(evt Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PersistTimeout)
		defer cancel()

		if err := d.Deliver(ctx, evt); err != nil {
			d.logger.WithFields(logrus.Fields{
				"type":         evt.Type,
				"actor_id":     evt.ActorID,
				"recipient_id": evt.RecipientID,
				"error":        err.Error(),
			}).Error("notification_dispatch_failed")
		}
	}()
}

// Wait blocks until every dispatch started so far has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Deliver pushes the event live and then persists it. The returned error
// only ever concerns persistence; push failures prune connections instead.
func (d *Dispatcher) Deliver(ctx context.Context, evt Event) error {
	if evt.SelfTargeted() {
		d.logger.WithFields(logrus.Fields{
			"type":     evt.Type,
			"actor_id": evt.ActorID,
		}).Debug("notification_skipped_self")
		return nil
	}

	pushed := d.push(evt)
	stored, err := d.persist(ctx, evt)

	d.logger.WithFields(logrus.Fields{
		"type":      evt.Type,
		"actor_id":  evt.ActorID,
		"broadcast": evt.Broadcast(),
		"pushed":    pushed,
		"stored":    stored,
	}).Info("notification_dispatched")
	return err
}

func (d *Dispatcher) push(evt Event) int {
	env := Envelope{
		Type: EnvelopeNotification,
		Data: LiveNotification{
			ID:                   uuid.NewString(),
			ActorID:              evt.ActorID,
			ActorName:            evt.ActorName,
			ActorProfileImageURL: evt.ActorProfileImageURL,
			Type:                 evt.Type,
			Payload:              evt.Payload,
			RecipientID:          evt.RecipientID,
			CreatedAt:            time.Now().UTC(),
		},
	}
	frame, err := env.Frame()
	if err != nil {
		d.logger.WithError(err).Error("notification_encode_failed")
		return 0
	}

	pushed := 0
	d.registry.ForEach(func(c *Connection) error {
		if !evt.reaches(c.UserID) {
			return nil
		}
		if err := c.write(frame); err != nil {
			return err
		}
		pushed++
		return nil
	})
	return pushed
}

// persist writes one record per recipient in a single batch. For broadcasts
// a failed recipient lookup or insert leaves nothing behind.
func (d *Dispatcher) persist(ctx context.Context, evt Event) (int, error) {
	recipients := []string{evt.RecipientID}
	if evt.Broadcast() {
		ids, err := d.directory.ListUserIDsExcept(ctx, evt.ActorID)
		if err != nil {
			return 0, fmt.Errorf("look up broadcast recipients: %w", err)
		}
		recipients = ids
	}

	payload := evt.Payload.Compact(d.cfg.SnippetMaxLength)
	records := make([]models.Notification, 0, len(recipients))
	for _, id := range recipients {
		if id == "" || id == evt.ActorID {
			continue
		}
		records = append(records, models.Notification{
			ActorID:              evt.ActorID,
			ActorName:            evt.ActorName,
			ActorProfileImageURL: evt.ActorProfileImageURL,
			Type:                 evt.Type,
			Payload:              payload,
			RecipientID:          id,
		})
	}
	if len(records) == 0 {
		return 0, nil
	}

	if err := d.store.CreateBatch(ctx, records); err != nil {
		return 0, fmt.Errorf("store %d notification(s): %w", len(records), err)
	}
	return len(records), nil
}
