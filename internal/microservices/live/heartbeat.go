package live

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultHeartbeatInterval bounds how long a dead client can stay registered.
const DefaultHeartbeatInterval = 15 * time.Second

// Heartbeat writes a keep-alive comment to every connection on a fixed
// period. It is the only thing that notices clients that vanished without
// closing (network drops); a failed write unregisters them.
type Heartbeat struct {
	registry *Registry
	interval time.Duration
	logger   logrus.FieldLogger
}

// NewHeartbeat creates a Heartbeat. A non-positive interval uses
// DefaultHeartbeatInterval.
func NewHeartbeat(registry *Registry, interval time.Duration, logger logrus.FieldLogger) *Heartbeat {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Heartbeat{registry: registry, interval: interval, logger: logger}
}

// Start runs until ctx is cancelled.
func (h *Heartbeat) Start(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.logger.WithField("interval", h.interval.String()).Info("heartbeat_started")
	for {
		select {
		case <-ticker.C:
			h.Beat()
		case <-ctx.Done():
			h.logger.Info("heartbeat_stopped")
			return
		}
	}
}

// Beat performs a single keep-alive sweep.
func (h *Heartbeat) Beat() {
	h.registry.ForEach(func(c *Connection) error {
		return c.SendComment(CommentKeepAlive)
	})
}
