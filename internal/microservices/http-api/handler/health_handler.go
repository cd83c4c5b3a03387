package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing service answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// ConnectionCounter reports how many live connections are open.
type ConnectionCounter interface {
	Len() int
}

type HealthHandler struct {
	db          Pinger
	cache       Pinger
	connections ConnectionCounter
}

// NewHealthHandler takes an optional cache pinger; a nil one is reported as
// "disabled".
func NewHealthHandler(db, cache Pinger, connections ConnectionCounter) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, connections: connections}
}

// Health answers 503 when postgres is unreachable. A failing cache only
// degrades the report since lookups fall back to postgres.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok"}

	if err := h.db.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unavailable"
		body["database"] = err.Error()
	} else {
		body["database"] = "ok"
	}

	switch {
	case h.cache == nil:
		body["cache"] = "disabled"
	case h.cache.Ping(ctx) != nil:
		body["cache"] = "unreachable"
		if status == http.StatusOK {
			body["status"] = "degraded"
		}
	default:
		body["cache"] = "ok"
	}

	if h.connections != nil {
		body["live_connections"] = h.connections.Len()
	}
	c.JSON(status, body)
}
