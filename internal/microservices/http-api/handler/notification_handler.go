package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/service"
	"travelguide/internal/microservices/live"
)

// LiveStreamer opens and closes live connections. *live.Streamer satisfies it.
type LiveStreamer interface {
	Open(ctx context.Context, userID string, ch live.Channel) (*live.Connection, error)
	Close(conn *live.Connection)
}

type NotificationHandler struct {
	svc          service.NotificationService
	streamer     LiveStreamer
	writeTimeout time.Duration
	logger       logrus.FieldLogger
}

// NewNotificationHandler builds the notification routes. writeTimeout caps
// each frame written to a stream.
func NewNotificationHandler(svc service.NotificationService, streamer LiveStreamer, writeTimeout time.Duration, logger logrus.FieldLogger) *NotificationHandler {
	return &NotificationHandler{svc: svc, streamer: streamer, writeTimeout: writeTimeout, logger: logger}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/unread-count", h.UnreadCount)
	rg.PUT("/read-all", h.MarkAllAsRead)
	rg.GET("/stream", h.Stream)
}

// List returns the user's notifications newest first, read ones included
// GET /api/notifications?page=1&page_size=20
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	page, pageSize := pageParams(c)
	list, err := h.svc.List(ctx, userID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	n, err := h.svc.UnreadCount(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Unread: n})
}

// MarkAllAsRead marks all notifications as read for the user
// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	updated, err := h.svc.MarkAllAsRead(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications as read"})
		return
	}
	c.JSON(http.StatusOK, dto.MarkReadResponse{Updated: updated})
}

// Stream holds an event-stream response open until the client disconnects.
// GET /api/notifications/stream
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ch, err := live.NewSSEChannel(c.Writer, h.writeTimeout)
	if err != nil {
		h.logger.WithError(err).Error("stream_unsupported")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	live.PrepareHeaders(c.Writer)
	c.Status(http.StatusOK)
	if err := ch.Write(live.CommentFrame(live.CommentInitialConnection)); err != nil {
		return
	}

	ctx := c.Request.Context()
	conn, err := h.streamer.Open(ctx, userID, ch)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Warn("stream_open_failed")
		return
	}

	<-ctx.Done()
	h.streamer.Close(conn)
}
