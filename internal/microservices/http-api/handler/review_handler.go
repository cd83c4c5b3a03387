package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterRoutes mounts review routes under the locations group and the
// top-level reviews group.
func (h *ReviewHandler) RegisterRoutes(locations, reviews *gin.RouterGroup) {
	locations.GET("/:id/reviews", h.ListByLocation)
	locations.POST("/:id/reviews", h.Create)

	reviews.POST("/:id/like", h.Like)
}

// POST /api/locations/:id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	locationID, ok := pathID(c, "id", "location")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	review, err := h.svc.Create(ctx, userID, locationID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// GET /api/locations/:id/reviews?page=1&page_size=20
func (h *ReviewHandler) ListByLocation(c *gin.Context) {
	locationID, ok := pathID(c, "id", "location")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	page, pageSize := pageParams(c)
	list, err := h.svc.ListByLocation(ctx, locationID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Like answers 409 when the user already liked the review.
// POST /api/reviews/:id/like
func (h *ReviewHandler) Like(c *gin.Context) {
	reviewID, ok := pathID(c, "id", "review")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.svc.Like(ctx, userID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
