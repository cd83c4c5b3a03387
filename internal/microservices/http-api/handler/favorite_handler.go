package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"travelguide/internal/microservices/http-api/service"
)

type FavoriteHandler struct {
	svc service.FavoriteService
}

func NewFavoriteHandler(svc service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

func (h *FavoriteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("/:location_id", h.Add)
	rg.DELETE("/:location_id", h.Remove)
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	favorites, err := h.svc.List(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// Add is idempotent.
func (h *FavoriteHandler) Add(c *gin.Context) {
	locationID, ok := pathID(c, "location_id", "location")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Add(ctx, userID, locationID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	locationID, ok := pathID(c, "location_id", "location")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Remove(ctx, userID, locationID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
