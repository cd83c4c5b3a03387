package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/service"
)

type LocationHandler struct {
	svc service.LocationService
}

func NewLocationHandler(svc service.LocationService) *LocationHandler {
	return &LocationHandler{svc: svc}
}

func (h *LocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
}

// Create accepts JSON, or multipart form fields plus an optional "image" file.
// POST /api/locations
func (h *LocationHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateLocationRequest
	var image io.Reader

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if header, err := c.FormFile("image"); err == nil {
			if header.Size > maxImageSize {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
				return
			}
			file, err := header.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image"})
				return
			}
			defer file.Close()
			image = file
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeout := requestTimeout
	if image != nil {
		timeout = 6 * requestTimeout
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	location, err := h.svc.Create(ctx, userID, req, image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}

// List returns locations, newest first, optionally filtered by category
// GET /api/locations?category=food&page=1&page_size=20
func (h *LocationHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	page, pageSize := pageParams(c)
	list, err := h.svc.List(ctx, c.Query("category"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/locations/:id
func (h *LocationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "location")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	location, err := h.svc.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}
