package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"travelguide/internal/microservices/http-api/dto"
	"travelguide/internal/microservices/http-api/service"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// RegisterRoutes registers comment-related routes
func (h *CommentHandler) RegisterRoutes(reviews, comments *gin.RouterGroup) {
	// Review replies
	reviews.GET("/:id/comments", h.ListByReview)
	reviews.POST("/:id/comments", h.Create)

	comments.POST("/:id/like", h.Like)
}

// Create replies to a review
// POST /api/reviews/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	reviewID, ok := pathID(c, "id", "review")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comment, err := h.commentService.CreateComment(ctx, userID, reviewID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListByReview retrieves all comments for a review with pagination
// GET /api/reviews/:id/comments?page=1&page_size=20
func (h *CommentHandler) ListByReview(c *gin.Context) {
	reviewID, ok := pathID(c, "id", "review")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	page, pageSize := pageParams(c)
	comments, err := h.commentService.GetReviewComments(ctx, reviewID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Like
// POST /api/comments/:id/like
func (h *CommentHandler) Like(c *gin.Context) {
	commentID, ok := pathID(c, "id", "comment")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.commentService.LikeComment(ctx, userID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
