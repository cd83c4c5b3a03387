package dto

import (
	"time"

	"travelguide/internal/microservices/http-api/models"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Content string `json:"content" binding:"max=5000"`
}

type ReviewResponse struct {
	ID         int64     `json:"id"`
	LocationID int64     `json:"location_id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Rating     int       `json:"rating"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromModelToReviewResponse(r *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:         r.ID,
		LocationID: r.LocationID,
		UserID:     r.UserID,
		Username:   r.User.Username,
		Rating:     r.Rating,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
	}
}

type LikeResponse struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes,omitempty"`
}
