package dto

import (
	"time"

	"travelguide/internal/microservices/http-api/models"
)

// CreateLocationRequest binds from JSON or from multipart form fields.
type CreateLocationRequest struct {
	Name        string  `json:"name" form:"name" binding:"required,min=2,max=200"`
	Description string  `json:"description" form:"description" binding:"max=5000"`
	Category    string  `json:"category" form:"category" binding:"omitempty,oneof=attraction food stay nature nightlife"`
	Address     string  `json:"address" form:"address" binding:"max=300"`
	Latitude    float64 `json:"latitude" form:"latitude" binding:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" form:"longitude" binding:"gte=-180,lte=180"`
	ImageURL    string  `json:"image_url" form:"image_url" binding:"omitempty,url"`
}

type LocationResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Address     string    `json:"address,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ImageURL    string    `json:"image_url,omitempty"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromModelToLocationResponse(l *models.Location) *LocationResponse {
	resp := &LocationResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Category:    l.Category,
		Address:     l.Address,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		ImageURL:    l.ImageURL,
		OwnerID:     l.OwnerID,
		CreatedAt:   l.CreatedAt,
	}
	if l.Owner != nil {
		resp.OwnerName = l.Owner.Username
	}
	return resp
}

type FavoriteResponse struct {
	LocationID int64             `json:"location_id"`
	AddedAt    time.Time         `json:"added_at"`
	Location   *LocationResponse `json:"location,omitempty"`
}

func FromModelToFavoriteResponse(f *models.Favorite) FavoriteResponse {
	resp := FavoriteResponse{LocationID: f.LocationID, AddedAt: f.AddedAt}
	if f.Location != nil {
		resp.Location = FromModelToLocationResponse(f.Location)
	}
	return resp
}
