package models

import "time"

type Favorite struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_location" json:"user_id"`
	LocationID int64     `gorm:"not null;uniqueIndex:idx_favorite_user_location" json:"location_id"`
	AddedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"added_at"`

	// Associations
	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Location *Location `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE;" json:"location,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
