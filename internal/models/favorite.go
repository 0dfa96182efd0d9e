package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite is a user's saved place, keyed by (user_id, place_id).
// The place fields are a snapshot from the places lookup at save time.
type Favorite struct {
	ID               string  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string  `gorm:"type:uuid;not null;uniqueIndex:idx_user_place" json:"user_id"`
	PlaceID          string  `gorm:"size:200;not null;uniqueIndex:idx_user_place" json:"place_id"`
	Name             string  `gorm:"size:200;not null" json:"name"`
	Address          string  `json:"address,omitempty"`
	Rating           float32 `json:"rating,omitempty"`
	UserRatingsTotal int     `json:"user_ratings_total,omitempty"`
	Latitude         float64 `json:"latitude,omitempty"`
	Longitude        float64 `json:"longitude,omitempty"`
	PlaceType        string  `gorm:"size:40" json:"place_type,omitempty"`
	QuietScore       float32 `json:"quiet_score,omitempty"`
	CreatedAt        int64   `gorm:"autoCreateTime:milli" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Favorite) TableName() string {
	return "user_favorites"
}

// BeforeCreate assigns a server-generated UUID when none is provided.
func (f *Favorite) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
