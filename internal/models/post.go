package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post categories accepted by the community feed.
const (
	CategoryFood        = "food"
	CategoryDrink       = "drink"
	CategoryAtmosphere  = "atmosphere"
	CategoryEnvironment = "environment"
)

// ValidCategory reports whether c is one of the accepted post categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryFood, CategoryDrink, CategoryAtmosphere, CategoryEnvironment:
		return true
	}
	return false
}

// Post represents a community post about a place.
//
// LikesCount and CommentsCount are denormalized caches of the post_likes and
// post_comments relations. They are maintained best-effort after each mutation
// and corrected by the count reconciliation pass; the relations themselves are
// the source of truth.
type Post struct {
	ID            string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string `gorm:"type:uuid;not null;index" json:"user_id"`
	UserName      string `gorm:"size:120;not null" json:"user_name"`
	UserAvatarURL string `json:"user_avatar_url,omitempty"`
	PlaceName     string `gorm:"size:200;not null" json:"place_name"`
	ImageURL      string `gorm:"not null" json:"image_url"`
	ThumbURL      string `json:"thumb_url,omitempty"`
	Caption       string `gorm:"type:text" json:"caption"`
	Category      string `gorm:"size:20;not null" json:"category"`
	LikesCount    int    `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int    `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     int64  `gorm:"autoCreateTime:milli" json:"created_at"`
	// Liked indicates whether the requesting user liked this post.
	// Computed per fetch per viewer; never persisted.
	Liked bool `gorm:"-" json:"liked"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "community_posts"
}

// BeforeCreate assigns a server-generated UUID when none is provided.
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
