// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered user and their public profile.
// The counter fields (PlacesVisited, ReviewsCount, FollowersCount) are
// denormalized caches maintained best-effort alongside the relations they
// summarize.
type User struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string         `gorm:"unique;not null" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	FullName       string         `gorm:"size:120" json:"full_name"`
	AvatarURL      string         `json:"avatar_url,omitempty"`
	Bio            string         `gorm:"type:text" json:"bio,omitempty"`
	PlacesVisited  int            `gorm:"not null;default:0" json:"places_visited"`
	ReviewsCount   int            `gorm:"not null;default:0" json:"reviews_count"`
	FollowersCount int            `gorm:"not null;default:0" json:"followers_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a server-generated UUID when none is provided.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
