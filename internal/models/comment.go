package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a review left on a community post.
//
// UserName and UserAvatarURL are snapshots of the author's profile taken at
// write time; they are not updated when the profile later changes. Comments
// have no update or standalone delete path — they are removed only when the
// parent post is deleted.
type Comment struct {
	ID            string  `gorm:"type:uuid;primaryKey" json:"id"`
	PostID        string  `gorm:"type:uuid;not null;index" json:"post_id"`
	UserID        string  `gorm:"type:uuid;not null" json:"user_id"`
	UserName      string  `gorm:"size:120;not null" json:"user_name"`
	UserAvatarURL string  `json:"user_avatar_url,omitempty"`
	Comment       string  `gorm:"type:text;not null" json:"comment"`
	Rating        float32 `gorm:"not null;default:0" json:"rating"`
	CreatedAt     int64   `gorm:"autoCreateTime:milli" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "post_comments"
}

// BeforeCreate assigns a server-generated UUID when none is provided.
func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
