package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like represents a user's like on a community post.
// The combination of PostID and UserID must be unique, so a like either
// exists or it does not; toggling is unambiguous. Likes are hard-deleted.
type Like struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string `gorm:"type:uuid;not null;uniqueIndex:idx_post_user" json:"post_id"`
	UserID    string `gorm:"type:uuid;not null;uniqueIndex:idx_post_user" json:"user_id"`
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Like) TableName() string {
	return "post_likes"
}

// BeforeCreate assigns a server-generated UUID when none is provided.
func (l *Like) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
