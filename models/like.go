package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentLike is one identity's like on a comment. The unique index keeps a
// single row per (comment, identity).
type CommentLike struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CommentID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_comment_like_identity" json:"commentId"`
	IPAddress string    `gorm:"type:varchar(191);not null;uniqueIndex:idx_comment_like_identity" json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
}

func (CommentLike) TableName() string { return "comment_likes" }

func (l *CommentLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// PostLike is one identity's like on a blog post, keyed by slug.
type PostLike struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Slug      string    `gorm:"type:varchar(191);not null;uniqueIndex:idx_post_like_identity" json:"slug"`
	IPAddress string    `gorm:"type:varchar(191);not null;uniqueIndex:idx_post_like_identity" json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PostLike) TableName() string { return "post_likes" }

func (l *PostLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
