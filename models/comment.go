package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	StatusPending  CommentStatus = "pending"
	StatusApproved CommentStatus = "approved"
	StatusRejected CommentStatus = "rejected"
)

var commentStatuses = []CommentStatus{StatusPending, StatusApproved, StatusRejected}

// ParseCommentStatus accepts only the three moderation states.
func ParseCommentStatus(s string) (CommentStatus, error) {
	st := CommentStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown comment status %q", s)
	}
	return st, nil
}

func (s CommentStatus) Valid() bool {
	for _, known := range commentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsPublic reports whether readers other than moderators may see the comment.
func (s CommentStatus) IsPublic() bool { return s == StatusApproved }

type Comment struct {
	ID          string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Slug        string        `gorm:"type:varchar(191);not null;index" json:"slug"`
	AuthorName  string        `gorm:"type:varchar(255);not null" json:"authorName"`
	AuthorEmail string        `gorm:"type:varchar(255);not null" json:"authorEmail"`
	Content     string        `gorm:"type:text;not null" json:"content"`
	IPAddress   string        `gorm:"type:varchar(191);not null" json:"ipAddress"`
	Status      CommentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	Likes []CommentLike `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	return nil
}
