package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio/models"
	"portfolio/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SubmitCommentInput struct {
	Slug        string
	AuthorName  string
	AuthorEmail string
	Content     string
	Captcha     string
	Identity    string
}

// CommentView is the public projection of an approved comment.
type CommentView struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	AuthorName   string    `json:"authorName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	CommentLikes int64     `json:"commentLikes"`
	UserHasLiked bool      `json:"userHasLiked"`
}

// StatusFilterAll lists comments in every moderation state.
const StatusFilterAll = "all"

type CommentService struct {
	db       *gorm.DB
	likes    LikeStore
	captcha  CaptchaVerifier
	notifier Notifier
	log      *zap.Logger
}

func NewCommentService(db *gorm.DB, likes LikeStore, captcha CaptchaVerifier, notifier Notifier, log *zap.Logger) *CommentService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CommentService{db: db, likes: likes, captcha: captcha, notifier: notifier, log: log}
}

// Submit stores a new comment in the pending state after the captcha check
// and sanitization.
func (s *CommentService) Submit(ctx context.Context, in SubmitCommentInput) (*models.Comment, error) {
	in.Slug = strings.TrimSpace(in.Slug)
	in.AuthorName = strings.TrimSpace(in.AuthorName)
	in.AuthorEmail = strings.TrimSpace(in.AuthorEmail)
	if in.Slug == "" || in.AuthorName == "" || in.AuthorEmail == "" ||
		strings.TrimSpace(in.Content) == "" || in.Captcha == "" {
		return nil, invalid("Missing required fields")
	}

	if _, err := s.captcha.Verify(ctx, in.Captcha); err != nil {
		return nil, err
	}

	content := utils.Sanitize(in.Content)
	if strings.TrimSpace(content) == "" {
		return nil, invalid("Comment content is empty after removing disallowed markup")
	}

	comment := &models.Comment{
		Slug:        in.Slug,
		AuthorName:  in.AuthorName,
		AuthorEmail: in.AuthorEmail,
		Content:     content,
		IPAddress:   normalizeIdentity(in.Identity),
		Status:      models.StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, storeErr("create comment", err)
	}

	if err := s.notifier.CommentSubmitted(ctx, comment); err != nil {
		s.log.Warn("comment notification failed", zap.String("comment_id", comment.ID), zap.Error(err))
	}
	return comment, nil
}

// ListApproved returns the approved comments of a post, newest first, with
// like counts for identity.
func (s *CommentService) ListApproved(ctx context.Context, slug, identity string) ([]CommentView, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, invalid("Slug is required")
	}

	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, models.StatusApproved).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, storeErr("list comments", err)
	}

	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	states, err := s.likes.CountMany(ctx, LikeKindComment, ids, normalizeIdentity(identity))
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		st := states[c.ID]
		views = append(views, CommentView{
			ID:           c.ID,
			Content:      utils.Sanitize(c.Content),
			AuthorName:   c.AuthorName,
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
			CommentLikes: st.Count,
			UserHasLiked: st.Liked,
		})
	}
	return views, nil
}

// ListForModeration returns every field of the comments matching filter,
// which is a status or "all". An empty filter means pending.
func (s *CommentService) ListForModeration(ctx context.Context, filter string) ([]models.Comment, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = string(models.StatusPending)
	}

	q := s.db.WithContext(ctx).Order("created_at DESC")
	if filter != StatusFilterAll {
		st, err := models.ParseCommentStatus(filter)
		if err != nil {
			return nil, invalid("Invalid status value")
		}
		q = q.Where("status = ?", st)
	}

	comments := []models.Comment{}
	if err := q.Find(&comments).Error; err != nil {
		return nil, storeErr("list comments", err)
	}
	return comments, nil
}

// SetStatus moves a comment to any moderation state. Re-applying the current
// state is accepted.
func (s *CommentService) SetStatus(ctx context.Context, id, status string) (*models.Comment, error) {
	id = strings.TrimSpace(id)
	if id == "" || status == "" {
		return nil, invalid("Comment ID and status are required")
	}
	st, err := models.ParseCommentStatus(status)
	if err != nil {
		return nil, invalid("Invalid status value")
	}

	var comment models.Comment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&comment).Update("status", st).Error; err != nil {
			return err
		}
		comment.Status = st
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("update comment status", err)
	}
	return &comment, nil
}

// Remove deletes a comment together with its likes. The like store is purged
// first; if that fails the comment is left in place so the call can be retried.
func (s *CommentService) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return invalid("Comment ID is required")
	}

	exists, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	if err := s.likes.Purge(ctx, CommentSubject(id)); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return storeErr("delete comment", err)
	}
	return nil
}

func (s *CommentService) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, storeErr("find comment", err)
	}
	return n > 0, nil
}
