package services

import (
	"context"
	"strings"
)

// UnknownIdentity is used when no origin address can be determined.
const UnknownIdentity = "unknown"

const (
	defaultTopN = 10
	maxTopN     = 100
)

type commentFinder interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type LikeService struct {
	store    LikeStore
	captcha  CaptchaVerifier
	comments commentFinder
}

func NewLikeService(store LikeStore, captcha CaptchaVerifier, comments commentFinder) *LikeService {
	return &LikeService{store: store, captcha: captcha, comments: comments}
}

func normalizeIdentity(identity string) string {
	if identity == "" {
		return UnknownIdentity
	}
	return identity
}

// ToggleCommentLike flips identity's like on a comment. Captcha gated.
func (s *LikeService) ToggleCommentLike(ctx context.Context, commentID, captcha, identity string) (LikeState, error) {
	commentID = strings.TrimSpace(commentID)
	if commentID == "" || captcha == "" {
		return LikeState{}, invalid("Comment ID and captcha token are required")
	}

	if _, err := s.captcha.Verify(ctx, captcha); err != nil {
		return LikeState{}, err
	}

	ok, err := s.comments.Exists(ctx, commentID)
	if err != nil {
		return LikeState{}, err
	}
	if !ok {
		return LikeState{}, ErrNotFound
	}

	return s.store.Toggle(ctx, CommentSubject(commentID), normalizeIdentity(identity))
}

// TogglePostLike flips identity's like on a post. Post likes are not captcha gated.
func (s *LikeService) TogglePostLike(ctx context.Context, slug, identity string) (LikeState, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return LikeState{}, invalid("Slug is required")
	}
	return s.store.Toggle(ctx, PostSubject(slug), normalizeIdentity(identity))
}

func (s *LikeService) PostLikes(ctx context.Context, slug, identity string) (LikeState, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return LikeState{}, invalid("Slug is required")
	}
	return s.store.Count(ctx, PostSubject(slug), normalizeIdentity(identity))
}

// TopPosts ranks posts by like count. n <= 0 means the default of 10.
func (s *LikeService) TopPosts(ctx context.Context, n int) ([]RankEntry, error) {
	if n <= 0 {
		n = defaultTopN
	}
	if n > maxTopN {
		n = maxTopN
	}
	return s.store.Top(ctx, LikeKindPost, n)
}
