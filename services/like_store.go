package services

import (
	"context"
	"fmt"
)

// LikeKind names what a like is attached to.
type LikeKind string

const (
	LikeKindPost    LikeKind = "post"
	LikeKindComment LikeKind = "comment"
)

// Subject identifies a likeable thing: a post slug or a comment id.
type Subject struct {
	Kind LikeKind
	Key  string
}

func PostSubject(slug string) Subject { return Subject{Kind: LikeKindPost, Key: slug} }

func CommentSubject(id string) Subject { return Subject{Kind: LikeKindComment, Key: id} }

// LikeState is the like count of a subject and whether the caller is among the likers.
type LikeState struct {
	Count int64 `json:"likes"`
	Liked bool  `json:"userHasLiked"`
}

type RankEntry struct {
	Key   string `json:"slug"`
	Likes int64  `json:"likes"`
	Rank  int    `json:"rank"`
}

// LikeStore persists likes. Toggle must be atomic per (subject, identity): two
// concurrent toggles never leave more than one like for the pair.
type LikeStore interface {
	Toggle(ctx context.Context, subject Subject, identity string) (LikeState, error)
	Count(ctx context.Context, subject Subject, identity string) (LikeState, error)
	CountMany(ctx context.Context, kind LikeKind, keys []string, identity string) (map[string]LikeState, error)
	Purge(ctx context.Context, subject Subject) error
	Top(ctx context.Context, kind LikeKind, n int) ([]RankEntry, error)
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
