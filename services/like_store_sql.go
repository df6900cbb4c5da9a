package services

import (
	"context"
	"fmt"

	"portfolio/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLLikeStore keeps likes in the comment_likes and post_likes tables.
type SQLLikeStore struct {
	db *gorm.DB
}

func NewSQLLikeStore(db *gorm.DB) *SQLLikeStore {
	return &SQLLikeStore{db: db}
}

type likeTable struct {
	model  interface{}
	column string
}

func tableFor(kind LikeKind) (likeTable, error) {
	switch kind {
	case LikeKindPost:
		return likeTable{model: &models.PostLike{}, column: "slug"}, nil
	case LikeKindComment:
		return likeTable{model: &models.CommentLike{}, column: "comment_id"}, nil
	default:
		return likeTable{}, fmt.Errorf("unknown like kind %q", kind)
	}
}

func newLikeRow(s Subject, identity string) interface{} {
	if s.Kind == LikeKindPost {
		return &models.PostLike{Slug: s.Key, IPAddress: identity}
	}
	return &models.CommentLike{CommentID: s.Key, IPAddress: identity}
}

// insertLike adds the (subject, identity) row unless it already exists. A
// concurrent toggle that got there first leaves inserted false.
func insertLike(tx *gorm.DB, subject Subject, identity string) (inserted bool, err error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(newLikeRow(subject, identity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Toggle deletes the caller's like if present, otherwise inserts it. The
// insert is ON CONFLICT DO NOTHING against the unique (subject, identity)
// index, so concurrent toggles cannot create duplicate rows.
func (s *SQLLikeStore) Toggle(ctx context.Context, subject Subject, identity string) (LikeState, error) {
	tbl, err := tableFor(subject.Kind)
	if err != nil {
		return LikeState{}, err
	}

	var state LikeState
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where(tbl.column+" = ? AND ip_address = ?", subject.Key, identity).Delete(tbl.model)
		if res.Error != nil {
			return res.Error
		}
		state.Liked = res.RowsAffected == 0

		if state.Liked {
			if _, err := insertLike(tx, subject, identity); err != nil {
				return err
			}
		}

		return tx.Model(tbl.model).Where(tbl.column+" = ?", subject.Key).Count(&state.Count).Error
	})
	if err != nil {
		return LikeState{}, storeErr("toggle like", err)
	}
	return state, nil
}

func (s *SQLLikeStore) Count(ctx context.Context, subject Subject, identity string) (LikeState, error) {
	tbl, err := tableFor(subject.Kind)
	if err != nil {
		return LikeState{}, err
	}

	db := s.db.WithContext(ctx)
	var state LikeState
	if err := db.Model(tbl.model).Where(tbl.column+" = ?", subject.Key).Count(&state.Count).Error; err != nil {
		return LikeState{}, storeErr("count likes", err)
	}

	var mine int64
	if err := db.Model(tbl.model).Where(tbl.column+" = ? AND ip_address = ?", subject.Key, identity).Count(&mine).Error; err != nil {
		return LikeState{}, storeErr("count own like", err)
	}
	state.Liked = mine > 0
	return state, nil
}

type likeAggregate struct {
	Subject string
	Total   int64
	Mine    int64
}

func (s *SQLLikeStore) CountMany(ctx context.Context, kind LikeKind, keys []string, identity string) (map[string]LikeState, error) {
	out := make(map[string]LikeState, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	tbl, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var rows []likeAggregate
	err = s.db.WithContext(ctx).
		Model(tbl.model).
		Select(tbl.column+" AS subject, COUNT(*) AS total, SUM(CASE WHEN ip_address = ? THEN 1 ELSE 0 END) AS mine", identity).
		Where(tbl.column+" IN ?", keys).
		Group(tbl.column).
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr("count likes", err)
	}

	for _, k := range keys {
		out[k] = LikeState{}
	}
	for _, r := range rows {
		out[r.Subject] = LikeState{Count: r.Total, Liked: r.Mine > 0}
	}
	return out, nil
}

func (s *SQLLikeStore) Purge(ctx context.Context, subject Subject) error {
	tbl, err := tableFor(subject.Kind)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where(tbl.column+" = ?", subject.Key).Delete(tbl.model).Error; err != nil {
		return storeErr("purge likes", err)
	}
	return nil
}

func (s *SQLLikeStore) Top(ctx context.Context, kind LikeKind, n int) ([]RankEntry, error) {
	tbl, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Subject string
		Total   int64
	}
	err = s.db.WithContext(ctx).
		Model(tbl.model).
		Select(tbl.column + " AS subject, COUNT(*) AS total").
		Group(tbl.column).
		Order("total DESC").
		Order(tbl.column).
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr("rank likes", err)
	}

	list := make([]RankEntry, 0, len(rows))
	for i, r := range rows {
		list = append(list, RankEntry{Key: r.Subject, Likes: r.Total, Rank: i + 1})
	}
	return list, nil
}
