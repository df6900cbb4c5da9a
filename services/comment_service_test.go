package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCommentFixture(t *testing.T) (*CommentService, *gorm.DB, *fakeCaptcha, *recordingNotifier) {
	t.Helper()
	db := newTestDB(t)
	captcha := &fakeCaptcha{}
	notifier := &recordingNotifier{}
	return NewCommentService(db, NewSQLLikeStore(db), captcha, notifier, nil), db, captcha, notifier
}

func validInput() SubmitCommentInput {
	return SubmitCommentInput{
		Slug:        "post-1",
		AuthorName:  "Ada",
		AuthorEmail: "ada@example.com",
		Content:     `<p>Hello <b>world</b><script>alert(1)</script></p>`,
		Captcha:     "token",
		Identity:    "1.2.3.4",
	}
}

func TestSubmitStoresPendingSanitizedComment(t *testing.T) {
	svc, db, _, notifier := newCommentFixture(t)
	ctx := context.Background()

	c, err := svc.Submit(ctx, validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, models.StatusPending, c.Status)
	assert.Equal(t, "<p>Hello <b>world</b></p>", c.Content)
	assert.Equal(t, "1.2.3.4", c.IPAddress)

	var stored models.Comment
	require.NoError(t, db.First(&stored, "id = ?", c.ID).Error)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, "ada@example.com", stored.AuthorEmail)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, c.ID, notifier.events[0].ID)
}

func TestSubmitMissingFields(t *testing.T) {
	svc, _, captcha, _ := newCommentFixture(t)

	mutations := map[string]func(*SubmitCommentInput){
		"slug":    func(in *SubmitCommentInput) { in.Slug = "" },
		"name":    func(in *SubmitCommentInput) { in.AuthorName = "  " },
		"email":   func(in *SubmitCommentInput) { in.AuthorEmail = "" },
		"content": func(in *SubmitCommentInput) { in.Content = "" },
		"captcha": func(in *SubmitCommentInput) { in.Captcha = "" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Submit(context.Background(), in)
			require.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "Missing required fields", ve.Message)
		})
	}
	assert.Zero(t, captcha.calls)
}

func TestSubmitRejectedByCaptcha(t *testing.T) {
	svc, db, captcha, notifier := newCommentFixture(t)
	captcha.err = ErrCaptchaScoreTooLow
	captcha.score = 0.3

	_, err := svc.Submit(context.Background(), validInput())
	require.ErrorIs(t, err, ErrCaptchaScoreTooLow)
	assert.Equal(t, "CAPTCHA score too low, please try again", err.Error())

	var n int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Empty(t, notifier.events)
}

func TestSubmitSurvivesNotifierFailure(t *testing.T) {
	svc, _, _, notifier := newCommentFixture(t)
	notifier.err = errors.New("broker down")

	c, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
}

func TestListApprovedOnlyReturnsApproved(t *testing.T) {
	svc, db, _, _ := newCommentFixture(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	seed := []models.Comment{
		{ID: "c-old", Slug: "post-1", Status: models.StatusApproved, CreatedAt: base},
		{ID: "c-new", Slug: "post-1", Status: models.StatusApproved, CreatedAt: base.Add(time.Minute)},
		{ID: "c-pending", Slug: "post-1", Status: models.StatusPending, CreatedAt: base},
		{ID: "c-rejected", Slug: "post-1", Status: models.StatusRejected, CreatedAt: base},
		{ID: "c-other", Slug: "post-2", Status: models.StatusApproved, CreatedAt: base},
	}
	for i := range seed {
		seed[i].AuthorName = "a"
		seed[i].AuthorEmail = "a@example.com"
		seed[i].Content = "<b>hi</b>"
		seed[i].IPAddress = "9.9.9.9"
		require.NoError(t, db.Create(&seed[i]).Error)
	}
	require.NoError(t, db.Create(&models.CommentLike{CommentID: "c-old", IPAddress: "1.2.3.4"}).Error)
	require.NoError(t, db.Create(&models.CommentLike{CommentID: "c-old", IPAddress: "5.6.7.8"}).Error)

	views, err := svc.ListApproved(ctx, "post-1", "1.2.3.4")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "c-new", views[0].ID)
	assert.Equal(t, "c-old", views[1].ID)

	assert.Equal(t, int64(0), views[0].CommentLikes)
	assert.False(t, views[0].UserHasLiked)
	assert.Equal(t, int64(2), views[1].CommentLikes)
	assert.True(t, views[1].UserHasLiked)
	assert.Equal(t, "<b>hi</b>", views[1].Content)

	_, err = svc.ListApproved(ctx, " ", "1.2.3.4")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestModerationTransitions(t *testing.T) {
	svc, _, _, _ := newCommentFixture(t)
	ctx := context.Background()

	c, err := svc.Submit(ctx, validInput())
	require.NoError(t, err)

	views, err := svc.ListApproved(ctx, "post-1", "x")
	require.NoError(t, err)
	assert.Empty(t, views)

	updated, err := svc.SetStatus(ctx, c.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)

	views, err = svc.ListApproved(ctx, "post-1", "x")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, c.ID, views[0].ID)

	_, err = svc.SetStatus(ctx, c.ID, "rejected")
	require.NoError(t, err)
	views, err = svc.ListApproved(ctx, "post-1", "x")
	require.NoError(t, err)
	assert.Empty(t, views)

	// back to pending, and re-applying the same state is fine
	_, err = svc.SetStatus(ctx, c.ID, "pending")
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, c.ID, "pending")
	require.NoError(t, err)
}

func TestSetStatusErrors(t *testing.T) {
	svc, _, _, _ := newCommentFixture(t)
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, "missing", "approved")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SetStatus(ctx, "any", "published")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Invalid status value", ve.Message)

	_, err = svc.SetStatus(ctx, "", "approved")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Comment ID and status are required", ve.Message)
}

func TestListForModeration(t *testing.T) {
	svc, _, _, _ := newCommentFixture(t)
	ctx := context.Background()

	a, err := svc.Submit(ctx, validInput())
	require.NoError(t, err)
	b, err := svc.Submit(ctx, validInput())
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, b.ID, "approved")
	require.NoError(t, err)

	pending, err := svc.ListForModeration(ctx, "")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)
	assert.Equal(t, "ada@example.com", pending[0].AuthorEmail)
	assert.Equal(t, "1.2.3.4", pending[0].IPAddress)

	approved, err := svc.ListForModeration(ctx, "approved")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, b.ID, approved[0].ID)

	all, err := svc.ListForModeration(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	rejected, err := svc.ListForModeration(ctx, "rejected")
	require.NoError(t, err)
	assert.NotNil(t, rejected)
	assert.Empty(t, rejected)

	_, err = svc.ListForModeration(ctx, "spam")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRemoveCascadesLikes(t *testing.T) {
	svc, db, _, _ := newCommentFixture(t)
	ctx := context.Background()
	store := NewSQLLikeStore(db)

	c, err := svc.Submit(ctx, validInput())
	require.NoError(t, err)
	_, err = store.Toggle(ctx, CommentSubject(c.ID), "1.2.3.4")
	require.NoError(t, err)
	_, err = store.Toggle(ctx, CommentSubject(c.ID), "5.6.7.8")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, c.ID))

	st, err := store.Count(ctx, CommentSubject(c.ID), "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, LikeState{}, st)

	exists, err := svc.Exists(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, svc.Remove(ctx, c.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, ""), ErrValidation)
}

func TestRemoveKeepsCommentWhenLikePurgeFails(t *testing.T) {
	db := newTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: 0})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisLikeStore(client)
	svc := NewCommentService(db, store, &fakeCaptcha{}, nil, nil)
	ctx := context.Background()

	c, err := svc.Submit(ctx, validInput())
	require.NoError(t, err)
	_, err = store.Toggle(ctx, CommentSubject(c.ID), "1.2.3.4")
	require.NoError(t, err)

	mr.Close()
	err = svc.Remove(ctx, c.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)

	exists, err := svc.Exists(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, exists, "comment must survive a failed purge")

	require.NoError(t, mr.Restart())
	require.NoError(t, svc.Remove(ctx, c.ID))

	exists, err = svc.Exists(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.False(t, mr.Exists(likeSetKey(CommentSubject(c.ID))))
	assert.ErrorIs(t, svc.Remove(ctx, c.ID), ErrNotFound)
}
