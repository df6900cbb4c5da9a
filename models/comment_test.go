package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommentStatus(t *testing.T) {
	for _, s := range []string{"pending", "approved", "rejected"} {
		st, err := ParseCommentStatus(s)
		require.NoError(t, err)
		assert.Equal(t, CommentStatus(s), st)
	}

	for _, s := range []string{"", "all", "APPROVED", "spam"} {
		_, err := ParseCommentStatus(s)
		assert.Error(t, err, s)
	}
}

func TestCommentStatusIsPublic(t *testing.T) {
	assert.True(t, StatusApproved.IsPublic())
	assert.False(t, StatusPending.IsPublic())
	assert.False(t, StatusRejected.IsPublic())
}

func TestBeforeCreateDefaults(t *testing.T) {
	c := &Comment{}
	require.NoError(t, c.BeforeCreate(nil))
	assert.Len(t, c.ID, 36)
	assert.Equal(t, StatusPending, c.Status)

	c = &Comment{ID: "fixed", Status: StatusApproved}
	require.NoError(t, c.BeforeCreate(nil))
	assert.Equal(t, "fixed", c.ID)
	assert.Equal(t, StatusApproved, c.Status)
}
