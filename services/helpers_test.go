package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"portfolio/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type fakeCaptcha struct {
	mu    sync.Mutex
	err   error
	score float64
	calls int
}

func (f *fakeCaptcha) Verify(_ context.Context, _ string) (CaptchaResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return CaptchaResult{Success: f.err != ErrInvalidCaptcha, Score: f.score}, f.err
	}
	return CaptchaResult{Success: true, Score: 0.9}, nil
}

type recordingNotifier struct {
	events []*models.Comment
	err    error
}

func (n *recordingNotifier) CommentSubmitted(_ context.Context, c *models.Comment) error {
	n.events = append(n.events, c)
	return n.err
}
