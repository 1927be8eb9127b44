package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/minisocial/minisocial/internal/config"
	"github.com/minisocial/minisocial/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"social_media.db", "social_media.db?_busy_timeout=5000&_txlock=immediate"},
		{"file:x?mode=memory&cache=shared", "file:x?mode=memory&cache=shared&_busy_timeout=5000&_txlock=immediate"},
		{"app.db?_busy_timeout=100", "app.db?_busy_timeout=100&_txlock=immediate"},
		{"app.db?_txlock=deferred&_busy_timeout=1", "app.db?_txlock=deferred&_busy_timeout=1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqliteDSN(tt.in), tt.in)
	}
}

func TestConcurrentWritesOnFileDatabase(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		URL:          filepath.Join(t.TempDir(), "social.db"),
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	}, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	const writers = 40

	author := createUser(t, db, "author")
	post := createPost(t, db, author, "popular")
	users := make([]*models.User, writers)
	for i := range users {
		users[i] = createUser(t, db, fmt.Sprintf("user%d", i))
	}

	likes := NewLikeRepository(db.DB)
	messages := NewMessageRepository(db.DB)

	var wg sync.WaitGroup
	errs := make(chan error, 2*writers)
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(u *models.User) {
			defer wg.Done()
			if _, err := likes.Toggle(ctx, u.ID, post.ID); err != nil {
				errs <- err
			}
		}(users[i])
		go func(u *models.User) {
			defer wg.Done()
			content := "hi from " + u.Username
			msg := &models.Message{
				SenderID:    u.ID,
				ReceiverID:  author.ID,
				Content:     content,
				ContentHash: models.HashContent(content),
				CreatedAt:   time.Now().UTC(),
			}
			if err := messages.Create(ctx, msg); err != nil {
				errs <- err
			}
		}(users[i])
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	counts, err := likes.CountByPostIDs(ctx, []uint{post.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(writers), counts[post.ID])

	var sent int64
	require.NoError(t, db.Model(&models.Message{}).Where("receiver_id = ?", author.ID).Count(&sent).Error)
	assert.Equal(t, int64(writers), sent)
}
