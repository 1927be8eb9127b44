package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/minisocial/minisocial/internal/config"
	"github.com/minisocial/minisocial/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		URL:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	}, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createUser(t *testing.T, db *Database, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hash-" + username}
	require.NoError(t, NewUserRepository(db.DB).Create(context.Background(), user))
	return user
}
