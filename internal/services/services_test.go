package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/minisocial/minisocial/internal/config"
	"github.com/minisocial/minisocial/internal/repository"
	"github.com/minisocial/minisocial/pkg/cache"
	"github.com/minisocial/minisocial/pkg/logger"
	"github.com/minisocial/minisocial/pkg/queue"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if event, ok := value.(queue.Event); ok {
		p.events = append(p.events, event)
	}
	return p.err
}

func (p *recordingPublisher) types() []queue.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []queue.EventType
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type fixture struct {
	db        *repository.Database
	publisher *recordingPublisher
	users     *UserService
	posts     *PostService
	likes     *LikeService
	messages  *MessageService
	redis     *miniredis.Miniredis
	cache     *cache.RedisClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := repository.NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		URL:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	}, gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	redisClient := cache.NewRedisClient(mr.Addr(), "", 0, 5, 0)
	t.Cleanup(func() { _ = redisClient.Close() })

	log := logger.Discard()
	pub := &recordingPublisher{}

	userRepo := repository.NewUserRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	messageRepo := repository.NewMessageRepository(db.DB)

	return &fixture{
		db:        db,
		publisher: pub,
		users:     NewUserService(userRepo, followRepo, pub, log),
		posts:     NewPostService(postRepo, likeRepo, userRepo, followRepo, pub, log),
		likes:     NewLikeService(postRepo, likeRepo, pub, log),
		messages:  NewMessageService(messageRepo, userRepo, pub, log),
		redis:     mr,
		cache:     redisClient,
	}
}

func (f *fixture) register(t *testing.T, username, password string) uint {
	t.Helper()
	user, err := f.users.Register(context.Background(), username, password)
	require.NoError(t, err)
	return user.ID
}

var errBrokerDown = errors.New("broker down")
