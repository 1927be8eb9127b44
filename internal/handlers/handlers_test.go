package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minisocial/minisocial/internal/config"
	"github.com/minisocial/minisocial/internal/middleware"
	"github.com/minisocial/minisocial/internal/models"
	"github.com/minisocial/minisocial/internal/repository"
	"github.com/minisocial/minisocial/internal/services"
	"github.com/minisocial/minisocial/pkg/cache"
	"github.com/minisocial/minisocial/pkg/logger"
	"github.com/minisocial/minisocial/pkg/queue"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

type testApp struct {
	server   *httptest.Server
	db       *repository.Database
	users    *repository.UserRepository
	posts    *services.PostService
	activity *services.ActivityService
}

func newTestApp(t *testing.T, opts ...func(*Router)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	pub := queue.NopPublisher{}

	userRepo := repository.NewUserRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	messageRepo := repository.NewMessageRepository(db.DB)

	userService := services.NewUserService(userRepo, followRepo, pub, log)
	postService := services.NewPostService(postRepo, likeRepo, userRepo, followRepo, pub, log)
	likeService := services.NewLikeService(postRepo, likeRepo, pub, log)
	messageService := services.NewMessageService(messageRepo, userRepo, pub, log)
	activityService := services.NewActivityService(redisClient, &config.ActivityConfig{MaxEntries: 20, TTL: time.Hour}, log)

	sessions := middleware.NewSessionManager(&config.AuthConfig{
		SecretKey:  "test-secret",
		SessionTTL: time.Hour,
		CookieName: "session",
	}, userService, services.NewSessionService(redisClient), log)

	router := &Router{
		Auth:  NewAuthHandler(userService, sessions, log),
		Users: NewUserHandler(userService, postService, activityService, log),
		Posts: NewPostHandler(postService, likeService, log),
		Chat:  NewChatHandler(messageService, log),
	}
	for _, opt := range opts {
		opt(router)
	}
	engine, err := router.Engine(sessions, log)
	require.NoError(t, err)

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	return &testApp{
		server:   server,
		db:       db,
		users:    userRepo,
		posts:    postService,
		activity: activityService,
	}
}

func (a *testApp) userID(t *testing.T, username string) uint {
	t.Helper()
	user, err := a.users.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	require.NotNil(t, user, username)
	return user.ID
}

func (a *testApp) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, a.db.DB.Model(model).Count(&n).Error)
	return n
}

// client is a browser stand-in: it keeps cookies and does not follow redirects.
type client struct {
	t    *testing.T
	base string
	jar  http.CookieJar
	http *http.Client
}

type response struct {
	status   int
	location string
	body     string
}

func (a *testApp) client(t *testing.T) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{
		t:    t,
		base: a.server.URL,
		jar:  jar,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *client) do(method, path string, form url.Values, referer string) response {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if referer != "" {
		req.Header.Set("Referer", c.base+referer)
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	return response{
		status:   resp.StatusCode,
		location: strings.TrimPrefix(resp.Header.Get("Location"), c.base),
		body:     string(data),
	}
}

func (c *client) get(path string) response {
	c.t.Helper()
	return c.do(http.MethodGet, path, nil, "")
}

func (c *client) post(path string, form url.Values) response {
	c.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return c.do(http.MethodPost, path, form, "")
}

func (c *client) postFrom(referer, path string, form url.Values) response {
	c.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return c.do(http.MethodPost, path, form, referer)
}

func (c *client) register(username, password string) response {
	c.t.Helper()
	return c.post("/register", url.Values{
		"username":         {username},
		"password":         {password},
		"confirm_password": {password},
	})
}

func (c *client) login(username, password string) response {
	c.t.Helper()
	return c.post("/login", url.Values{"username": {username}, "password": {password}})
}

// signup registers username and leaves the client logged in as them.
func (a *testApp) signup(t *testing.T, username, password string) *client {
	t.Helper()
	c := a.client(t)
	resp := c.register(username, password)
	require.Equal(t, http.StatusFound, resp.status, resp.body)
	resp = c.login(username, password)
	require.Equal(t, http.StatusFound, resp.status, resp.body)
	return c
}

func (a *testApp) createPost(t *testing.T, authorID uint, title string) *models.Post {
	t.Helper()
	post, err := a.posts.CreatePost(context.Background(), authorID, title, "text of "+title)
	require.NoError(t, err)
	return post
}
