package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minisocial/minisocial/internal/middleware"
	"github.com/minisocial/minisocial/internal/web"
	"github.com/minisocial/minisocial/pkg/logger"
	"github.com/minisocial/minisocial/pkg/metrics"
)

// Router bundles the handlers served by the web application.
type Router struct {
	Auth  *AuthHandler
	Users *UserHandler
	Posts *PostHandler
	Chat  *ChatHandler

	// Limiter throttles login and registration submissions when set.
	Limiter *middleware.RateLimiter
}

// Engine builds the gin engine with templates, middleware and every route.
func (r *Router) Engine(sessions *middleware.SessionManager, log *logger.Logger) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.SecureHeaders())
	router.Use(sessions.LoadSession())

	router.NoRoute(func(c *gin.Context) {
		renderStatus(c, http.StatusNotFound, "The requested page does not exist.")
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.GET("/", r.Users.Index)
	router.GET("/register", r.Auth.RegisterPage)
	router.GET("/login", r.Auth.LoginPage)

	submit := router.Group("")
	if r.Limiter != nil {
		submit.Use(r.Limiter.Limit())
	}
	{
		submit.POST("/register", r.Auth.Register)
		submit.POST("/login", r.Auth.Login)
	}

	protected := router.Group("")
	protected.Use(sessions.RequireLogin())
	{
		protected.GET("/logout", r.Auth.Logout)

		protected.GET("/profile/:user_id", r.Users.Profile)
		protected.POST("/follow/:user_id", r.Users.Follow)
		protected.POST("/unfollow/:user_id", r.Users.Unfollow)

		protected.GET("/add_post", r.Posts.AddPostPage)
		protected.POST("/add_post", r.Posts.AddPost)
		protected.POST("/like/:post_id", r.Posts.Like)

		protected.GET("/chat/:user_id", r.Chat.Chat)
		protected.POST("/chat/:user_id", r.Chat.Send)
	}

	return router, nil
}
