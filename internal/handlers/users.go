package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minisocial/minisocial/internal/middleware"
	"github.com/minisocial/minisocial/internal/services"
	"github.com/minisocial/minisocial/pkg/logger"
)

const recentActivityLimit = 10

type UserHandler struct {
	userService     *services.UserService
	postService     *services.PostService
	activityService *services.ActivityService
	logger          *logger.Logger
}

func NewUserHandler(userService *services.UserService, postService *services.PostService, activityService *services.ActivityService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService:     userService,
		postService:     postService,
		activityService: activityService,
		logger:          logger,
	}
}

// Index lists users. Signed-in viewers see everyone else with follow buttons.
func (h *UserHandler) Index(c *gin.Context) {
	var viewerID uint
	if user := middleware.CurrentUser(c); user != nil {
		viewerID = user.ID
	}

	dir, err := h.userService.Directory(c.Request.Context(), viewerID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	render(c, http.StatusOK, "index.html", "Users", gin.H{
		"Users":    dir.Users,
		"Followed": dir.Followed,
	})
}

func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	viewer := middleware.CurrentUser(c)

	profile, err := h.postService.Profile(c.Request.Context(), viewer.ID, userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	render(c, http.StatusOK, "profile.html", profile.User.Username, gin.H{
		"Profile":  profile,
		"Activity": h.activityService.Recent(c.Request.Context(), userID, recentActivityLimit),
	})
}

func (h *UserHandler) Follow(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	err := h.userService.Follow(c.Request.Context(), middleware.CurrentUser(c).ID, userID)
	if errors.Is(err, services.ErrSelfFollow) {
		middleware.AddFlash(c, "danger", "You can't follow yourself")
		redirectBack(c)
		return
	}
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	redirectBack(c)
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	if err := h.userService.Unfollow(c.Request.Context(), middleware.CurrentUser(c).ID, userID); err != nil {
		handleError(c, h.logger, err)
		return
	}
	redirectBack(c)
}
