package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minisocial/minisocial/internal/forms"
	"github.com/minisocial/minisocial/internal/middleware"
	"github.com/minisocial/minisocial/internal/services"
	"github.com/minisocial/minisocial/pkg/logger"
)

type PostHandler struct {
	postService *services.PostService
	likeService *services.LikeService
	logger      *logger.Logger
}

func NewPostHandler(postService *services.PostService, likeService *services.LikeService, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		likeService: likeService,
		logger:      logger,
	}
}

func (h *PostHandler) AddPostPage(c *gin.Context) {
	renderAddPost(c, &forms.AddPostForm{}, nil)
}

// AddPost publishes a post. A title already in use fails the request outright.
func (h *PostHandler) AddPost(c *gin.Context) {
	var form forms.AddPostForm
	if err := c.ShouldBind(&form); err != nil {
		renderAddPost(c, &form, forms.FieldErrors{"_form": {err.Error()}})
		return
	}
	if errs := forms.Validate(&form); errs != nil {
		renderAddPost(c, &form, errs)
		return
	}

	author := middleware.CurrentUser(c)
	if _, err := h.postService.CreatePost(c.Request.Context(), author.ID, form.Title, form.Text); err != nil {
		handleError(c, h.logger, err)
		return
	}

	middleware.AddFlash(c, "success", "Post was created successfully!")
	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%d", author.ID))
}

func renderAddPost(c *gin.Context, form *forms.AddPostForm, errs forms.FieldErrors) {
	render(c, http.StatusOK, "add_post.html", "New post", gin.H{"Form": form, "Errors": errs})
}

// Like toggles the current user's like on the post.
func (h *PostHandler) Like(c *gin.Context) {
	postID, ok := paramID(c, "post_id")
	if !ok {
		return
	}

	if _, err := h.likeService.Toggle(c.Request.Context(), middleware.CurrentUser(c).ID, postID); err != nil {
		handleError(c, h.logger, err)
		return
	}
	redirectBack(c)
}
