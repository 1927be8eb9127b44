package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minisocial/minisocial/internal/middleware"
	"github.com/minisocial/minisocial/internal/services"
	"github.com/minisocial/minisocial/pkg/logger"
)

// render executes the named page with the current user and pending flashes
// merged into data.
func render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["CurrentUser"] = middleware.CurrentUser(c)
	data["Flashes"] = middleware.Flashes(c)
	c.HTML(status, name, data)
}

func renderStatus(c *gin.Context, status int, message string) {
	render(c, status, "error.html", http.StatusText(status), gin.H{
		"Status":  status,
		"Message": message,
	})
}

// handleError maps service errors to an error page.
func handleError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrPostNotFound):
		renderStatus(c, http.StatusNotFound, "The requested page does not exist.")
	case errors.Is(err, services.ErrPostTitleTaken):
		renderStatus(c, http.StatusConflict, "The request could not be completed.")
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		_ = c.Error(err)
		renderStatus(c, http.StatusInternalServerError, "Something went wrong.")
	}
}

// paramID parses a numeric path parameter. Anything else is answered with 404.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		renderStatus(c, http.StatusNotFound, "The requested page does not exist.")
		return 0, false
	}
	return uint(id), true
}

// redirectBack sends the browser to the page the form was posted from.
func redirectBack(c *gin.Context) {
	target := c.Request.Referer()
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusFound, target)
}
