package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minisocial/minisocial/internal/forms"
	"github.com/minisocial/minisocial/internal/middleware"
	"github.com/minisocial/minisocial/internal/services"
	"github.com/minisocial/minisocial/pkg/logger"
)

type AuthHandler struct {
	userService *services.UserService
	sessions    *middleware.SessionManager
	logger      *logger.Logger
}

func NewAuthHandler(userService *services.UserService, sessions *middleware.SessionManager, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
		logger:      logger,
	}
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	renderRegister(c, &forms.RegisterForm{}, nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form forms.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		renderRegister(c, &form, forms.FieldErrors{"_form": {err.Error()}})
		return
	}
	if errs := forms.Validate(&form); errs != nil {
		renderRegister(c, &form, errs)
		return
	}

	_, err := h.userService.Register(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, services.ErrUsernameTaken) {
		middleware.AddFlash(c, "danger", "Username already exists")
		c.Redirect(http.StatusFound, "/register")
		return
	}
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	middleware.AddFlash(c, "success", "Registration successful. You can log in.")
	c.Redirect(http.StatusFound, "/login")
}

func renderRegister(c *gin.Context, form *forms.RegisterForm, errs forms.FieldErrors) {
	render(c, http.StatusOK, "register.html", "Register", gin.H{"Form": form, "Errors": errs})
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	renderLogin(c, &forms.LoginForm{}, nil)
}

// Login signs the user in and continues to the local "next" path, if any.
func (h *AuthHandler) Login(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		renderLogin(c, &form, forms.FieldErrors{"_form": {err.Error()}})
		return
	}
	if errs := forms.Validate(&form); errs != nil {
		renderLogin(c, &form, errs)
		return
	}

	user, err := h.userService.Login(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		middleware.AddFlash(c, "danger", "Invalid username or password")
		renderLogin(c, &form, nil)
		return
	}
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	if err := h.sessions.Login(c, user); err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Redirect(http.StatusFound, middleware.SafeNext(c.Query("next")))
}

func renderLogin(c *gin.Context, form *forms.LoginForm, errs forms.FieldErrors) {
	render(c, http.StatusOK, "login.html", "Log in", gin.H{"Form": form, "Errors": errs})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c); err != nil {
		h.logger.WithError(err).Error("Failed to revoke session")
	}
	c.Redirect(http.StatusFound, "/login")
}
