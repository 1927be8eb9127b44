package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minisocial/minisocial/internal/config"
	"github.com/minisocial/minisocial/internal/models"
	"github.com/minisocial/minisocial/pkg/logger"
)

const (
	userKey   = "current_user"
	claimsKey = "session_claims"
)

var errRevocationUnavailable = errors.New("session revocation check unavailable")

// UserLoader resolves the user id stored in a session.
type UserLoader interface {
	GetByID(ctx context.Context, userID uint) (*models.User, error)
}

// Revoker remembers tokens ended by logout.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, remaining time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SessionManager is the authentication gate: it maps the session cookie to the
// current user and guards routes that need one.
type SessionManager struct {
	cfg     *config.AuthConfig
	users   UserLoader
	revoker Revoker
	logger  *logger.Logger
}

func NewSessionManager(cfg *config.AuthConfig, users UserLoader, revoker Revoker, logger *logger.Logger) *SessionManager {
	return &SessionManager{
		cfg:     cfg,
		users:   users,
		revoker: revoker,
		logger:  logger,
	}
}

// LoadSession attaches the signed-in user to the context, if any. Bad, expired
// or revoked cookies are cleared and the request continues anonymously. When
// revocation cannot be checked the request is anonymous but the cookie is kept.
func (m *SessionManager) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(m.cfg.CookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		user, claims, err := m.resolve(c.Request.Context(), raw)
		if errors.Is(err, errRevocationUnavailable) {
			c.Next()
			return
		}
		if err != nil {
			m.logger.WithError(err).Debug("Discarding session cookie")
			m.clearCookie(c)
			c.Next()
			return
		}

		c.Set(userKey, user)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func (m *SessionManager) resolve(ctx context.Context, raw string) (*models.User, *Claims, error) {
	claims, err := ParseToken(raw, m.cfg.SecretKey)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := m.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		// fail closed
		m.logger.WithError(err).Error("Failed to check session revocation")
		return nil, nil, fmt.Errorf("%w: %v", errRevocationUnavailable, err)
	}
	if revoked {
		return nil, nil, errors.New("session revoked")
	}

	user, err := m.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// RequireLogin redirects anonymous requests to the login page, remembering where they were going.
func (m *SessionManager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		AddFlash(c, "info", "Please log in to access this page.")
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// Login starts a session for user by setting the session cookie.
func (m *SessionManager) Login(c *gin.Context, user *models.User) error {
	token, claims, err := GenerateToken(user.ID, m.cfg.SecretKey, m.cfg.SessionTTL)
	if err != nil {
		return err
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout revokes the current token and clears the cookie.
func (m *SessionManager) Logout(c *gin.Context) error {
	defer m.clearCookie(c)

	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims := v.(*Claims)
	return m.revoker.Revoke(c.Request.Context(), claims.ID, time.Until(claims.ExpiresAt.Time))
}

func (m *SessionManager) clearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrentUser returns the signed-in user or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SafeNext returns next when it is a local path and "/" otherwise.
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
