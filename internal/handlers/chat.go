package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minisocial/minisocial/internal/forms"
	"github.com/minisocial/minisocial/internal/middleware"
	"github.com/minisocial/minisocial/internal/models"
	"github.com/minisocial/minisocial/internal/services"
	"github.com/minisocial/minisocial/pkg/logger"
)

type ChatHandler struct {
	messageService *services.MessageService
	logger         *logger.Logger
}

func NewChatHandler(messageService *services.MessageService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{
		messageService: messageService,
		logger:         logger,
	}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	other, ok := h.partner(c)
	if !ok {
		return
	}
	h.renderChat(c, other, &forms.MessageForm{}, nil)
}

func (h *ChatHandler) Send(c *gin.Context) {
	other, ok := h.partner(c)
	if !ok {
		return
	}

	var form forms.MessageForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderChat(c, other, &form, forms.FieldErrors{"_form": {err.Error()}})
		return
	}
	if errs := forms.Validate(&form); errs != nil {
		h.renderChat(c, other, &form, errs)
		return
	}

	if _, err := h.messageService.Send(c.Request.Context(), middleware.CurrentUser(c).ID, other.ID, form.Content); err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/chat/%d", other.ID))
}

// partner resolves the chat partner from the path, answering the request itself
// when there is none to chat with.
func (h *ChatHandler) partner(c *gin.Context) (*models.User, bool) {
	otherID, ok := paramID(c, "user_id")
	if !ok {
		return nil, false
	}

	other, err := h.messageService.Partner(c.Request.Context(), middleware.CurrentUser(c).ID, otherID)
	if errors.Is(err, services.ErrSelfChat) {
		middleware.AddFlash(c, "info", "You can't chat with yourself")
		c.Redirect(http.StatusFound, "/")
		return nil, false
	}
	if err != nil {
		handleError(c, h.logger, err)
		return nil, false
	}
	return other, true
}

func (h *ChatHandler) renderChat(c *gin.Context, other *models.User, form *forms.MessageForm, errs forms.FieldErrors) {
	messages, err := h.messageService.Conversation(c.Request.Context(), middleware.CurrentUser(c).ID, other.ID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	render(c, http.StatusOK, "chat.html", "Chat with "+other.Username, gin.H{
		"Other":    other,
		"Messages": messages,
		"Form":     form,
		"Errors":   errs,
	})
}
