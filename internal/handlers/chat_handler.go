package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/services"
)

// ChatHandler handles HTTP requests for 1:1 and group chat messages
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.POST("/chats/:otherUserId/messages", h.SendDirectMessage)
	g.GET("/chats/:otherUserId/messages", h.GetDirectMessages)
	g.POST("/groups/:id/messages", h.SendGroupMessage)
	g.GET("/groups/:id/messages", h.GetGroupMessages)
}

// SendDirectMessage appends a message to the 1:1 conversation with another user
func (h *ChatHandler) SendDirectMessage(c echo.Context) error {
	userID := c.Get("userID").(string)
	otherUserID := c.Param("otherUserId")

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.chatService.SendDirectMessage(c.Request().Context(), userID, otherUserID, req.Text)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, message)
}

// GetDirectMessages returns the 1:1 conversation with another user, oldest first
func (h *ChatHandler) GetDirectMessages(c echo.Context) error {
	userID := c.Get("userID").(string)
	otherUserID := c.Param("otherUserId")
	skip, limit := pagination(c)

	messages, err := h.chatService.DirectHistory(c.Request().Context(), userID, otherUserID, skip, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, messages)
}

// SendGroupMessage appends a message to a group's stream
func (h *ChatHandler) SendGroupMessage(c echo.Context) error {
	userID := c.Get("userID").(string)
	groupID := c.Param("id")

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.chatService.SendGroupMessage(c.Request().Context(), userID, groupID, req.Text)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, message)
}

// GetGroupMessages returns a group's messages, oldest first
func (h *ChatHandler) GetGroupMessages(c echo.Context) error {
	userID := c.Get("userID").(string)
	groupID := c.Param("id")
	skip, limit := pagination(c)

	messages, err := h.chatService.GroupHistory(c.Request().Context(), userID, groupID, skip, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, messages)
}

func pagination(c echo.Context) (skip, limit int64) {
	skip, _ = strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	return skip, limit
}
