package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/services"
)

// ConnectionHandler handles HTTP requests for the friend-request lifecycle
type ConnectionHandler struct {
	connectionService *services.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connectionService *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

// RegisterConnectionRoutes registers connection-related routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.POST("/connections", h.SendRequest)
	g.PUT("/connections/:otherUserId/accept", h.AcceptRequest)
	g.DELETE("/connections/:otherUserId", h.RemoveConnection)
	g.GET("/connections", h.GetConnections)
}

// SendRequest sends a friend request to another user
func (h *ConnectionHandler) SendRequest(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req models.SendConnectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.connectionService.SendRequest(c.Request().Context(), userID, req.OtherUserID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusCreated)
}

// AcceptRequest accepts a pending friend request from another user
func (h *ConnectionHandler) AcceptRequest(c echo.Context) error {
	userID := c.Get("userID").(string)
	otherUserID := c.Param("otherUserId")

	if err := h.connectionService.AcceptRequest(c.Request().Context(), userID, otherUserID); err != nil {
		return httpError(err)
	}

	conn, err := h.connectionService.Connection(c.Request().Context(), userID, otherUserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, conn)
}

// RemoveConnection declines, cancels or unfriends; all three are the same
// idempotent delete
func (h *ConnectionHandler) RemoveConnection(c echo.Context) error {
	userID := c.Get("userID").(string)
	otherUserID := c.Param("otherUserId")

	if err := h.connectionService.RemoveConnection(c.Request().Context(), userID, otherUserID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetConnections returns the authenticated user's connections keyed by the
// other participant
func (h *ConnectionHandler) GetConnections(c echo.Context) error {
	userID := c.Get("userID").(string)

	connections, err := h.connectionService.ConnectionsFor(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, connections)
}
