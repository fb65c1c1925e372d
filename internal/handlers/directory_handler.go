package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ravikumar3183/SimpleChat/internal/services"
)

// DirectoryHandler serves the user directory joined with the viewer's
// connection state
type DirectoryHandler struct {
	directoryService *services.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(directoryService *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

// RegisterDirectoryRoutes registers directory-related routes
func (h *DirectoryHandler) RegisterDirectoryRoutes(g *echo.Group) {
	g.GET("/directory", h.GetDirectory)
	g.GET("/friends", h.GetFriends)
}

// GetDirectory returns every other user with the viewer's connection to them
func (h *DirectoryHandler) GetDirectory(c echo.Context) error {
	userID := c.Get("userID").(string)

	entries, err := h.directoryService.Directory(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// GetFriends returns the users the viewer has an accepted connection with.
// This is the selectable pool for group creation.
func (h *DirectoryHandler) GetFriends(c echo.Context) error {
	userID := c.Get("userID").(string)

	friends, err := h.directoryService.Friends(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, friends)
}
