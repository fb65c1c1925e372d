package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/services"
)

// GroupHandler handles HTTP requests for groups and group invitations
type GroupHandler struct {
	groupService *services.GroupService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// RegisterGroupRoutes registers group-related routes
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group) {
	g.POST("/groups", h.CreateGroup)
	g.GET("/groups", h.GetGroups)
	g.GET("/groups/invitations", h.GetInvitations)
	g.POST("/groups/invitations/:id/accept", h.AcceptInvite)
	g.DELETE("/groups/invitations/:id", h.DeclineInvite)
}

// CreateGroup creates a group owned by the authenticated user and invites
// the listed friends
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	groupID, err := h.groupService.CreateGroup(c.Request().Context(), userID, req.Name, req.InviteeIDs)
	if err != nil {
		return httpError(err)
	}

	group, err := h.groupService.Group(c.Request().Context(), groupID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, group)
}

// GetGroups returns the groups the authenticated user is a member of
func (h *GroupHandler) GetGroups(c echo.Context) error {
	userID := c.Get("userID").(string)

	groups, err := h.groupService.GroupsContaining(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, groups)
}

// GetInvitations returns the authenticated user's incoming group invitations
func (h *GroupHandler) GetInvitations(c echo.Context) error {
	userID := c.Get("userID").(string)

	invites, err := h.groupService.InvitationsFor(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, invites)
}

// AcceptInvite accepts a group invitation addressed to the authenticated user
func (h *GroupHandler) AcceptInvite(c echo.Context) error {
	userID := c.Get("userID").(string)
	inviteID := c.Param("id")

	invite, err := h.groupService.InvitationByID(c.Request().Context(), inviteID)
	if err != nil {
		return httpError(err)
	}
	if invite.ReceiverID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not the receiver of this invitation")
	}

	if err := h.groupService.AcceptInvite(c.Request().Context(), *invite); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeclineInvite declines a group invitation addressed to the authenticated user
func (h *GroupHandler) DeclineInvite(c echo.Context) error {
	userID := c.Get("userID").(string)
	inviteID := c.Param("id")

	invite, err := h.groupService.InvitationByID(c.Request().Context(), inviteID)
	if err == nil && invite.ReceiverID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not the receiver of this invitation")
	}

	// Decline of an already-gone invitation stays a no-op.
	if err := h.groupService.DeclineInvite(c.Request().Context(), inviteID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
