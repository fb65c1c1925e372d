package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/repositories"
	"github.com/ravikumar3183/SimpleChat/internal/store"
	"gorm.io/gorm"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository repositories.UserRepository
	store          store.Store
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, st store.Store) *UserHandler {
	return &UserHandler{userRepository: userRepo, store: st}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)    // Get own profile
	g.PUT("/profile", h.UpdateProfile) // Update own display name
	g.GET("/users/search", h.SearchUsers)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := c.Get("userID").(string)

	user, err := h.userRepository.GetUserByUserID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's display name. The change is
// mirrored into the directory collection so other clients pick it up on
// their next snapshot.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByUserID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user.DisplayName = req.DisplayName
	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	err = h.store.Update(c.Request().Context(), store.CollectionUsers, userID, map[string]interface{}{
		"displayName": req.DisplayName,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// SearchUsers searches the account table by display name or email
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	users, err := h.userRepository.SearchUsers(query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}
