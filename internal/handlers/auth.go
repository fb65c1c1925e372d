package handlers

import (
	"context"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/repositories"
	"github.com/ravikumar3183/SimpleChat/internal/store"
)

// AuthHandler handles account registration. Authentication itself lives in
// Firebase; this handler only turns a verified identity into local records.
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *auth.Client
	store          store.Store
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuthClient *auth.Client, st store.Store) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
		store:          st,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
}

// Register verifies the Firebase ID token, creates the account row and
// mirrors the user into the directory collection so other clients see the
// new user on their next directory snapshot.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.firebaseAuth.VerifyIDToken(context.Background(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)

	// Already registered?
	if _, err := h.userRepository.GetUserByUserID(token.UID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User already registered")
	}

	user := &models.User{
		UserID:      token.UID,
		Email:       email,
		DisplayName: req.DisplayName,
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	directoryUser := models.DirectoryUser{
		UserID:      user.UserID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
	if err := h.store.Put(c.Request().Context(), store.CollectionUsers, user.UserID, directoryUser); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, user)
}
