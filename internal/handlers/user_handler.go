package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/machele-codez/socialape-api/internal/models"
	"github.com/machele-codez/socialape-api/internal/repositories"
	"github.com/machele-codez/socialape-api/internal/store"
)

// IdentityClient creates accounts with the identity provider. Token issuance
// and verification stay with the provider; the application only keeps the
// returned user id.
type IdentityClient interface {
	CreateUser(ctx context.Context, email, password string) (string, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userRepository         repositories.UserRepository
	screamRepository       repositories.ScreamRepository
	likeRepository         repositories.LikeRepository
	notificationRepository repositories.NotificationRepository
	identity               IdentityClient
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, screamRepo repositories.ScreamRepository, likeRepo repositories.LikeRepository, notifRepo repositories.NotificationRepository, identity IdentityClient) *UserHandler {
	return &UserHandler{
		userRepository:         userRepo,
		screamRepository:       screamRepo,
		likeRepository:         likeRepo,
		notificationRepository: notifRepo,
		identity:               identity,
	}
}

// RegisterPublicUserRoutes registers user routes that need no authentication
func (h *UserHandler) RegisterPublicUserRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.GET("/user/:handle", h.GetUserDetails)
}

// RegisterUserRoutes registers authenticated user routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/user", h.AddUserDetails)
	g.GET("/user", h.GetAuthUser)
	g.PUT("/notifications", h.MarkNotificationsRead)
}

// Signup registers a new user: the handle is claimed after a uniqueness
// pre-check, the account is created with the identity provider, and the user
// document is stored under the handle.
func (h *UserHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.userRepository.GetUserByHandle(c.Request().Context(), req.Handle)
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "This handle is already taken")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	userID, err := h.identity.CreateUser(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := &models.User{
		Handle:    req.Handle,
		UserID:    userID,
		Email:     req.Email,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, user)
}

// AddUserDetails applies profile details to the authenticated user. An
// imageURL change here is what triggers propagation to the user's screams.
func (h *UserHandler) AddUserDetails(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateUserDetailsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	fields := store.Document{}
	if req.Bio != "" {
		fields["bio"] = req.Bio
	}
	if req.Website != "" {
		fields["website"] = req.Website
	}
	if req.Location != "" {
		fields["location"] = req.Location
	}
	if req.ImageURL != "" {
		fields["imageURL"] = req.ImageURL
	}
	if len(fields) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No details provided")
	}

	if err := h.userRepository.UpdateUserDetails(c.Request().Context(), user.Handle, fields); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Details updated successfully"})
}

// GetAuthUser returns the authenticated user's credentials together with
// their likes and notifications
func (h *UserHandler) GetAuthUser(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	likes, err := h.likeRepository.GetLikesByUserHandle(c.Request().Context(), user.Handle)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	notifications, err := h.notificationRepository.GetByRecipient(c.Request().Context(), user.Handle)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"credentials":   user,
		"likes":         likes,
		"notifications": notifications,
	})
}

// GetUserDetails returns any user's public details and their screams
func (h *UserHandler) GetUserDetails(c echo.Context) error {
	handle := c.Param("handle")

	user, err := h.userRepository.GetUserByHandle(c.Request().Context(), handle)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	screams, err := h.screamRepository.GetScreamsByUserHandle(c.Request().Context(), handle)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":    user,
		"screams": screams,
	})
}

// MarkNotificationsRead marks the given notifications as read
func (h *UserHandler) MarkNotificationsRead(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var ids []string
	if err := c.Bind(&ids); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if len(ids) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No notification ids provided")
	}

	if err := h.notificationRepository.MarkRead(c.Request().Context(), ids); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notifications marked read"})
}
