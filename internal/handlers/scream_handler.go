package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/machele-codez/socialape-api/internal/models"
	"github.com/machele-codez/socialape-api/internal/repositories"
	"github.com/machele-codez/socialape-api/internal/store"
)

// ScreamHandler handles HTTP requests related to screams
type ScreamHandler struct {
	screamRepository  repositories.ScreamRepository
	commentRepository repositories.CommentRepository
	likeRepository    repositories.LikeRepository
}

// NewScreamHandler creates a new ScreamHandler
func NewScreamHandler(screamRepo repositories.ScreamRepository, commentRepo repositories.CommentRepository, likeRepo repositories.LikeRepository) *ScreamHandler {
	return &ScreamHandler{
		screamRepository:  screamRepo,
		commentRepository: commentRepo,
		likeRepository:    likeRepo,
	}
}

// RegisterPublicScreamRoutes registers scream routes that need no authentication
func (h *ScreamHandler) RegisterPublicScreamRoutes(g *echo.Group) {
	g.GET("/screams", h.GetAllScreams)
	g.GET("/screams/:id", h.GetScream)
}

// RegisterScreamRoutes registers authenticated scream routes
func (h *ScreamHandler) RegisterScreamRoutes(g *echo.Group) {
	g.POST("/screams", h.CreateScream)
	g.DELETE("/screams/:id", h.DeleteScream)
	g.POST("/screams/:id/like", h.LikeScream)
	g.DELETE("/screams/:id/like", h.UnlikeScream)
	g.POST("/screams/:id/comments", h.CommentOnScream)
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// GetAllScreams returns every scream, newest first
func (h *ScreamHandler) GetAllScreams(c echo.Context) error {
	screams, err := h.screamRepository.GetAllScreams(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, screams)
}

// GetScream returns one scream together with its comments
func (h *ScreamHandler) GetScream(c echo.Context) error {
	screamID := c.Param("id")

	scream, err := h.screamRepository.GetScreamByID(c.Request().Context(), screamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Scream not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comments, err := h.commentRepository.GetCommentsByScreamID(c.Request().Context(), screamID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"scream":   scream,
		"comments": comments,
	})
}

// CreateScream creates a new scream authored by the authenticated user
func (h *ScreamHandler) CreateScream(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateScreamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	scream := &models.Scream{
		UserHandle: user.Handle,
		Body:       req.Body,
		UserImage:  user.ImageURL,
		CreatedAt:  nowTimestamp(),
	}
	if err := h.screamRepository.CreateScream(c.Request().Context(), scream); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, scream)
}

// DeleteScream deletes a scream owned by the authenticated user. Dependent
// comments, likes and notifications are removed by the deletion cascade.
func (h *ScreamHandler) DeleteScream(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	screamID := c.Param("id")

	scream, err := h.screamRepository.GetScreamByID(c.Request().Context(), screamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Scream not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if scream.UserHandle != user.Handle {
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized to delete this scream")
	}

	if err := h.screamRepository.DeleteScream(c.Request().Context(), screamID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Scream deleted successfully"})
}

// LikeScream likes a scream on behalf of the authenticated user. The like
// count is incremented here, synchronously, guarded by a duplicate pre-check;
// the like notification is created by the consistency engine.
func (h *ScreamHandler) LikeScream(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	screamID := c.Param("id")

	scream, err := h.screamRepository.GetScreamByID(c.Request().Context(), screamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Scream not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hasLiked, err := h.likeRepository.HasUserLikedScream(c.Request().Context(), screamID, user.Handle)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hasLiked {
		return echo.NewHTTPError(http.StatusConflict, "Scream already liked")
	}

	like := &models.Like{
		ScreamID:   screamID,
		UserHandle: user.Handle,
	}
	if err := h.likeRepository.CreateLike(c.Request().Context(), like); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.screamRepository.IncrementLikeCount(c.Request().Context(), screamID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	scream.LikeCount++
	return c.JSON(http.StatusOK, scream)
}

// UnlikeScream removes the authenticated user's like from a scream and
// decrements the like count. The like notification is removed by the
// consistency engine.
func (h *ScreamHandler) UnlikeScream(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	screamID := c.Param("id")

	scream, err := h.screamRepository.GetScreamByID(c.Request().Context(), screamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Scream not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.likeRepository.DeleteLike(c.Request().Context(), screamID, user.Handle); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Scream not liked")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.screamRepository.DecrementLikeCount(c.Request().Context(), screamID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	scream.LikeCount--
	return c.JSON(http.StatusOK, scream)
}

// CommentOnScream adds a comment to a scream and increments its comment
// count. The comment notification is created by the consistency engine.
func (h *ScreamHandler) CommentOnScream(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	screamID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.screamRepository.GetScreamByID(c.Request().Context(), screamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Scream not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comment := &models.Comment{
		ScreamID:   screamID,
		UserHandle: user.Handle,
		UserImage:  user.ImageURL,
		Body:       req.Body,
		CreatedAt:  nowTimestamp(),
	}
	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.screamRepository.IncrementCommentCount(c.Request().Context(), screamID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, comment)
}
