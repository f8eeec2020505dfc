package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/machele-codez/socialape-api/internal/handlers"
	"github.com/machele-codez/socialape-api/internal/repositories"
	"github.com/machele-codez/socialape-api/internal/store"
)

// TokenVerifier verifies a bearer token with the identity provider and
// returns the stable user id it is bound to.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
}

// AuthMiddleware creates an Echo middleware that verifies the Bearer token
// and resolves the verified user id to the user's handle. The resolved user
// is stored on the request context for handlers.
func AuthMiddleware(verifier TokenVerifier, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}
			idToken := tokenParts[1]

			userID, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("Invalid or expired ID token: %v", err))
			}

			user, err := userRepo.GetUserByUserID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return echo.NewHTTPError(http.StatusForbidden, "Authenticated user has no profile")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}

			c.Set(handlers.ContextUserKey, user)
			return next(c)
		}
	}
}
