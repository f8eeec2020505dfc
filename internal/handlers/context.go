package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/machele-codez/socialape-api/internal/models"
)

// ContextUserKey is the echo context key under which the authentication
// middleware stores the resolved user.
const ContextUserKey = "authUser"

func getUserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(ContextUserKey).(*models.User)
	return user
}
