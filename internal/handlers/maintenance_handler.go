package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/machele-codez/socialape-api/internal/engine"
)

// MaintenanceHandler exposes maintenance operations of the consistency engine
type MaintenanceHandler struct {
	engine *engine.Engine
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(eng *engine.Engine) *MaintenanceHandler {
	return &MaintenanceHandler{engine: eng}
}

// RegisterMaintenanceRoutes registers maintenance routes
func (h *MaintenanceHandler) RegisterMaintenanceRoutes(g *echo.Group) {
	g.POST("/admin/reconcile", h.Reconcile)
}

// Reconcile recomputes denormalized like/comment counts from the source
// collections and reports how many screams needed repair
func (h *MaintenanceHandler) Reconcile(c echo.Context) error {
	report, err := h.engine.Reconcile(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}
