package handlers

import (
	"net/http"

	"github.com/flowshift/quoter/common/bootstrap"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness and dependency health
type HealthHandler struct {
	components *bootstrap.Components
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(components *bootstrap.Components) *HealthHandler {
	return &HealthHandler{components: components}
}

// Health checks the database and Redis when they are configured
// GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	if err := h.components.Health(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"service": h.components.Config.Service.Name,
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.components.Config.Service.Name,
	})
}
