package routes

import (
	"github.com/flowshift/quoter/cmd/quoter/container"
	"github.com/flowshift/quoter/cmd/quoter/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterQuoteRoutes registers quote and pricing routes
func RegisterQuoteRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewQuoteHandler(c.SessionService)

	e.GET("/api/v1/quotes/:id", h.GetQuote) // GET /api/v1/quotes/{quote_id}
	e.GET("/api/v1/pricing", h.GetPricing)  // GET /api/v1/pricing
}

// RegisterHealthRoutes registers the health check endpoint
func RegisterHealthRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewHealthHandler(c.Components)

	e.GET("/health", h.Health)
}
