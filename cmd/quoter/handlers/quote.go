package handlers

import (
	"net/http"

	"github.com/flowshift/quoter/cmd/quoter/service"
	"github.com/labstack/echo/v4"
)

// QuoteHandler serves persisted quotes and pricing reference data
type QuoteHandler struct {
	sessions *service.SessionService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(sessions *service.SessionService) *QuoteHandler {
	return &QuoteHandler{sessions: sessions}
}

// GetQuote retrieves a quote
// GET /api/v1/quotes/:id
func (h *QuoteHandler) GetQuote(c echo.Context) error {
	quote, err := h.sessions.GetQuote(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"quote":   quote,
		"payload": quote.Payload(),
	})
}

// GetPricing returns price constants, plan tables and usage scenarios
// GET /api/v1/pricing
func (h *QuoteHandler) GetPricing(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessions.Pricing())
}
