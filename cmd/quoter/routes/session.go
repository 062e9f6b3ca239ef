package routes

import (
	"github.com/flowshift/quoter/cmd/quoter/container"
	"github.com/flowshift/quoter/cmd/quoter/handlers"
	"github.com/flowshift/quoter/cmd/quoter/middleware"
	commonmw "github.com/flowshift/quoter/common/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterSessionRoutes registers all session-related routes
func RegisterSessionRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewSessionHandler(c.SessionService, c.Components.Config.Limits.MaxFileSizeBytes)

	sessions := e.Group("/api/v1/sessions")
	sessions.POST("", h.CreateSession) // POST /api/v1/sessions

	s := sessions.Group("/:id", middleware.ExtractSessionID())
	registerSessionScoped(s, h, uploadMiddleware(c))

	// Same routes keyed by the X-Session-ID header
	alias := e.Group("/api/v1/session", middleware.RequireSessionID())
	registerSessionScoped(alias, h, uploadMiddleware(c))
}

func registerSessionScoped(g *echo.Group, h *handlers.SessionHandler, upload []echo.MiddlewareFunc) {
	g.GET("", h.GetSession)                           // GET /api/v1/sessions/{id}
	g.DELETE("", h.ResetSession)                      // DELETE /api/v1/sessions/{id}
	g.POST("/uploads", h.Upload, upload...)           // POST /api/v1/sessions/{id}/uploads
	g.DELETE("/files/:fileName", h.RemoveFile)        // DELETE /api/v1/sessions/{id}/files/flow.json
	g.DELETE("/platforms/:platform", h.ClearPlatform) // DELETE /api/v1/sessions/{id}/platforms/zapier
	g.GET("/zapier/pending", h.GetPendingZaps)        // GET /api/v1/sessions/{id}/zapier/pending
	g.PUT("/zapier/selection", h.SelectZaps)          // PUT /api/v1/sessions/{id}/zapier/selection
	g.GET("/savings", h.GetSavings)                   // GET /api/v1/sessions/{id}/savings?execsPerDay=50
	g.POST("/checkout", h.Checkout)                   // POST /api/v1/sessions/{id}/checkout
	g.GET("/quotes", h.ListQuotes)                    // GET /api/v1/sessions/{id}/quotes
}

// uploadMiddleware returns the rate limit chain for uploads, empty when
// rate limiting is disabled
func uploadMiddleware(c *container.Container) []echo.MiddlewareFunc {
	if c.RateLimiter == nil {
		return nil
	}
	return []echo.MiddlewareFunc{
		commonmw.GlobalRateLimitMiddleware(c.RateLimiter, c.GlobalLimit),
		commonmw.SessionRateLimitMiddleware(c.RateLimiter, c.SessionTiers),
	}
}
