package middleware

import (
	"net/http"

	"github.com/flowshift/quoter/common/logger"
	commonmw "github.com/flowshift/quoter/common/middleware"
	"github.com/labstack/echo/v4"
	"github.com/moogar0880/problems"
)

// ExtractSessionID resolves the session id from the :id path parameter or,
// failing that, the X-Session-ID header, and stores it on the echo context.
//
// Accessing in handlers:
//
//	sessionID := commonmw.SessionID(c)
func ExtractSessionID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Param("id")
			if id == "" {
				id = c.Request().Header.Get(commonmw.HeaderSessionID)
			}
			if id != "" {
				c.Set(commonmw.SessionIDKey, id)
			}
			return next(c)
		}
	}
}

// RequireSessionID is the strict variant for routes without an :id segment
func RequireSessionID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(commonmw.HeaderSessionID)
			if id == "" {
				problem := problems.NewStatusProblem(http.StatusBadRequest).
					WithInstance(c.Path()).
					WithType("missing_session").
					WithDetail(commonmw.HeaderSessionID + " header is required")

				c.Response().Header().Set(echo.HeaderContentType, commonmw.ProblemContentType)
				return c.JSON(http.StatusBadRequest, problem)
			}

			c.Set(commonmw.SessionIDKey, id)
			return next(c)
		}
	}
}

// RequestIDToContext copies the echo request id into the request context so
// service logs carry it
func RequestIDToContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			if id != "" {
				ctx := logger.ContextWithRequestID(c.Request().Context(), id)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}
