package middleware

import (
	"net/http"
	"strconv"

	"github.com/flowshift/quoter/common/ratelimit"
	"github.com/labstack/echo/v4"
	"github.com/moogar0880/problems"
)

// ProblemContentType is the media type of RFC 7807 error bodies
const ProblemContentType = "application/problem+json"

const (
	// SessionIDKey is the echo context key holding the resolved session id
	SessionIDKey = "session_id"

	// HeaderSessionID carries the session id outside of the path
	HeaderSessionID = "X-Session-ID"
)

// SessionID returns the session id set by the session middleware, falling
// back to the :id path parameter
func SessionID(c echo.Context) string {
	if id, ok := c.Get(SessionIDKey).(string); ok && id != "" {
		return id
	}
	return c.Param("id")
}

func tooManyRequests(c echo.Context, kind string, result *ratelimit.RateLimitResult, detail string) error {
	problem := problems.NewStatusProblem(http.StatusTooManyRequests).
		WithInstance(c.Path()).
		WithType(kind).
		WithDetail(detail)

	c.Response().Header().Set("Retry-After", strconv.FormatInt(result.RetryAfterSeconds, 10))
	c.Response().Header().Set("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
	c.Response().Header().Set(echo.HeaderContentType, ProblemContentType)
	return c.JSON(http.StatusTooManyRequests, problem)
}

// GlobalRateLimitMiddleware checks the service-wide upload limit
// Protects the parser from being overwhelmed
func GlobalRateLimitMiddleware(limiter ratelimit.Checker, cfg ratelimit.GlobalConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result, err := limiter.CheckGlobalLimit(c.Request().Context(), cfg.Limit, cfg.WindowSeconds)
			if err != nil {
				// On error, allow request (fail open for availability)
				return next(c)
			}

			if !result.Allowed {
				return tooManyRequests(c, "global_rate_limit_exceeded", result,
					"Service is experiencing high load. Please try again later.")
			}

			return next(c)
		}
	}
}

// SessionRateLimitMiddleware checks per-session upload limits, tiered by
// request size
func SessionRateLimitMiddleware(limiter ratelimit.Checker, tiers map[ratelimit.UploadTier]ratelimit.TierConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := SessionID(c)
			if sessionID == "" {
				return next(c)
			}

			tier := ratelimit.InspectUpload(c.Request().ContentLength)
			cfg := ratelimit.LimitForTier(tiers, tier)

			result, err := limiter.CheckSessionLimit(c.Request().Context(), sessionID, tier, cfg.Limit, cfg.WindowSeconds)
			if err != nil {
				// On error, allow request (fail open for availability)
				return next(c)
			}

			if !result.Allowed {
				return tooManyRequests(c, "session_rate_limit_exceeded", result,
					"Too many uploads for this session. Please wait before trying again.")
			}

			return next(c)
		}
	}
}
