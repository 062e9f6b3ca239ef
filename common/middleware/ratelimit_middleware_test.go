package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flowshift/quoter/common/ratelimit"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	allow     bool
	err       error
	sessionID string
	tier      ratelimit.UploadTier
}

func (f *fakeChecker) result() (*ratelimit.RateLimitResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.allow {
		return &ratelimit.RateLimitResult{Allowed: true, CurrentCount: 1, Limit: 10}, nil
	}
	return &ratelimit.RateLimitResult{Allowed: false, CurrentCount: 11, Limit: 10, RetryAfterSeconds: 17}, nil
}

func (f *fakeChecker) CheckGlobalLimit(ctx context.Context, limit int64, windowSec int) (*ratelimit.RateLimitResult, error) {
	return f.result()
}

func (f *fakeChecker) CheckSessionLimit(ctx context.Context, sessionID string, tier ratelimit.UploadTier, limit int64, windowSec int) (*ratelimit.RateLimitResult, error) {
	f.sessionID = sessionID
	f.tier = tier
	return f.result()
}

func serve(t *testing.T, mw echo.MiddlewareFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.POST("/sessions/:id/uploads", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, mw)

	req := httptest.NewRequest(http.MethodPost, "/sessions/abc/uploads", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGlobalRateLimitMiddleware(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		rec := serve(t, GlobalRateLimitMiddleware(&fakeChecker{allow: true}, ratelimit.DefaultGlobalConfig), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("rejected", func(t *testing.T) {
		rec := serve(t, GlobalRateLimitMiddleware(&fakeChecker{}, ratelimit.DefaultGlobalConfig), "")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "17", rec.Header().Get("Retry-After"))
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/problem+json")
		assert.Contains(t, rec.Body.String(), "global_rate_limit_exceeded")
	})

	t.Run("fails open", func(t *testing.T) {
		rec := serve(t, GlobalRateLimitMiddleware(&fakeChecker{err: errors.New("redis down")}, ratelimit.DefaultGlobalConfig), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestSessionRateLimitMiddleware(t *testing.T) {
	tiers := ratelimit.TierConfigs(30, 60)

	checker := &fakeChecker{allow: true}
	rec := serve(t, SessionRateLimitMiddleware(checker, tiers), "small body")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "abc", checker.sessionID)
	assert.Equal(t, ratelimit.TierSmall, checker.tier)

	rec = serve(t, SessionRateLimitMiddleware(&fakeChecker{}, tiers), "small body")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_rate_limit_exceeded")
}
