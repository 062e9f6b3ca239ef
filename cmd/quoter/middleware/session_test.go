package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flowshift/quoter/common/logger"
	commonmw "github.com/flowshift/quoter/common/middleware"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSessionID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		param  string
		header string
		want   string
	}{
		{name: "path parameter", param: "abc", want: "abc"},
		{name: "header fallback", header: "from-header", want: "from-header"},
		{name: "path wins over header", param: "abc", header: "from-header", want: "abc"},
		{name: "neither", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(commonmw.HeaderSessionID, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.param != "" {
				c.SetParamNames("id")
				c.SetParamValues(tt.param)
			}

			var got string
			err := ExtractSessionID()(func(c echo.Context) error {
				got = commonmw.SessionID(c)
				return nil
			})(c)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireSessionID(t *testing.T) {
	t.Parallel()

	e := echo.New()
	called := false
	handler := RequireSessionID()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, handler(c))
	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, commonmw.ProblemContentType, rec.Header().Get(echo.HeaderContentType))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(commonmw.HeaderSessionID, "abc")
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	require.NoError(t, handler(c))
	assert.True(t, called)
	assert.Equal(t, "abc", c.Get(commonmw.SessionIDKey))
}

func TestRequestIDToContext(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	c := e.NewContext(req, httptest.NewRecorder())

	var got interface{}
	err := RequestIDToContext()(func(c echo.Context) error {
		got = c.Request().Context().Value(logger.RequestIDKey)
		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, "req-1", got)
}
