package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/flowshift/quoter/cmd/quoter/service"
	"github.com/flowshift/quoter/common/ingest"
	commonmw "github.com/flowshift/quoter/common/middleware"
	"github.com/labstack/echo/v4"
)

// SessionHandler handles quoting session requests
type SessionHandler struct {
	sessions    *service.SessionService
	maxFileSize int64
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, maxFileSize int64) *SessionHandler {
	return &SessionHandler{
		sessions:    sessions,
		maxFileSize: maxFileSize,
	}
}

// CreateSession starts a new session
// POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c echo.Context) error {
	view, err := h.sessions.Create(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Response().Header().Set(commonmw.HeaderSessionID, view.ID)
	return c.JSON(http.StatusCreated, view)
}

// GetSession returns workflows, pending zaps and the summary
// GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c echo.Context) error {
	view, err := h.sessions.Get(c.Request().Context(), commonmw.SessionID(c))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// ResetSession returns the session to its empty state
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) ResetSession(c echo.Context) error {
	view, err := h.sessions.Reset(c.Request().Context(), commonmw.SessionID(c))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Upload processes a multipart batch of exports (field "files")
// POST /api/v1/sessions/:id/uploads
func (h *SessionHandler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "invalid_request", "expected a multipart/form-data body with a files field")
	}

	headers := form.File["files"]
	files := make([]ingest.File, 0, len(headers))
	for _, fh := range headers {
		f, err := h.readFile(fh)
		if err != nil {
			return internalError(c, err)
		}
		files = append(files, f)
	}

	result, err := h.sessions.Upload(c.Request().Context(), commonmw.SessionID(c), files)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// readFile reads at most one byte past the size limit so oversized files
// are rejected without buffering them
func (h *SessionHandler) readFile(fh *multipart.FileHeader) (ingest.File, error) {
	f := ingest.File{Name: fh.Filename, Size: fh.Size}
	if fh.Size > h.maxFileSize {
		return f, nil
	}

	src, err := fh.Open()
	if err != nil {
		return f, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, h.maxFileSize+1))
	if err != nil {
		return f, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
	}
	f.Content = content
	if f.Size == 0 {
		f.Size = int64(len(content))
	}
	return f, nil
}

// RemoveFile drops every workflow that came from one file
// DELETE /api/v1/sessions/:id/files/:fileName
func (h *SessionHandler) RemoveFile(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("fileName"))
	if err != nil {
		return badRequest(c, "invalid_request", "file name is not valid path encoding")
	}

	param := FileNameParam{FileName: name}
	if err := c.Validate(&param); err != nil {
		return bindError(c, err)
	}

	view, removed, err := h.sessions.RemoveFile(c.Request().Context(), commonmw.SessionID(c), param.FileName)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"removed": removed,
		"session": view,
	})
}

// ClearPlatform drops every workflow of one platform
// DELETE /api/v1/sessions/:id/platforms/:platform
func (h *SessionHandler) ClearPlatform(c echo.Context) error {
	param := PlatformParam{Platform: c.Param("platform")}
	if err := c.Validate(&param); err != nil {
		return badRequest(c, "invalid_platform", fmt.Sprintf("unknown platform %q", param.Platform))
	}

	view, removed, err := h.sessions.ClearPlatform(c.Request().Context(), commonmw.SessionID(c), param.Platform)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"removed": removed,
		"session": view,
	})
}

// GetPendingZaps lists zaps awaiting selection
// GET /api/v1/sessions/:id/zapier/pending
func (h *SessionHandler) GetPendingZaps(c echo.Context) error {
	pending, err := h.sessions.PendingZaps(c.Request().Context(), commonmw.SessionID(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"pendingZaps": pending,
		"count":       len(pending),
	})
}

// SelectZaps confirms or replaces the Zapier selection
// PUT /api/v1/sessions/:id/zapier/selection
func (h *SessionHandler) SelectZaps(c echo.Context) error {
	var req SelectZapsRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return bindError(c, err)
	}

	view, err := h.sessions.SelectZaps(c.Request().Context(), commonmw.SessionID(c), req.ZapIDs)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// GetSavings projects savings for the current selection
// GET /api/v1/sessions/:id/savings?execsPerDay=&selfHostCost=
func (h *SessionHandler) GetSavings(c echo.Context) error {
	var query SavingsQuery
	var execs float64

	err := echo.QueryParamsBinder(c).
		Float64("execsPerDay", &execs).
		Float64("selfHostCost", &query.SelfHostCost).
		BindError()
	if err != nil {
		return bindError(c, err)
	}
	if c.QueryParam("execsPerDay") != "" {
		query.ExecsPerDay = &execs
	}
	if err := c.Validate(&query); err != nil {
		return bindError(c, err)
	}

	view, err := h.sessions.Savings(c.Request().Context(), commonmw.SessionID(c), query.ExecsPerDay, query.SelfHostCost)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Checkout persists a quote for the current selection
// POST /api/v1/sessions/:id/checkout
func (h *SessionHandler) Checkout(c echo.Context) error {
	quote, err := h.sessions.Checkout(c.Request().Context(), commonmw.SessionID(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"quote":   quote,
		"payload": quote.Payload(),
	})
}

// ListQuotes lists the latest quotes of the session
// GET /api/v1/sessions/:id/quotes?limit=
func (h *SessionHandler) ListQuotes(c echo.Context) error {
	query := ListQuotesQuery{Limit: 20}
	if err := echo.QueryParamsBinder(c).Int("limit", &query.Limit).BindError(); err != nil {
		return bindError(c, err)
	}
	if err := c.Validate(&query); err != nil {
		return bindError(c, err)
	}

	quotes, err := h.sessions.ListQuotes(c.Request().Context(), commonmw.SessionID(c), query.Limit)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"quotes": quotes,
		"count":  len(quotes),
	})
}
