package handlers

import (
	"errors"
	"net/http"

	"github.com/flowshift/quoter/cmd/quoter/service"
	commonmw "github.com/flowshift/quoter/common/middleware"
	"github.com/flowshift/quoter/common/session"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/moogar0880/problems"
)

func writeProblem(c echo.Context, status int, problem interface{}) error {
	c.Response().Header().Set(echo.HeaderContentType, commonmw.ProblemContentType)
	return c.JSON(status, problem)
}

func badRequest(c echo.Context, kind, detail string) error {
	problem := problems.NewStatusProblem(http.StatusBadRequest).
		WithInstance(c.Path()).
		WithType(kind).
		WithDetail(detail)

	return writeProblem(c, http.StatusBadRequest, problem)
}

func notFound(c echo.Context, kind, detail string) error {
	problem := problems.NewStatusProblem(http.StatusNotFound).
		WithInstance(c.Path()).
		WithType(kind).
		WithDetail(detail)

	return writeProblem(c, http.StatusNotFound, problem)
}

func internalError(c echo.Context, err error) error {
	c.Logger().Error(err)

	problem := problems.NewStatusProblem(http.StatusInternalServerError).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithDetail("An unexpected error occurred.")

	return writeProblem(c, http.StatusInternalServerError, problem)
}

// bindError reports a request that could not be decoded or validated
func bindError(c echo.Context, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return badRequest(c, "validation_error", validationErrs.Error())
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return badRequest(c, "invalid_request", msg)
		}
	}

	return badRequest(c, "invalid_request", err.Error())
}

// handleServiceError maps service errors onto problem responses
func handleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return notFound(c, "session_not_found", "session not found or expired")

	case service.IsNotFoundError(err):
		return notFound(c, "quote_not_found", "quote not found")

	case service.IsValidationError(err):
		return badRequest(c, service.ErrorCode(err, "validation_error"), err.Error())

	default:
		return internalError(c, err)
	}
}
