package http

import (
	"errors"
	"net/http"

	"inflight/internal/generated/servers"
	"inflight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{Code: http.StatusBadRequest, Message: message})
}

// errorResponse maps application errors onto the API error body. Anything
// unclassified is logged and reported as 500 without internals.
func (s *Server) errorResponse(ctx echo.Context, err error) error {
	var invalidRef *errs.InvalidReferenceError
	switch {
	case errors.As(err, &invalidRef):
		ids := invalidRef.IDs
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Unknown items",
			Details: &servers.ErrorDetails{InvalidItemIds: &ids},
		})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return badRequest(ctx, err.Error())
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, servers.Error{Code: http.StatusNotFound, Message: err.Error()})
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}
