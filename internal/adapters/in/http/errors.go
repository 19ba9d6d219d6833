package http

import (
	"errors"
	"net/http"

	"freightops/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// errorResponse maps a domain error to an HTTP response. Validation failures
// are client errors, not-found and conflict map to their HTTP equivalents,
// unmet readiness preconditions map to 412, and rejected state transitions
// map to 422 with the offending package IDs enumerated in the body.
func errorResponse(ctx echo.Context, err error) error {
	status := statusFor(err)

	body := Error{
		Code:    status,
		Message: err.Error(),
	}
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		body.Message = "internal server error"
		ctx.Logger().Error(err)
	}

	var invalidState *errs.InvalidStateError
	if errors.As(err, &invalidState) {
		body.PackageIds = invalidState.EntityIDs
	}

	return ctx.JSON(status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrPreconditionNotMet):
		return http.StatusPreconditionFailed
	case errors.Is(err, errs.ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
