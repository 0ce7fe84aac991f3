package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var conflicts = []error{
	batch.ErrBatchFull,
	batch.ErrBatchCompleted,
	batch.ErrBatchEmpty,
	batch.ErrOrderNotInBatch,
	batch.ErrCourierDoubleBooked,
	services.ErrCourierUnavailable,
	services.ErrUndeliveredOrders,
	commands.ErrBatchChanged,
	commands.ErrBatchHasNoCourier,
	commands.ErrBatchNotInProgress,
	commands.ErrOrderAlreadyBatched,
	commands.ErrOrderNotBatched,
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound), errors.Is(err, services.ErrZoneUnresolved):
		return http.StatusNotFound
	case isConflict(err):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrNameIsRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isConflict(err error) bool {
	for _, target := range conflicts {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// fail writes err with its mapped status. Internal errors are logged and their
// text is not exposed.
func (s *Server) fail(c echo.Context, err error) error {
	code := statusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		message = http.StatusText(code)
	}
	return c.JSON(code, Error{Code: code, Message: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
