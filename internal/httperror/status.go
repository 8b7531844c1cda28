package httperror

import (
	"errors"
	"net/http"

	"github.com/classfund/backend/internal/httputil"
	"github.com/classfund/backend/internal/ledger"
	"github.com/classfund/backend/internal/models"
	"github.com/classfund/backend/internal/planner"
	"github.com/classfund/backend/internal/types"
)

// Status returns the HTTP status for an error. Validation and state
// errors are client errors; persistence failures are server errors.
func Status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnknownStudent),
		errors.Is(err, planner.ErrUnknownMonth),
		errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound

	case errors.Is(err, planner.ErrIncompleteConfiguration):
		return http.StatusPreconditionFailed

	case errors.Is(err, ledger.ErrBlankName),
		errors.Is(err, ledger.ErrDuplicateName),
		errors.Is(err, ledger.ErrNonPositiveAmount),
		errors.Is(err, ledger.ErrMalformedAmount),
		errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, planner.ErrInvalidDuration),
		errors.Is(err, planner.ErrInvalidDailyFund),
		errors.Is(err, types.ErrInvalidMonthName),
		errors.Is(err, models.ErrStudentNameNotUnique),
		errors.Is(err, httputil.ErrInvalidBody),
		errors.Is(err, httputil.ErrRequestBodyEmpty),
		errors.Is(err, httputil.ErrInvalidID):
		return http.StatusBadRequest

	case errors.Is(err, ledger.ErrPersistence),
		errors.Is(err, planner.ErrPersistence):
		return http.StatusInternalServerError
	}

	return http.StatusInternalServerError
}
