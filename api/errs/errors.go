package errs

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidQuery       = errors.New("invalid query parameter")
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("permission denied")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")

	ErrUserNotFound         = errors.New("user not found")
	ErrCallNotFound         = errors.New("startup call not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrStartupNotFound      = errors.New("startup not found")
	ErrMilestoneNotFound    = errors.New("milestone not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrBudgetNotFound       = errors.New("budget not found")
	ErrCategoryNotFound     = errors.New("budget category not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrOpportunityNotFound  = errors.New("sponsorship opportunity not found")
	ErrSponsorshipNotFound  = errors.New("sponsorship application not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrCallNotOpen         = errors.New("startup call is not accepting applications")
	ErrApplicationConflict = errors.New("already applied to this startup call")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrReviewConflict      = errors.New("application already reviewed by this reviewer")
	ErrDeadlinePassed      = errors.New("deadline must not be in the past")
	ErrAmountOutOfRange    = errors.New("amount outside the opportunity range")
	ErrOpportunityClosed   = errors.New("sponsorship opportunity is closed")
	ErrOverAllocated       = errors.New("category allocations exceed the budget total")
	ErrCategoryMismatch    = errors.New("category does not belong to this budget")
	ErrMilestoneMismatch   = errors.New("milestone does not belong to this startup")
	ErrCallHasApplications = errors.New("startup call has applications")
	ErrBudgetHasExpenses   = errors.New("budget has expenses")
	ErrCategoryHasExpenses = errors.New("budget category has expenses")
	ErrInternal            = errors.New("internal server error")
	ErrExportFailed        = errors.New("failed to export budget")
)

var ErrStatusMap = map[error]int{
	ErrInvalidID:          http.StatusBadRequest,
	ErrInvalidQuery:       http.StatusBadRequest,
	ErrUnauthorized:       http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrTooManyRequests:    http.StatusTooManyRequests,
	ErrEmailTaken:         http.StatusConflict,
	ErrInvalidRole:        http.StatusUnprocessableEntity,

	ErrUserNotFound:         http.StatusNotFound,
	ErrCallNotFound:         http.StatusNotFound,
	ErrApplicationNotFound:  http.StatusNotFound,
	ErrReviewNotFound:       http.StatusNotFound,
	ErrStartupNotFound:      http.StatusNotFound,
	ErrMilestoneNotFound:    http.StatusNotFound,
	ErrTaskNotFound:         http.StatusNotFound,
	ErrBudgetNotFound:       http.StatusNotFound,
	ErrCategoryNotFound:     http.StatusNotFound,
	ErrExpenseNotFound:      http.StatusNotFound,
	ErrOpportunityNotFound:  http.StatusNotFound,
	ErrSponsorshipNotFound:  http.StatusNotFound,
	ErrEventNotFound:        http.StatusNotFound,
	ErrNotificationNotFound: http.StatusNotFound,

	ErrCallNotOpen:         http.StatusUnprocessableEntity,
	ErrApplicationConflict: http.StatusConflict,
	ErrInvalidTransition:   http.StatusUnprocessableEntity,
	ErrInvalidStatus:       http.StatusUnprocessableEntity,
	ErrReviewConflict:      http.StatusConflict,
	ErrDeadlinePassed:      http.StatusUnprocessableEntity,
	ErrAmountOutOfRange:    http.StatusUnprocessableEntity,
	ErrOpportunityClosed:   http.StatusUnprocessableEntity,
	ErrOverAllocated:       http.StatusConflict,
	ErrCategoryMismatch:    http.StatusUnprocessableEntity,
	ErrMilestoneMismatch:   http.StatusUnprocessableEntity,
	ErrCallHasApplications: http.StatusConflict,
	ErrBudgetHasExpenses:   http.StatusConflict,
	ErrCategoryHasExpenses: http.StatusConflict,
	ErrInternal:            http.StatusInternalServerError,
	ErrExportFailed:        http.StatusInternalServerError,
}

// Status returns the HTTP status for a known error, or 500.
func Status(err error) (int, error) {
	for known, code := range ErrStatusMap {
		if errors.Is(err, known) {
			return code, known
		}
	}
	return http.StatusInternalServerError, ErrInternal
}
