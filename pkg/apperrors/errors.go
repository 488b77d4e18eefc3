package apperrors

import "errors"

// Standardized marketplace client errors
var (
	ErrUnauthorized      = errors.New("authorization failed")
	ErrValidation        = errors.New("validation failed")
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrDuplicateAction   = errors.New("duplicate action")
	ErrNetwork           = errors.New("network error")
	ErrNotFound          = errors.New("not found")
	ErrNotAuthenticated  = errors.New("not logged in")
	ErrBookingNotRatable = errors.New("booking cannot be rated")
	ErrAlreadyRated      = errors.New("booking already rated")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrForbiddenView     = errors.New("view not permitted for current role")
)
