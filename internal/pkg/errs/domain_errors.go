package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Company errors
	ErrCompanyNotFound  = errors.New("company not found")
	ErrCompanyNameTaken = errors.New("company name already taken")

	// Booking errors
	ErrBookingNotFound = errors.New("booking not found")
	ErrSlotConflict    = errors.New("slot already booked")
	ErrInvalidSlot     = errors.New("invalid time slot")
	ErrOutOfWindow     = errors.New("date outside campaign window")
	ErrQuotaExceeded   = errors.New("booking quota exceeded")
	ErrForbidden       = errors.New("not authorized for this booking")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
