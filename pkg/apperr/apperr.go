package apperr

import "errors"

// Sentinel errors shared across services. Handlers match them with errors.Is
// to pick a status code; services wrap them with context about the offending
// entity or field.
var (
	// ErrReferenceNotFound indicates a referenced entity (customer, employee,
	// product, expense...) does not exist or is inactive.
	ErrReferenceNotFound = errors.New("referenced entity not found")
	// ErrInsufficientStock indicates a sale line requested more than available.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidDiscount indicates a discount outside the allowed bounds.
	ErrInvalidDiscount = errors.New("invalid discount")
	// ErrInvalidState indicates a state-transition precondition violation.
	ErrInvalidState = errors.New("invalid state transition")
	// ErrDuplicateKey indicates a unique-constraint violation.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrValidation indicates a structural or field-level violation.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates bad credentials or an unusable token.
	ErrUnauthorized = errors.New("unauthorized")
)
