package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateEmail       = errors.New("an account with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrItemNotFound         = errors.New("item not found")
	ErrClaimNotFound        = errors.New("claim not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrDuplicateClaim       = errors.New("you already have a pending claim for this item")
	ErrClaimNotPending      = errors.New("claim has already been reviewed")
)

// validationError wraps ErrValidation with the offending field.
func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}
