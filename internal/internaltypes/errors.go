package internaltypes

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrInvalidDateRange = errors.New("check-out date must be after check-in date")
	ErrUnavailable      = errors.New("room is not available for the selected dates")
	ErrPersistence      = errors.New("persistence failure")
	ErrInvalidArgument  = errors.New("invalid argument")
)
