package services

import "errors"

// Validation errors: caller-correctable, rejected before any write.
var (
	ErrInvalidStatus     = errors.New("invalid item status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Not-found errors. A branch the caller does not manage is reported as not
// found so its existence is not leaked.
var (
	ErrItemNotFound   = errors.New("order item not found")
	ErrBranchNotFound = errors.New("branch not found")
)

var ErrVersionConflict = errors.New("item was modified by another request")

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)
