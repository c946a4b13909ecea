package domain

import "errors"

var (
	// ErrListingNotFound indicates the referenced listing does not exist.
	ErrListingNotFound = errors.New("listing not found")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized indicates the caller did not present a valid credential.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden indicates the caller is authenticated but not permitted.
	ErrForbidden = errors.New("action forbidden")
	// ErrInvalidInput indicates malformed or missing required input.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrEmailTaken indicates a registration attempt with an already used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrRepository indicates a generic data persistence failure.
	ErrRepository = errors.New("repository error")
)
