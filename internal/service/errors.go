package service

import "errors"

var (
	// ErrUnauthenticated is returned when no credential is presented where
	// one is required.
	ErrUnauthenticated = errors.New("no credential presented")
	// ErrForbidden covers invalid/expired credentials and caller identities
	// that do not own the target resource.
	ErrForbidden = errors.New("caller is not allowed to perform this action")
	ErrNotFound  = errors.New("resource not found")
	// ErrEmailTaken is the uniqueness violation at the UserDirectory boundary.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrListingUnavailable means the listing precondition no longer holds
	// at order time.
	ErrListingUnavailable = errors.New("listing is not available")
	ErrAlreadyPaid        = errors.New("order is already paid")
	ErrInvalidStatus      = errors.New("invalid listing status")
	ErrInvalidInput       = errors.New("invalid input")
)
