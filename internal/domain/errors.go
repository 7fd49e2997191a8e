package domain

import "errors"

var (
	// ErrInvalidProductURL is returned when no catalog identifier can be
	// extracted from a product page URL
	ErrInvalidProductURL = errors.New("no ASIN found in URL")

	// ErrProductNotFound is returned when a product does not exist, either
	// locally or in the external catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrRainforestAPIFailure is returned when the Rainforest API request fails
	ErrRainforestAPIFailure = errors.New("rainforest API request failed")

	// ErrForbidden is returned when a caller touches a record they do not own.
	// Kept distinct from ErrProductNotFound so access denial is never
	// mistaken for absence.
	ErrForbidden = errors.New("forbidden")

	// ErrUserNotFound is returned when an account does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password, without distinguishing the two
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering with an email that exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
