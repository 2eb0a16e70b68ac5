package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed         = fmt.Errorf("authentication failed")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidToken       = fmt.Errorf("invalid session token")
	ErrTokenExpired       = fmt.Errorf("session token expired")
	ErrRateLimited        = fmt.Errorf("too many attempts")

	// Persistence errors
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrProfileNotFound = fmt.Errorf("profile not found")
	ErrDuplicateEmail  = fmt.Errorf("email already registered")

	// Service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrProfileFetch       = fmt.Errorf("profile fetch failed")

	// Input validation errors
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrMissingArgument    = fmt.Errorf("missing required argument")
	ErrInvalidArgument    = fmt.Errorf("invalid argument")
	ErrInvalidDateOfBirth = fmt.Errorf("invalid date of birth")
)
