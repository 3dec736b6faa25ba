// Package apperr declares the error taxonomy shared by the account, movie,
// friendship and recommendation operations. Callers wrap these sentinels with
// detail and HTTP handlers translate them with errors.Is.
package apperr

import "errors"

var (
	// ErrInvalidInput covers malformed, missing or empty fields and unknown enum values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned for any failed login, whether or not the user exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing or unresolvable session token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates an action attempted between users who are not friends.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates an unknown user or a resource the caller does not own.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername indicates the username is already registered.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrAlreadyFriends indicates the friendship already exists in either direction.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrStorage wraps unexpected persistence failures.
	ErrStorage = errors.New("storage error")
)
