package auth

import "errors"

var (
	// ErrUserEmailExists is returned when attempting to create a user with an email that already exists.
	ErrUserEmailExists = errors.New("user with this email already exists")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrSelfDelete is returned when a user tries to delete their own account.
	ErrSelfDelete = errors.New("you cannot delete your own account")

	// ErrUnknownRole is returned when a submitted role name does not exist.
	ErrUnknownRole = errors.New("unknown role")

	// ErrUnknownPermission is returned when a submitted permission name does not exist.
	ErrUnknownPermission = errors.New("unknown permission")

	// ErrUnknownFamily is returned for a family missing from Families.
	ErrUnknownFamily = errors.New("unknown content family")
)
