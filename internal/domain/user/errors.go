package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrCannotDeleteSelf        = errors.New("users cannot delete themselves")
	ErrCannotChangeOwnRole     = errors.New("users cannot change their own role")
	ErrCannotDeactivateSelf    = errors.New("users cannot deactivate themselves")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
