package user

import "errors"

var (
	ErrDuplicateLoginName = errors.New("login name is already taken")
	ErrUnknownAccount     = errors.New("no account with this login name and role")
	ErrBadCredential      = errors.New("credential does not match")
	ErrInactiveAccount    = errors.New("account is deactivated")
	ErrWeakCredential     = errors.New("credential does not meet the signup policy")
	ErrInvalidRole        = errors.New("invalid role")
	ErrNotFound           = errors.New("user not found")
)
