package userdb

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrBranchNotFound       = errors.New("branch not found")
	ErrAthleteNotFound      = errors.New("athlete not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrDuplicateEmail       = errors.New("email already registered")
)
