package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserEmailExists        = errors.New("email already registered")
	ErrManagerSelfRegister    = errors.New("manager accounts cannot be self-registered")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrAccountNotActive       = errors.New("account is not active")
	ErrManagerAccessRequired  = errors.New("manager access required")
	ErrCVNotFound             = errors.New("no CV uploaded for this user")
	ErrUnsupportedCVExtension = errors.New("unsupported CV file type")
)
