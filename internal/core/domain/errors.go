package domain

import "errors"

var (
	ErrUnauthenticated        = errors.New("please login to access this resource")
	ErrInvalidToken           = errors.New("token is not valid")
	ErrTokenExpired           = errors.New("token has expired")
	ErrSessionExpired         = errors.New("session expired, please login again")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrDuplicateEmail         = errors.New("email already exists")
	ErrActivationCodeMismatch = errors.New("invalid activation code")
	ErrUserNotFound           = errors.New("user not found")
	ErrBadRequest             = errors.New("bad request")
	ErrMailDelivery           = errors.New("failed to send email")
	ErrInternal               = errors.New("internal server error")
)
