package errors

import "errors"

// Таксономия ошибок домена. Транспорт переводит их в коды ответа (errcode)
var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrDuplicateBlock      = errors.New("block already stored")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrBadRequest    = errors.New("bad request")
	ErrBlockNotFound = errors.New("block not found")

	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrWeakPassword      = errors.New("weak password")
	ErrValidation        = errors.New("validation failed")

	ErrInternal = errors.New("internal error")
)
