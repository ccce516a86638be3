package httptransport

import (
	"errors"
	"net/http"

	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
	"github.com/NastyaGoryachaya/block-aggregator/internal/ports/errcode"
)

func FromServiceError(err error) errcode.Code {
	switch {
	case errors.Is(err, derrors.ErrBlockNotFound):
		return errcode.NotFound
	case errors.Is(err, derrors.ErrBadRequest):
		return errcode.BadRequest
	case errors.Is(err, derrors.ErrValidation):
		return errcode.Validation
	case errors.Is(err, derrors.ErrWeakPassword):
		return errcode.WeakPassword
	case errors.Is(err, derrors.ErrDuplicateUsername):
		return errcode.DuplicateUsername
	case errors.Is(err, derrors.ErrDuplicateEmail):
		return errcode.DuplicateEmail
	case errors.Is(err, derrors.ErrInvalidCredentials):
		return errcode.InvalidCredentials
	case errors.Is(err, derrors.ErrInvalidToken):
		return errcode.InvalidToken
	default:
		return errcode.Internal
	}
}

// StatusFor - HTTP-статус для кода ошибки
func StatusFor(code errcode.Code) int {
	switch code {
	case errcode.NotFound:
		return http.StatusNotFound
	case errcode.BadRequest, errcode.Validation, errcode.WeakPassword,
		errcode.DuplicateUsername, errcode.DuplicateEmail:
		return http.StatusBadRequest
	case errcode.InvalidCredentials, errcode.InvalidToken:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
