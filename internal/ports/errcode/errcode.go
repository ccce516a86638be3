package errcode

type Code string

const (
	NotFound Code = "NOT_FOUND"

	BadRequest        Code = "BAD_REQUEST"
	Validation        Code = "VALIDATION_ERROR"
	WeakPassword      Code = "WEAK_PASSWORD"
	DuplicateUsername Code = "DUPLICATE_USERNAME"
	DuplicateEmail    Code = "DUPLICATE_EMAIL"

	InvalidCredentials Code = "INVALID_CREDENTIALS"
	InvalidToken       Code = "INVALID_TOKEN"

	Internal Code = "INTERNAL_ERROR"
)
