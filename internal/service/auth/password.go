package auth

import (
	"fmt"
	"strings"
	"unicode/utf8"

	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128

	// bcrypt не принимает пароль длиннее 72 байт
	maxPasswordBytes = 72

	passwordSymbols = `!@#$%^&*(),.?":{}|<>`
)

// CheckPasswordStrength - длина 8..128 символов и не больше 72 байт, минимум одна цифра,
// заглавная и строчная латинская буква и символ из passwordSymbols
func CheckPasswordStrength(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLen || n > maxPasswordLen {
		return fmt.Errorf("%w: length must be between %d and %d", derrors.ErrWeakPassword, minPasswordLen, maxPasswordLen)
	}
	if err := checkPasswordBytes(password); err != nil {
		return err
	}

	var digit, upper, lower, symbol bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	var missing []string
	if !digit {
		missing = append(missing, "digit")
	}
	if !upper {
		missing = append(missing, "uppercase letter")
	}
	if !lower {
		missing = append(missing, "lowercase letter")
	}
	if !symbol {
		missing = append(missing, "symbol")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", derrors.ErrWeakPassword, strings.Join(missing, ", "))
	}
	return nil
}

func checkPasswordBytes(password string) error {
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: longer than %d bytes", derrors.ErrWeakPassword, maxPasswordBytes)
	}
	return nil
}
