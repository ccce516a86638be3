package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
	"github.com/NastyaGoryachaya/block-aggregator/internal/ports/errcode"
	"github.com/labstack/echo/v4"
)

// ErrorResponse - тело любого ответа с ошибкой
type ErrorResponse struct {
	Error  errcode.Code `json:"error"`
	Detail string       `json:"detail"`
}

// writeError - переводит ошибку сервиса в статус и JSON; 500 логируется, детали наружу не уходят
func writeError(c echo.Context, logger *slog.Logger, op string, err error) error {
	code := FromServiceError(err)
	status := StatusFor(code)

	detail := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		detail = "internal server error"
	}
	if status == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return c.JSON(status, ErrorResponse{Error: code, Detail: detail})
}

// optionalString - пустой параметр считается отсутствующим
func optionalString(c echo.Context, name string) *string {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil
	}
	return &v
}

func optionalInt(c echo.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, badParam(name, "must be an integer")
	}
	return &v, nil
}

// boundedInt - def, если параметр не передан; иначе целое в [lo, hi]
func boundedInt(c echo.Context, name string, def, lo, hi int) (int, error) {
	p, err := optionalInt(c, name)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return def, nil
	}
	if *p < int64(lo) || *p > int64(hi) {
		return 0, badParam(name, "out of range")
	}
	return int(*p), nil
}

func badParam(name, reason string) error {
	return &paramError{name: name, reason: reason}
}

type paramError struct {
	name   string
	reason string
}

func (e *paramError) Error() string { return "query parameter " + e.name + " " + e.reason }

func (e *paramError) Unwrap() error { return derrors.ErrBadRequest }
