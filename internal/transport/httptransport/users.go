package httptransport

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
	"github.com/NastyaGoryachaya/block-aggregator/internal/service/auth"
	"github.com/labstack/echo/v4"
)

const userContextKey = "user"

// AuthService - вход, проверка токена и регистрация
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
	IssueToken(subject string) (string, error)
	CurrentUser(ctx context.Context, token string) (domain.User, error)
	Register(ctx context.Context, in auth.RegisterInput) (domain.User, error)
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthHandler - /security/token, /user/* и middleware авторизации
type AuthHandler struct {
	logger  *slog.Logger
	svc     AuthService
	timeout time.Duration
}

func NewAuthHandler(logger *slog.Logger, svc AuthService, timeout time.Duration) *AuthHandler {
	if logger == nil {
		log.Fatal("nil logger")
	}
	if svc == nil {
		log.Fatal("nil service")
	}
	if timeout <= 0 {
		timeout = time.Second * 3
	}
	return &AuthHandler{logger: logger, svc: svc, timeout: timeout}
}

func (h *AuthHandler) Token(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return writeError(c, h.logger, "Token", fmt.Errorf("%w: username and password are required", derrors.ErrValidation))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.svc.Authenticate(ctx, strings.ToLower(username), password)
	if err != nil {
		return writeError(c, h.logger, "Token", err)
	}
	token, err := h.svc.IssueToken(u.Username)
	if err != nil {
		return writeError(c, h.logger, "Token", err)
	}
	return c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: auth.TokenType})
}

func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := c.Get(userContextKey).(domain.User)
	if !ok {
		return writeError(c, h.logger, "Me", derrors.ErrInvalidToken)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) CreateUser(c echo.Context) error {
	var in auth.RegisterInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, h.logger, "CreateUser", fmt.Errorf("%w: malformed body", derrors.ErrValidation))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.svc.Register(ctx, in)
	if err != nil {
		return writeError(c, h.logger, "CreateUser", err)
	}
	return c.JSON(http.StatusOK, u)
}

// RequireUser - пропускает запрос только с валидным Bearer-токеном существующего пользователя
func (h *AuthHandler) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return writeError(c, h.logger, "RequireUser", fmt.Errorf("%w: not authenticated", derrors.ErrInvalidToken))
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		defer cancel()

		u, err := h.svc.CurrentUser(ctx, token)
		if err != nil {
			return writeError(c, h.logger, "RequireUser", err)
		}
		c.Set(userContextKey, u)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
