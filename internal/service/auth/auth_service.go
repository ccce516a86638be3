package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/NastyaGoryachaya/block-aggregator/internal/config"
	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
	"github.com/NastyaGoryachaya/block-aggregator/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=$GOFILE -destination=mocks/mocks.go -package=mocks

// Пользователи и токены: вход по логину/паролю, выдача и проверка JWT, регистрация

const TokenType = "bearer"

type Service interface {
	// Authenticate - пользователь без хэша пароля или ErrInvalidCredentials
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
	// IssueToken - подписанный токен для subject со сроком now + TTL
	IssueToken(subject string) (string, error)
	// ValidateToken - subject токена или ErrInvalidToken
	ValidateToken(token string) (string, error)
	// CurrentUser - владелец токена; удалённый пользователь тоже ErrInvalidToken
	CurrentUser(ctx context.Context, token string) (domain.User, error)
	// Register - новый активный пользователь без прав администратора
	Register(ctx context.Context, in RegisterInput) (domain.User, error)
	// EnsureSuperuser - создаёт суперпользователя, если логин свободен; created=false если уже есть
	EnsureSuperuser(ctx context.Context, username, email, password string) (created bool, err error)
}

type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type service struct {
	users    UserStore
	security config.SecurityConfig
	method   jwt.SigningMethod
	validate *validator.Validate
	hashCost int
	clock    Clock
	logger   *slog.Logger
}

func NewService(users UserStore, security config.SecurityConfig, logger *slog.Logger) (Service, error) {
	return NewServiceWithClock(users, security, NewRealClock(), bcrypt.DefaultCost, logger)
}

// NewServiceWithClock - Конструктор для тестов: фиксированные часы и дешёвый bcrypt
func NewServiceWithClock(users UserStore, security config.SecurityConfig, clk Clock, hashCost int, logger *slog.Logger) (Service, error) {
	method := jwt.GetSigningMethod(strings.ToUpper(security.JWTAlgorithm))
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", security.JWTAlgorithm)
	}
	if security.JWTSecret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &service{
		users:    users,
		security: security,
		method:   method,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		hashCost: hashCost,
		clock:    clk,
		logger:   logger,
	}, nil
}

func (s *service) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	username = normalizeUsername(username)

	u, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, derrors.ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error("failed to load user", "username", username, "err", err)
		return domain.User{}, fmt.Errorf("%w: load user: %v", derrors.ErrInternal, err)
	}
	if !u.IsActive {
		s.logger.Debug("login rejected for inactive user", "username", username)
		return domain.User{}, derrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, derrors.ErrInvalidCredentials
	}
	return u.WithoutPassword(), nil
}

func (s *service) IssueToken(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: empty subject", derrors.ErrValidation)
	}
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.security.TokenTTL())),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString([]byte(s.security.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", derrors.ErrInternal, err)
	}
	return signed, nil
}

func (s *service) ValidateToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(s.security.JWTSecret), nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		s.logger.Debug("token rejected", "err", err)
		return "", derrors.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", derrors.ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *service) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	subject, err := s.ValidateToken(token)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.users.GetUserByUsername(ctx, subject)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, derrors.ErrInvalidToken
	}
	if err != nil {
		s.logger.Error("failed to load token owner", "username", subject, "err", err)
		return domain.User{}, fmt.Errorf("%w: load user: %v", derrors.ErrInternal, err)
	}
	return u.WithoutPassword(), nil
}

func (s *service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Username = normalizeUsername(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate.Struct(in); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", derrors.ErrValidation, err)
	}
	if err := CheckPasswordStrength(in.Password); err != nil {
		return domain.User{}, err
	}

	// занятый логин отдаём отдельной ошибкой ещё до вставки
	_, err := s.users.GetUserByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return domain.User{}, derrors.ErrDuplicateUsername
	case !errors.Is(err, repository.ErrNotFound):
		s.logger.Error("failed to check username", "username", in.Username, "err", err)
		return domain.User{}, fmt.Errorf("%w: check username: %v", derrors.ErrInternal, err)
	}

	u, err := s.create(ctx, domain.User{
		Username: in.Username,
		Email:    in.Email,
		IsActive: true,
	}, in.Password)
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("user registered", "username", u.Username)
	return u, nil
}

func (s *service) EnsureSuperuser(ctx context.Context, username, email, password string) (bool, error) {
	username = normalizeUsername(username)

	_, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("%w: check superuser: %v", derrors.ErrInternal, err)
	}

	if _, err := s.create(ctx, domain.User{
		Username:    username,
		Email:       email,
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	}, password); err != nil {
		return false, err
	}
	s.logger.Info("superuser created", "username", username)
	return true, nil
}

func (s *service) create(ctx context.Context, u domain.User, password string) (domain.User, error) {
	if err := checkPasswordBytes(password); err != nil {
		return domain.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: hash password: %v", derrors.ErrInternal, err)
	}
	u.PasswordHash = string(hash)

	created, err := s.users.CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, derrors.ErrDuplicateUsername) || errors.Is(err, derrors.ErrDuplicateEmail) {
			return domain.User{}, err
		}
		s.logger.Error("failed to create user", "username", u.Username, "err", err)
		return domain.User{}, fmt.Errorf("%w: create user: %v", derrors.ErrInternal, err)
	}
	return created.WithoutPassword(), nil
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
