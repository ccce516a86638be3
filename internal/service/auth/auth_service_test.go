package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/NastyaGoryachaya/block-aggregator/internal/config"
	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
	"github.com/NastyaGoryachaya/block-aggregator/internal/repository"
	"github.com/NastyaGoryachaya/block-aggregator/internal/service/auth"
	authmocks "github.com/NastyaGoryachaya/block-aggregator/internal/service/auth/mocks"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

var security = config.SecurityConfig{
	JWTSecret:          "test-secret",
	JWTAlgorithm:       "HS256",
	TokenExpireMinutes: 30,
}

func setupSvc(t *testing.T) (*authmocks.MockUserStore, *fixedClock, auth.Service) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := authmocks.NewMockUserStore(ctrl)
	clk := &fixedClock{now: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := auth.NewServiceWithClock(users, security, clk, bcrypt.MinCost, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return users, clk, svc
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestNewService_RejectsUnsupportedAlgorithm(t *testing.T) {
	bad := security
	bad.JWTAlgorithm = "RS256"
	_, err := auth.NewService(nil, bad, slog.Default())
	require.Error(t, err)

	bad = security
	bad.JWTSecret = ""
	_, err = auth.NewService(nil, bad, slog.Default())
	require.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	t.Run("success lowercases username and clears hash", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().GetUserByUsername(gomock.Any(), "alice").
			Return(domain.User{ID: 1, Username: "alice", PasswordHash: hash(t, "Strong1!ab"), IsActive: true}, nil)

		u, err := svc.Authenticate(context.Background(), "Alice", "Strong1!ab")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.Empty(t, u.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().GetUserByUsername(gomock.Any(), "alice").
			Return(domain.User{Username: "alice", PasswordHash: hash(t, "Strong1!ab"), IsActive: true}, nil)

		_, err := svc.Authenticate(context.Background(), "alice", "nope")
		assert.ErrorIs(t, err, derrors.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().GetUserByUsername(gomock.Any(), "bob").Return(domain.User{}, repository.ErrNotFound)

		_, err := svc.Authenticate(context.Background(), "bob", "whatever")
		assert.ErrorIs(t, err, derrors.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().GetUserByUsername(gomock.Any(), "alice").
			Return(domain.User{Username: "alice", PasswordHash: hash(t, "Strong1!ab"), IsActive: false}, nil)

		_, err := svc.Authenticate(context.Background(), "alice", "Strong1!ab")
		assert.ErrorIs(t, err, derrors.ErrInvalidCredentials)
	})

	t.Run("store failure", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(domain.User{}, errors.New("db down"))

		_, err := svc.Authenticate(context.Background(), "alice", "x")
		assert.ErrorIs(t, err, derrors.ErrInternal)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	_, clk, svc := setupSvc(t)

	token, err := svc.IssueToken("alice")
	require.NoError(t, err)

	sub, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)

	// срок жизни 30 минут, через 31 токен уже не принимается
	clk.now = clk.now.Add(31 * time.Minute)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, derrors.ErrInvalidToken)
}

func TestTokenClaims(t *testing.T) {
	_, clk, svc := setupSvc(t)

	first, err := svc.IssueToken("alice")
	require.NoError(t, err)
	second, err := svc.IssueToken("alice")
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "jti must differ")

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(first, claims)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, clk.now.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Rejects(t *testing.T) {
	_, clk, svc := setupSvc(t)

	sign := func(method jwt.SigningMethod, secret string, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(clk.now.Add(time.Hour))

	cases := map[string]string{
		"garbage":       "not-a-token",
		"wrong secret":  sign(jwt.SigningMethodHS256, "other", jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp}),
		"wrong method":  sign(jwt.SigningMethodHS512, security.JWTSecret, jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp}),
		"no subject":    sign(jwt.SigningMethodHS256, security.JWTSecret, jwt.RegisteredClaims{ExpiresAt: exp}),
		"no expiration": sign(jwt.SigningMethodHS256, security.JWTSecret, jwt.RegisteredClaims{Subject: "alice"}),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, derrors.ErrInvalidToken)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		token, err := svc.IssueToken("alice")
		require.NoError(t, err)
		users.EXPECT().GetUserByUsername(gomock.Any(), "alice").
			Return(domain.User{Username: "alice", PasswordHash: "h", IsActive: true}, nil)

		u, err := svc.CurrentUser(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.Empty(t, u.PasswordHash)
	})

	t.Run("deleted user", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		token, err := svc.IssueToken("ghost")
		require.NoError(t, err)
		users.EXPECT().GetUserByUsername(gomock.Any(), "ghost").Return(domain.User{}, repository.ErrNotFound)

		_, err = svc.CurrentUser(context.Background(), token)
		assert.ErrorIs(t, err, derrors.ErrInvalidToken)
	})
}

func TestRegister(t *testing.T) {
	t.Run("weak password fails before persistence", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().GetUserByUsername(gomock.Any(), gomock.Any()).Times(0)
		users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(context.Background(), auth.RegisterInput{Username: "alice", Email: "a@example.com", Password: "weakpass"})
		assert.ErrorIs(t, err, derrors.ErrWeakPassword)
	})

	t.Run("strong password succeeds", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(domain.User{}, repository.ErrNotFound)
		users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u domain.User) (domain.User, error) {
				assert.Equal(t, "alice", u.Username)
				assert.True(t, u.IsActive)
				assert.False(t, u.IsSuperuser)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Strong1!ab")))
				u.ID = 10
				return u, nil
			})

		u, err := svc.Register(context.Background(), auth.RegisterInput{Username: "Alice", Email: "a@example.com", Password: "Strong1!ab"})
		require.NoError(t, err)
		assert.Equal(t, int64(10), u.ID)
		assert.Empty(t, u.PasswordHash)
	})

	t.Run("duplicate username", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(domain.User{Username: "alice"}, nil)
		users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(context.Background(), auth.RegisterInput{Username: "alice", Email: "a@example.com", Password: "Strong1!ab"})
		assert.ErrorIs(t, err, derrors.ErrDuplicateUsername)
	})

	t.Run("duplicate email from store", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(domain.User{}, repository.ErrNotFound)
		users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(domain.User{}, derrors.ErrDuplicateEmail)

		_, err := svc.Register(context.Background(), auth.RegisterInput{Username: "alice", Email: "a@example.com", Password: "Strong1!ab"})
		assert.ErrorIs(t, err, derrors.ErrDuplicateEmail)
	})

	t.Run("password over 72 bytes is weak", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		long := "Strong1!" + strings.Repeat("a", 72)
		_, err := svc.Register(context.Background(), auth.RegisterInput{Username: "alice", Email: "a@example.com", Password: long})
		assert.ErrorIs(t, err, derrors.ErrWeakPassword)
		assert.NotErrorIs(t, err, derrors.ErrInternal)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, _, svc := setupSvc(t)
		_, err := svc.Register(context.Background(), auth.RegisterInput{Username: "alice", Email: "not-an-email", Password: "Strong1!ab"})
		assert.ErrorIs(t, err, derrors.ErrValidation)
	})
}

func TestEnsureSuperuser(t *testing.T) {
	t.Run("creates", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().GetUserByUsername(gomock.Any(), "admin").Return(domain.User{}, repository.ErrNotFound)
		users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u domain.User) (domain.User, error) {
				assert.True(t, u.IsSuperuser)
				assert.True(t, u.IsStaff)
				return u, nil
			})

		created, err := svc.EnsureSuperuser(context.Background(), "admin", "admin@example.com", "admin")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("password over 72 bytes", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().GetUserByUsername(gomock.Any(), "admin").Return(domain.User{}, repository.ErrNotFound)
		users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		created, err := svc.EnsureSuperuser(context.Background(), "admin", "admin@example.com", strings.Repeat("x", 73))
		assert.ErrorIs(t, err, derrors.ErrWeakPassword)
		assert.False(t, created)
	})

	t.Run("already exists", func(t *testing.T) {
		users, _, svc := setupSvc(t)
		users.EXPECT().GetUserByUsername(gomock.Any(), "admin").Return(domain.User{Username: "admin"}, nil)

		created, err := svc.EnsureSuperuser(context.Background(), "admin", "admin@example.com", "admin")
		require.NoError(t, err)
		assert.False(t, created)
	})
}

func TestCheckPasswordStrength(t *testing.T) {
	cases := map[string]bool{
		"weakpass":   false,
		"Strong1!ab": true,
		"Sh0rt!":     false,
		"NoDigits!!": false,
		"nouppe1!rr": false,
		"NOLOWER1!R": false,
		"NoSymbol12": false,
		"Пароль12!x": false,
		"ПАРОЛЬ12!x": false,
		"Strong1!ф":  true,

		"Strong1!" + strings.Repeat("a", 64): true,
		"Strong1!" + strings.Repeat("a", 65): false,
		"Strong1!" + strings.Repeat("ж", 40): false,
	}
	for pw, ok := range cases {
		err := auth.CheckPasswordStrength(pw)
		if ok {
			assert.NoError(t, err, pw)
		} else {
			assert.ErrorIs(t, err, derrors.ErrWeakPassword, pw)
		}
	}
}
