package postgres

import (
	"context"
	"errors"

	"github.com/NastyaGoryachaya/block-aggregator/internal/domain"
	derrors "github.com/NastyaGoryachaya/block-aggregator/internal/errors"
	"github.com/NastyaGoryachaya/block-aggregator/internal/repository"
	"github.com/jackc/pgx/v5"
)

const emailConstraint = "users_email_key"

// UserRepo - репозиторий пользователей.
type UserRepo struct {
	db DB
}

// NewUserRepository - Создаёт репозиторий пользователей.
func NewUserRepository(db DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetUserByUsername - Пользователь по логину (вместе с хэшем пароля)
func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	const query = `
		SELECT id, username, email, password_hash, is_active, is_staff, is_superuser, date_joined, updated_at
		FROM users
		WHERE username = $1
	`
	var u domain.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.DateJoined, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, repository.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// CreateUser - Сохраняет пользователя. Нарушение уникальности логина или почты
// возвращается как ErrDuplicateUsername / ErrDuplicateEmail.
func (r *UserRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	const query = `
		INSERT INTO users (username, email, password_hash, is_active, is_staff, is_superuser, date_joined, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, date_joined, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.IsActive, u.IsStaff, u.IsSuperuser,
	).Scan(&u.ID, &u.DateJoined, &u.UpdatedAt)
	if err != nil {
		if name, ok := uniqueConstraint(err); ok {
			switch name {
			case emailConstraint:
				return domain.User{}, derrors.ErrDuplicateEmail
			default:
				return domain.User{}, derrors.ErrDuplicateUsername
			}
		}
		return domain.User{}, err
	}
	return u, nil
}
