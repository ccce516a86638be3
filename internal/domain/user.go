package domain

import "time"

// User - пользователь API. PasswordHash никогда не сериализуется
type User struct {
	ID           int64      `json:"-"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	DateJoined   time.Time  `json:"-"`
	UpdatedAt    *time.Time `json:"-"`
}

// WithoutPassword - копия пользователя без хэша пароля
func (u User) WithoutPassword() User {
	u.PasswordHash = ""
	return u
}
