package repository

import "errors"

// ErrNotFound - запись не найдена. Сервисы переводят её в доменные ошибки
var ErrNotFound = errors.New("not found")
