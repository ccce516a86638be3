package auth

import "time"

// Clock - абстракция времени, чтобы проверка срока токена в тестах была детерминированной
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

func NewRealClock() Clock {
	return realClock{}
}
