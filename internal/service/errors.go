package service

import "errors"

// Ошибки сервисного слоя. Транспорт сопоставляет их со статусами через errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("already exists")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrTransaction        = errors.New("transaction failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
