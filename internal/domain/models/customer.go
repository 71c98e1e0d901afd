package models

import "time"

// Customer представляет покупателя
type Customer struct {
	ID        int64
	Name      string
	Email     string // уникальный
	Active    bool   // false - мягко удалён
	PassHash  []byte // может отсутствовать, если покупатель создан администратором
	CreatedAt time.Time
}

// HasCredentials сообщает, может ли покупатель входить по паролю
func (c *Customer) HasCredentials() bool {
	return len(c.PassHash) > 0
}
