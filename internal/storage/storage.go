package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmailTaken       = errors.New("email already registered")
)

// коды ошибок postgres, которые разбираем явно
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func isPQCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}

// IsForeignKeyViolation сообщает, что запись сослалась на несуществующую строку
func IsForeignKeyViolation(err error) bool {
	return isPQCode(err, pqForeignKeyViolation)
}

// setActive переключает флаг active. Повторный вызов с тем же значением - не ошибка:
// postgres считает строку затронутой, даже если значение не изменилось.
func setActive(ctx context.Context, tx *sql.Tx, table string, id int64, active bool, notFound error) error {
	res, err := tx.ExecContext(ctx, "UPDATE "+table+" SET active = $1 WHERE id = $2", active, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
