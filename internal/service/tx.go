package service

import (
	"database/sql"
	"log/slog"
)

// rollback откатывает транзакцию; ошибку отката только логируем, наружу уходит исходная
func rollback(tx *sql.Tx, logger *slog.Logger) {
	if rbErr := tx.Rollback(); rbErr != nil {
		logger.Error("transaction rollback failed", slog.Any("error", rbErr))
	}
}
