package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product представляет товар каталога
type Product struct {
	ID        int64
	Name      string
	Price     decimal.Decimal // текущая цена за единицу
	Active    bool
	CreatedAt time.Time
}
