package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product produto do catálogo, sempre escopado por empresa.
type Product struct {
	ID        string
	CompanyID string
	Name      string
	Code      string // código de barras ou SKU interno
	Category  string
	Price     decimal.Decimal
	Cost      decimal.Decimal
	Stock     int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
