package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Despesa lançamento de despesa de uma empresa.
type Despesa struct {
	ID          string
	CompanyID   string
	Description string
	Category    string // aluguel, fornecedores, salarios, outros...
	Amount      decimal.Decimal
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
