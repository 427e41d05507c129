package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDespesaRequest lançamento de despesa.
type CreateDespesaRequest struct {
	Description string          `json:"description" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Date        time.Time       `json:"date"`
}

// UpdateDespesaRequest edição parcial de despesa.
type UpdateDespesaRequest struct {
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *time.Time       `json:"date"`
}

// DespesaResponse despesa nas respostas da API.
type DespesaResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DespesaSummaryResponse total por categoria no período (dashboard).
type DespesaSummaryResponse struct {
	From    time.Time                  `json:"from"`
	To      time.Time                  `json:"to"`
	Total   decimal.Decimal            `json:"total"`
	Summary map[string]decimal.Decimal `json:"summary"`
}
