package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenCaixaRequest abertura de caixa com fundo de troco.
type OpenCaixaRequest struct {
	InitialAmount decimal.Decimal `json:"initial_amount"`
}

// CloseCaixaRequest fechamento com o valor apurado na gaveta.
type CloseCaixaRequest struct {
	FinalAmount decimal.Decimal `json:"final_amount"`
}

// CaixaResponse sessão de caixa nas respostas da API.
type CaixaResponse struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	OpenedBy      string          `json:"opened_by"`
	OpenedAt      time.Time       `json:"opened_at"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	ClosedBy      string          `json:"closed_by,omitempty"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
}

// CaixaSummaryResponse resumo do fechamento: totais por forma de pagamento
// e a diferença entre o apurado e o esperado.
type CaixaSummaryResponse struct {
	Caixa          CaixaResponse              `json:"caixa"`
	TotalSales     decimal.Decimal            `json:"total_sales"`
	TotalsByMethod map[string]decimal.Decimal `json:"totals_by_method"`
	ExpectedCash   decimal.Decimal            `json:"expected_cash"` // fundo + vendas em dinheiro
	CashDifference decimal.Decimal            `json:"cash_difference,omitempty"`
}
