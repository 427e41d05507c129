package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados do caixa.
const (
	CaixaOpen   = "open"
	CaixaClosed = "closed"
)

// Caixa sessão de caixa (ponto de venda) de uma empresa.
// No máximo um caixa aberto por empresa, garantido pela aplicação.
type Caixa struct {
	ID            string
	CompanyID     string
	OpenedBy      string
	OpenedAt      time.Time
	InitialAmount decimal.Decimal // fundo de troco
	ClosedBy      string
	ClosedAt      *time.Time
	FinalAmount   decimal.Decimal // apurado no fechamento
	Status        string          // open, closed
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOpen informa se a sessão ainda aceita vendas.
func (c *Caixa) IsOpen() bool { return c.Status == CaixaOpen }
