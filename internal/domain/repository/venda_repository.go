package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixapro/pdv-api/internal/domain/entity"
)

// VendaRepository porta de persistência de vendas.
// Consultas normais ignoram vendas soft-deletadas; GetByID devolve (nil, nil) para elas.
type VendaRepository interface {
	Create(ctx context.Context, venda *entity.Venda) error
	GetByID(ctx context.Context, id string) (*entity.Venda, error)
	Update(ctx context.Context, venda *entity.Venda) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Venda, error)
	ListByCaixa(ctx context.Context, caixaID string) ([]*entity.Venda, error)
	// ListPendingExclusions devolve vendas com exclusion_status = pending para revisão.
	ListPendingExclusions(ctx context.Context, companyID string) ([]*entity.Venda, error)
	// TotalsByPaymentMethod agrega o total vendido por forma de pagamento no período.
	TotalsByPaymentMethod(ctx context.Context, companyID string, from, to time.Time) (map[string]decimal.Decimal, error)
}

// CaixaRepository porta de persistência de sessões de caixa.
type CaixaRepository interface {
	Create(ctx context.Context, caixa *entity.Caixa) error
	GetByID(ctx context.Context, id string) (*entity.Caixa, error)
	// GetOpenByCompany devolve (nil, nil) quando não há caixa aberto.
	GetOpenByCompany(ctx context.Context, companyID string) (*entity.Caixa, error)
	Update(ctx context.Context, caixa *entity.Caixa) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Caixa, error)
}

// DespesaRepository porta de persistência de despesas.
type DespesaRepository interface {
	Create(ctx context.Context, despesa *entity.Despesa) error
	GetByID(ctx context.Context, id string) (*entity.Despesa, error)
	Update(ctx context.Context, despesa *entity.Despesa) error
	ListByCompany(ctx context.Context, companyID string, from, to time.Time, limit, offset int) ([]*entity.Despesa, error)
	// SummaryByCategory agrega o total por categoria no período (dashboard).
	SummaryByCategory(ctx context.Context, companyID string, from, to time.Time) (map[string]decimal.Decimal, error)
	Delete(ctx context.Context, id string) error
}
