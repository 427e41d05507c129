package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/internal/domain/repository"
)

var _ repository.CaixaRepository = (*CaixaRepo)(nil)

// CaixaRepo implementação de CaixaRepository sobre PostgreSQL.
type CaixaRepo struct {
	q Querier
}

// NewCaixaRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewCaixaRepository(q Querier) *CaixaRepo {
	return &CaixaRepo{q: q}
}

const caixaColumns = `id, company_id, opened_by, opened_at, initial_amount,
	closed_by, closed_at, final_amount, status, created_at, updated_at`

// Create persiste uma sessão de caixa.
func (r *CaixaRepo) Create(ctx context.Context, caixa *entity.Caixa) error {
	query := `
		INSERT INTO caixas (` + caixaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		caixa.ID, caixa.CompanyID, caixa.OpenedBy, caixa.OpenedAt, caixa.InitialAmount,
		nullIfEmpty(caixa.ClosedBy), caixa.ClosedAt, caixa.FinalAmount, caixa.Status,
		caixa.CreatedAt, caixa.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert caixa: %w", err)
	}
	return nil
}

// GetByID devolve a sessão; (nil, nil) se não existir.
func (r *CaixaRepo) GetByID(ctx context.Context, id string) (*entity.Caixa, error) {
	query := `SELECT ` + caixaColumns + ` FROM caixas WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetOpenByCompany devolve o caixa aberto da empresa; (nil, nil) se não houver.
func (r *CaixaRepo) GetOpenByCompany(ctx context.Context, companyID string) (*entity.Caixa, error) {
	query := `SELECT ` + caixaColumns + ` FROM caixas WHERE company_id = $1 AND status = 'open'`
	return r.scanOne(r.q.QueryRow(ctx, query, companyID))
}

// Update atualiza a sessão (fechamento).
func (r *CaixaRepo) Update(ctx context.Context, caixa *entity.Caixa) error {
	query := `
		UPDATE caixas SET closed_by = $2, closed_at = $3, final_amount = $4,
			status = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		caixa.ID, nullIfEmpty(caixa.ClosedBy), caixa.ClosedAt, caixa.FinalAmount,
		caixa.Status, caixa.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update caixa: %w", err)
	}
	return nil
}

// ListByCompany listagem paginada das sessões da empresa, mais recentes primeiro.
func (r *CaixaRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Caixa, error) {
	query := `
		SELECT ` + caixaColumns + ` FROM caixas
		WHERE company_id = $1
		ORDER BY opened_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list caixas: %w", err)
	}
	defer rows.Close()

	var out []*entity.Caixa
	for rows.Next() {
		c, err := scanCaixa(rows)
		if err != nil {
			return nil, fmt.Errorf("scan caixa: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CaixaRepo) scanOne(row pgx.Row) (*entity.Caixa, error) {
	c, err := scanCaixa(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get caixa: %w", err)
	}
	return c, nil
}

func scanCaixa(row pgx.Row) (*entity.Caixa, error) {
	var c entity.Caixa
	var closedBy *string
	err := row.Scan(&c.ID, &c.CompanyID, &c.OpenedBy, &c.OpenedAt, &c.InitialAmount,
		&closedBy, &c.ClosedAt, &c.FinalAmount, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ClosedBy = deref(closedBy)
	return &c, nil
}
