package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/internal/domain/repository"
)

var _ repository.DespesaRepository = (*DespesaRepo)(nil)

// DespesaRepo implementação de DespesaRepository sobre PostgreSQL.
type DespesaRepo struct {
	q Querier
}

// NewDespesaRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewDespesaRepository(q Querier) *DespesaRepo {
	return &DespesaRepo{q: q}
}

const despesaColumns = `id, company_id, description, category, amount, date, created_at, updated_at`

// Create persiste uma despesa.
func (r *DespesaRepo) Create(ctx context.Context, despesa *entity.Despesa) error {
	query := `
		INSERT INTO despesas (` + despesaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		despesa.ID, despesa.CompanyID, despesa.Description, despesa.Category,
		despesa.Amount, despesa.Date, despesa.CreatedAt, despesa.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert despesa: %w", err)
	}
	return nil
}

// GetByID devolve a despesa; (nil, nil) se não existir.
func (r *DespesaRepo) GetByID(ctx context.Context, id string) (*entity.Despesa, error) {
	query := `SELECT ` + despesaColumns + ` FROM despesas WHERE id = $1`
	d, err := scanDespesa(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get despesa: %w", err)
	}
	return d, nil
}

// Update atualiza a despesa.
func (r *DespesaRepo) Update(ctx context.Context, despesa *entity.Despesa) error {
	query := `
		UPDATE despesas SET description = $2, category = $3, amount = $4, date = $5,
			updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		despesa.ID, despesa.Description, despesa.Category, despesa.Amount,
		despesa.Date, despesa.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update despesa: %w", err)
	}
	return nil
}

// ListByCompany listagem paginada das despesas da empresa no período.
func (r *DespesaRepo) ListByCompany(ctx context.Context, companyID string, from, to time.Time, limit, offset int) ([]*entity.Despesa, error) {
	query := `
		SELECT ` + despesaColumns + ` FROM despesas
		WHERE company_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, companyID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list despesas: %w", err)
	}
	defer rows.Close()

	var out []*entity.Despesa
	for rows.Next() {
		d, err := scanDespesa(rows)
		if err != nil {
			return nil, fmt.Errorf("scan despesa: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SummaryByCategory agrega o total de despesas por categoria no período.
func (r *DespesaRepo) SummaryByCategory(ctx context.Context, companyID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT category, COALESCE(sum(amount), 0)
		FROM despesas
		WHERE company_id = $1 AND date >= $2 AND date < $3
		GROUP BY category`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("summary despesas: %w", err)
	}
	defer rows.Close()

	summary := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category string
		var total decimal.Decimal
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summary[category] = total
	}
	return summary, rows.Err()
}

// Delete remove a despesa.
func (r *DespesaRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM despesas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete despesa: %w", err)
	}
	return nil
}

func scanDespesa(row pgx.Row) (*entity.Despesa, error) {
	var d entity.Despesa
	err := row.Scan(&d.ID, &d.CompanyID, &d.Description, &d.Category, &d.Amount,
		&d.Date, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
