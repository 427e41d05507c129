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

var _ repository.VendaRepository = (*VendaRepo)(nil)

// VendaRepo implementação de VendaRepository sobre PostgreSQL.
// Os itens da venda ficam em uma coluna JSONB (snapshot imutável do produto);
// exclusão aprovada vira soft delete via deleted_at.
type VendaRepo struct {
	q Querier
}

// NewVendaRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewVendaRepository(q Querier) *VendaRepo {
	return &VendaRepo{q: q}
}

const vendaColumns = `id, company_id, user_id, caixa_id, items, payment_method, total,
	created_at, updated_at, deleted_at,
	exclusion_requested, exclusion_requested_at, exclusion_requested_by, exclusion_reason,
	exclusion_status, exclusion_reviewed_at, exclusion_reviewed_by, exclusion_review_notes`

// Create persiste uma venda com os itens serializados em JSONB.
func (r *VendaRepo) Create(ctx context.Context, venda *entity.Venda) error {
	query := `
		INSERT INTO vendas (` + vendaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		venda.ID, venda.CompanyID, venda.UserID, venda.CaixaID, venda.Items,
		venda.PaymentMethod, venda.Total, venda.CreatedAt, venda.UpdatedAt, venda.DeletedAt,
		venda.ExclusionRequested, venda.ExclusionRequestedAt, nullIfEmpty(venda.ExclusionRequestedBy),
		nullIfEmpty(venda.ExclusionReason), nullIfEmpty(venda.ExclusionStatus),
		venda.ExclusionReviewedAt, nullIfEmpty(venda.ExclusionReviewedBy), nullIfEmpty(venda.ExclusionReviewNotes),
	)
	if err != nil {
		return fmt.Errorf("insert venda: %w", err)
	}
	return nil
}

// GetByID devolve a venda; (nil, nil) se não existir ou se já foi excluída.
func (r *VendaRepo) GetByID(ctx context.Context, id string) (*entity.Venda, error) {
	query := `SELECT ` + vendaColumns + ` FROM vendas WHERE id = $1 AND deleted_at IS NULL`
	v, err := scanVenda(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venda: %w", err)
	}
	return v, nil
}

// Update atualiza a venda, incluindo os campos do workflow de exclusão.
// Não filtra por deleted_at: a aprovação da exclusão grava o próprio deleted_at.
func (r *VendaRepo) Update(ctx context.Context, venda *entity.Venda) error {
	query := `
		UPDATE vendas SET items = $2, payment_method = $3, total = $4, updated_at = $5,
			deleted_at = $6, exclusion_requested = $7, exclusion_requested_at = $8,
			exclusion_requested_by = $9, exclusion_reason = $10, exclusion_status = $11,
			exclusion_reviewed_at = $12, exclusion_reviewed_by = $13, exclusion_review_notes = $14
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		venda.ID, venda.Items, venda.PaymentMethod, venda.Total, venda.UpdatedAt,
		venda.DeletedAt, venda.ExclusionRequested, venda.ExclusionRequestedAt,
		nullIfEmpty(venda.ExclusionRequestedBy), nullIfEmpty(venda.ExclusionReason),
		nullIfEmpty(venda.ExclusionStatus), venda.ExclusionReviewedAt,
		nullIfEmpty(venda.ExclusionReviewedBy), nullIfEmpty(venda.ExclusionReviewNotes),
	)
	if err != nil {
		return fmt.Errorf("update venda: %w", err)
	}
	return nil
}

// ListByCompany listagem paginada das vendas da empresa, mais recentes primeiro.
func (r *VendaRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Venda, error) {
	query := `
		SELECT ` + vendaColumns + ` FROM vendas
		WHERE company_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendas: %w", err)
	}
	return collectVendas(rows)
}

// ListByCaixa devolve as vendas de uma sessão de caixa (fechamento).
func (r *VendaRepo) ListByCaixa(ctx context.Context, caixaID string) ([]*entity.Venda, error) {
	query := `
		SELECT ` + vendaColumns + ` FROM vendas
		WHERE caixa_id = $1 AND deleted_at IS NULL
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, caixaID)
	if err != nil {
		return nil, fmt.Errorf("list vendas by caixa: %w", err)
	}
	return collectVendas(rows)
}

// ListPendingExclusions devolve as vendas aguardando revisão de exclusão.
func (r *VendaRepo) ListPendingExclusions(ctx context.Context, companyID string) ([]*entity.Venda, error) {
	query := `
		SELECT ` + vendaColumns + ` FROM vendas
		WHERE company_id = $1 AND exclusion_status = 'pending' AND deleted_at IS NULL
		ORDER BY exclusion_requested_at`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list pending exclusions: %w", err)
	}
	return collectVendas(rows)
}

// TotalsByPaymentMethod agrega o total vendido por forma de pagamento no período.
func (r *VendaRepo) TotalsByPaymentMethod(ctx context.Context, companyID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT payment_method, COALESCE(sum(total), 0)
		FROM vendas
		WHERE company_id = $1 AND deleted_at IS NULL AND created_at >= $2 AND created_at < $3
		GROUP BY payment_method`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("totals by payment method: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var method string
		var total decimal.Decimal
		if err := rows.Scan(&method, &total); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		totals[method] = total
	}
	return totals, rows.Err()
}

func collectVendas(rows pgx.Rows) ([]*entity.Venda, error) {
	defer rows.Close()
	var out []*entity.Venda
	for rows.Next() {
		v, err := scanVenda(rows)
		if err != nil {
			return nil, fmt.Errorf("scan venda: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVenda(row pgx.Row) (*entity.Venda, error) {
	var v entity.Venda
	var requestedBy, reason, status, reviewedBy, reviewNotes *string
	err := row.Scan(&v.ID, &v.CompanyID, &v.UserID, &v.CaixaID, &v.Items,
		&v.PaymentMethod, &v.Total, &v.CreatedAt, &v.UpdatedAt, &v.DeletedAt,
		&v.ExclusionRequested, &v.ExclusionRequestedAt, &requestedBy, &reason,
		&status, &v.ExclusionReviewedAt, &reviewedBy, &reviewNotes)
	if err != nil {
		return nil, err
	}
	v.ExclusionRequestedBy = deref(requestedBy)
	v.ExclusionReason = deref(reason)
	v.ExclusionStatus = deref(status)
	v.ExclusionReviewedBy = deref(reviewedBy)
	v.ExclusionReviewNotes = deref(reviewNotes)
	return &v, nil
}
