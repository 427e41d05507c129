package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/caixapro/pdv-api/internal/domain"
	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/internal/domain/repository"
)

var _ repository.PlanRepository = (*PlanRepo)(nil)

// PlanRepo implementação de PlanRepository sobre PostgreSQL.
// O mapa de features é persistido como JSONB.
type PlanRepo struct {
	q Querier
}

// NewPlanRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewPlanRepository(q Querier) *PlanRepo {
	return &PlanRepo{q: q}
}

const planColumns = `id, name, display_name, price, billing_cycle, max_users, features,
	active, internal_only, never_expires, trial_days, sort_order, created_at, updated_at, deleted_at`

// Create persiste um plano. name é UNIQUE.
func (r *PlanRepo) Create(ctx context.Context, plan *entity.Plan) error {
	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		plan.ID, plan.Name, plan.DisplayName, plan.Price, plan.BillingCycle, plan.MaxUsers,
		plan.Features, plan.Active, plan.InternalOnly, plan.NeverExpires, plan.TrialDays,
		plan.SortOrder, plan.CreatedAt, plan.UpdatedAt, plan.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// GetByID devolve o plano; (nil, nil) se não existir ou estiver deletado.
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1 AND deleted_at IS NULL`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByName devolve o plano pelo nome canônico; (nil, nil) se não existir.
func (r *PlanRepo) GetByName(ctx context.Context, name string) (*entity.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE name = $1 AND deleted_at IS NULL`
	return r.scanOne(r.q.QueryRow(ctx, query, name))
}

// ListPublic devolve os planos ativos e não internos, ordenados por sort_order.
func (r *PlanRepo) ListPublic(ctx context.Context) ([]*entity.Plan, error) {
	query := `
		SELECT ` + planColumns + ` FROM plans
		WHERE active AND NOT internal_only AND deleted_at IS NULL
		ORDER BY sort_order`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []*entity.Plan
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Update atualiza o plano.
func (r *PlanRepo) Update(ctx context.Context, plan *entity.Plan) error {
	query := `
		UPDATE plans SET display_name = $2, price = $3, billing_cycle = $4, max_users = $5,
			features = $6, active = $7, internal_only = $8, never_expires = $9,
			trial_days = $10, sort_order = $11, updated_at = $12
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(ctx, query,
		plan.ID, plan.DisplayName, plan.Price, plan.BillingCycle, plan.MaxUsers,
		plan.Features, plan.Active, plan.InternalOnly, plan.NeverExpires,
		plan.TrialDays, plan.SortOrder, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}

// Delete faz soft delete do plano.
func (r *PlanRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `UPDATE plans SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

func (r *PlanRepo) scanOne(row pgx.Row) (*entity.Plan, error) {
	p, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

func (r *PlanRepo) scan(rows pgx.Rows) (*entity.Plan, error) {
	p, err := r.scanRow(rows)
	if err != nil {
		return nil, fmt.Errorf("scan plan: %w", err)
	}
	return p, nil
}

func (r *PlanRepo) scanRow(row pgx.Row) (*entity.Plan, error) {
	var p entity.Plan
	err := row.Scan(
		&p.ID, &p.Name, &p.DisplayName, &p.Price, &p.BillingCycle, &p.MaxUsers, &p.Features,
		&p.Active, &p.InternalOnly, &p.NeverExpires, &p.TrialDays, &p.SortOrder,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
