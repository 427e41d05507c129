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

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo implementação de SubscriptionRepository sobre PostgreSQL.
// company_id tem índice único parcial (WHERE deleted_at IS NULL): no máximo
// uma assinatura viva por empresa, também no nível do banco.
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

const subscriptionColumns = `id, company_id, plan_id, asaas_customer_id, asaas_subscription_id,
	status, trial_ends_at, current_period_start, current_period_end, created_at, updated_at, deleted_at`

// Create persiste uma assinatura.
func (r *SubscriptionRepo) Create(ctx context.Context, sub *entity.CompanySubscription) error {
	query := `
		INSERT INTO company_subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		sub.ID, sub.CompanyID, sub.PlanID, nullIfEmpty(sub.AsaasCustomerID), nullIfEmpty(sub.AsaasSubscriptionID),
		string(sub.Status), sub.TrialEndsAt, sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.CreatedAt, sub.UpdatedAt, sub.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSubscriptionExists
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// GetByID devolve a assinatura; (nil, nil) se não existir ou estiver deletada.
func (r *SubscriptionRepo) GetByID(ctx context.Context, id string) (*entity.CompanySubscription, error) {
	return r.getBy(ctx, "id = $1", id)
}

// GetByCompanyID devolve a assinatura viva da empresa; (nil, nil) quando não há.
func (r *SubscriptionRepo) GetByCompanyID(ctx context.Context, companyID string) (*entity.CompanySubscription, error) {
	return r.getBy(ctx, "company_id = $1", companyID)
}

// GetByAsaasSubscriptionID resolve pela assinatura recorrente do gateway.
func (r *SubscriptionRepo) GetByAsaasSubscriptionID(ctx context.Context, asaasSubID string) (*entity.CompanySubscription, error) {
	return r.getBy(ctx, "asaas_subscription_id = $1", asaasSubID)
}

// GetByAsaasCustomerID resolve pelo cliente do gateway.
func (r *SubscriptionRepo) GetByAsaasCustomerID(ctx context.Context, asaasCustomerID string) (*entity.CompanySubscription, error) {
	return r.getBy(ctx, "asaas_customer_id = $1", asaasCustomerID)
}

// Update atualiza a assinatura.
func (r *SubscriptionRepo) Update(ctx context.Context, sub *entity.CompanySubscription) error {
	query := `
		UPDATE company_subscriptions SET plan_id = $2, asaas_customer_id = $3,
			asaas_subscription_id = $4, status = $5, trial_ends_at = $6,
			current_period_start = $7, current_period_end = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(ctx, query,
		sub.ID, sub.PlanID, nullIfEmpty(sub.AsaasCustomerID), nullIfEmpty(sub.AsaasSubscriptionID),
		string(sub.Status), sub.TrialEndsAt, sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}

// ListExpiredTrials devolve trials vencidos, insumo do sweep periódico.
func (r *SubscriptionRepo) ListExpiredTrials(ctx context.Context) ([]*entity.CompanySubscription, error) {
	query := `
		SELECT ` + subscriptionColumns + ` FROM company_subscriptions
		WHERE status = 'trial' AND trial_ends_at < now() AND deleted_at IS NULL`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list expired trials: %w", err)
	}
	defer rows.Close()

	var subs []*entity.CompanySubscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// Delete faz soft delete da assinatura.
func (r *SubscriptionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE company_subscriptions SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepo) getBy(ctx context.Context, where string, arg any) (*entity.CompanySubscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM company_subscriptions WHERE ` + where + ` AND deleted_at IS NULL`
	s, err := scanSubscription(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return s, nil
}

func scanSubscription(row pgx.Row) (*entity.CompanySubscription, error) {
	var s entity.CompanySubscription
	var status string
	var asaasCustomerID, asaasSubscriptionID *string
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.PlanID, &asaasCustomerID, &asaasSubscriptionID,
		&status, &s.TrialEndsAt, &s.CurrentPeriodStart, &s.CurrentPeriodEnd,
		&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Status = entity.SubscriptionStatus(status)
	if asaasCustomerID != nil {
		s.AsaasCustomerID = *asaasCustomerID
	}
	if asaasSubscriptionID != nil {
		s.AsaasSubscriptionID = *asaasSubscriptionID
	}
	return &s, nil
}

// nullIfEmpty mantém NULL em colunas com índice único parcial (string vazia colidiria).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
