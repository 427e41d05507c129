package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/internal/domain/repository"
)

var _ repository.PaymentHistoryRepository = (*PaymentHistoryRepo)(nil)

// PaymentHistoryRepo implementação de PaymentHistoryRepository sobre PostgreSQL.
// asaas_payment_id é UNIQUE: é a chave do upsert do ingestor de webhooks.
type PaymentHistoryRepo struct {
	q Querier
}

// NewPaymentHistoryRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewPaymentHistoryRepository(q Querier) *PaymentHistoryRepo {
	return &PaymentHistoryRepo{q: q}
}

const paymentHistoryColumns = `id, subscription_id, asaas_payment_id, amount, status,
	billing_type, invoice_url, pix_payload, pix_qr_code, due_date, paid_at, description, created_at, updated_at`

// Create persiste uma linha do histórico.
func (r *PaymentHistoryRepo) Create(ctx context.Context, p *entity.PaymentHistory) error {
	query := `
		INSERT INTO payment_history (` + paymentHistoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SubscriptionID, p.AsaasPaymentID, p.Amount, p.Status,
		p.BillingType, p.InvoiceURL, p.PixPayload, p.PixQrCode,
		p.DueDate, p.PaidAt, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment history: %w", err)
	}
	return nil
}

// GetByAsaasPaymentID devolve a linha pelo id externo; (nil, nil) se não houver.
func (r *PaymentHistoryRepo) GetByAsaasPaymentID(ctx context.Context, asaasPaymentID string) (*entity.PaymentHistory, error) {
	query := `SELECT ` + paymentHistoryColumns + ` FROM payment_history WHERE asaas_payment_id = $1`
	p, err := scanPaymentHistory(r.q.QueryRow(ctx, query, asaasPaymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment history: %w", err)
	}
	return p, nil
}

// Update atualiza a linha do histórico.
func (r *PaymentHistoryRepo) Update(ctx context.Context, p *entity.PaymentHistory) error {
	query := `
		UPDATE payment_history SET amount = $2, status = $3, billing_type = $4,
			invoice_url = $5, pix_payload = $6, pix_qr_code = $7, due_date = $8,
			paid_at = $9, description = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Amount, p.Status, p.BillingType, p.InvoiceURL, p.PixPayload,
		p.PixQrCode, p.DueDate, p.PaidAt, p.Description, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payment history: %w", err)
	}
	return nil
}

// ListBySubscription devolve o histórico de uma assinatura, mais recentes primeiro.
func (r *PaymentHistoryRepo) ListBySubscription(ctx context.Context, subscriptionID string, limit, offset int) ([]*entity.PaymentHistory, error) {
	query := `
		SELECT ` + paymentHistoryColumns + ` FROM payment_history
		WHERE subscription_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, subscriptionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list payment history: %w", err)
	}
	defer rows.Close()

	var out []*entity.PaymentHistory
	for rows.Next() {
		p, err := scanPaymentHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment history: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPaymentHistory(row pgx.Row) (*entity.PaymentHistory, error) {
	var p entity.PaymentHistory
	err := row.Scan(
		&p.ID, &p.SubscriptionID, &p.AsaasPaymentID, &p.Amount, &p.Status,
		&p.BillingType, &p.InvoiceURL, &p.PixPayload, &p.PixQrCode,
		&p.DueDate, &p.PaidAt, &p.Description, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
