package repository

import (
	"context"

	"github.com/caixapro/pdv-api/internal/domain/entity"
)

// SubscriptionRepository porta de persistência de assinaturas de empresas.
// Métodos Get* devolvem (nil, nil) quando não há registro não deletado.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.CompanySubscription) error
	GetByID(ctx context.Context, id string) (*entity.CompanySubscription, error)
	GetByCompanyID(ctx context.Context, companyID string) (*entity.CompanySubscription, error)
	GetByAsaasSubscriptionID(ctx context.Context, asaasSubID string) (*entity.CompanySubscription, error)
	GetByAsaasCustomerID(ctx context.Context, asaasCustomerID string) (*entity.CompanySubscription, error)
	Update(ctx context.Context, sub *entity.CompanySubscription) error
	// ListExpiredTrials devolve assinaturas trial com trial_ends_at no passado (para o sweep).
	ListExpiredTrials(ctx context.Context) ([]*entity.CompanySubscription, error)
	Delete(ctx context.Context, id string) error // soft delete
}

// PaymentHistoryRepository porta do histórico de cobranças.
type PaymentHistoryRepository interface {
	Create(ctx context.Context, p *entity.PaymentHistory) error
	GetByAsaasPaymentID(ctx context.Context, asaasPaymentID string) (*entity.PaymentHistory, error)
	Update(ctx context.Context, p *entity.PaymentHistory) error
	ListBySubscription(ctx context.Context, subscriptionID string, limit, offset int) ([]*entity.PaymentHistory, error)
}
