package entity

import "time"

// SubscriptionStatus estado do ciclo de vida de uma assinatura.
// Tipo fechado: transições acontecem apenas pelos métodos de CompanySubscription,
// o que mantém cada transição testável isoladamente da persistência.
type SubscriptionStatus string

const (
	StatusTrial     SubscriptionStatus = "trial"
	StatusActive    SubscriptionStatus = "active"
	StatusPastDue   SubscriptionStatus = "past_due"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusReadonly  SubscriptionStatus = "readonly"
	StatusExpired   SubscriptionStatus = "expired"
)

// Valid informa se o status pertence ao conjunto fechado.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusTrial, StatusActive, StatusPastDue, StatusCancelled, StatusReadonly, StatusExpired:
		return true
	}
	return false
}

// CompanySubscription vincula uma empresa (1:1 por registro não deletado,
// garantido pela aplicação) a um plano e acompanha ciclo de vida e período de cobrança.
type CompanySubscription struct {
	ID                  string
	CompanyID           string
	PlanID              string
	AsaasCustomerID     string // id do cliente no gateway (preenchido sob demanda)
	AsaasSubscriptionID string // id da assinatura no gateway (preenchido sob demanda)
	Status              SubscriptionStatus
	TrialEndsAt         *time.Time
	CurrentPeriodStart  *time.Time
	CurrentPeriodEnd    *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time // soft delete: empresa sem assinatura = sem acesso
}

// TrialExpired informa se o trial já venceu em relação a now.
// Avaliação preguiçosa: o gate usa isto mesmo antes do sweep rodar.
func (s *CompanySubscription) TrialExpired(now time.Time) bool {
	return s.Status == StatusTrial && s.TrialEndsAt != nil && now.After(*s.TrialEndsAt)
}

// Activate transição para active com o período de cobrança informado.
// Disparada por PAYMENT_CONFIRMED/PAYMENT_RECEIVED e pela troca administrativa de plano.
func (s *CompanySubscription) Activate(periodStart, periodEnd time.Time) {
	s.Status = StatusActive
	s.CurrentPeriodStart = &periodStart
	s.CurrentPeriodEnd = &periodEnd
	s.UpdatedAt = time.Now()
}

// MarkPastDue transição para past_due (PAYMENT_OVERDUE).
func (s *CompanySubscription) MarkPastDue() {
	s.Status = StatusPastDue
	s.UpdatedAt = time.Now()
}

// Cancel transição para cancelled (cancelamento local ou SUBSCRIPTION_DELETED/INACTIVATED).
func (s *CompanySubscription) Cancel() {
	s.Status = StatusCancelled
	s.UpdatedAt = time.Now()
}

// DemoteToReadonly transição trial -> readonly aplicada pelo sweep de trials vencidos.
// No-op para qualquer outro status, o que torna o sweep idempotente.
func (s *CompanySubscription) DemoteToReadonly(now time.Time) bool {
	if !s.TrialExpired(now) {
		return false
	}
	s.Status = StatusReadonly
	s.UpdatedAt = time.Now()
	return true
}

// ApplyProviderStatus mapeia o status reportado pelo gateway em
// SUBSCRIPTION_CREATED/SUBSCRIPTION_UPDATED: INACTIVE/EXPIRED -> cancelled, senão active.
func (s *CompanySubscription) ApplyProviderStatus(providerStatus string) {
	switch providerStatus {
	case "INACTIVE", "EXPIRED":
		s.Status = StatusCancelled
	default:
		s.Status = StatusActive
	}
	s.UpdatedAt = time.Now()
}
