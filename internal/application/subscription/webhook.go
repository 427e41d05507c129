package subscription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/internal/domain/repository"
	"github.com/caixapro/pdv-api/pkg/logger"
)

// Eventos do webhook Asaas tratados pelo ingestor.
const (
	EventPaymentCreated          = "PAYMENT_CREATED"
	EventPaymentUpdated          = "PAYMENT_UPDATED"
	EventPaymentCheckoutViewed   = "PAYMENT_CHECKOUT_VIEWED"
	EventPaymentConfirmed        = "PAYMENT_CONFIRMED"
	EventPaymentReceived         = "PAYMENT_RECEIVED"
	EventPaymentOverdue          = "PAYMENT_OVERDUE"
	EventPaymentDeleted          = "PAYMENT_DELETED"
	EventPaymentRefunded         = "PAYMENT_REFUNDED"
	EventSubscriptionCreated     = "SUBSCRIPTION_CREATED"
	EventSubscriptionUpdated     = "SUBSCRIPTION_UPDATED"
	EventSubscriptionDeleted     = "SUBSCRIPTION_DELETED"
	EventSubscriptionInactivated = "SUBSCRIPTION_INACTIVATED"
)

// WebhookPayment payload de cobrança conforme enviado pelo Asaas.
type WebhookPayment struct {
	ID                string          `json:"id"`
	Customer          string          `json:"customer"`
	Subscription      string          `json:"subscription,omitempty"`
	Value             decimal.Decimal `json:"value"`
	Status            string          `json:"status"`
	BillingType       string          `json:"billingType"`
	InvoiceURL        string          `json:"invoiceUrl"`
	ExternalReference string          `json:"externalReference"`
	DueDate           string          `json:"dueDate"`     // "2006-01-02"
	PaymentDate       string          `json:"paymentDate"` // "2006-01-02"
	Description       string          `json:"description"`
}

// WebhookSubscription payload de assinatura conforme enviado pelo Asaas.
type WebhookSubscription struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	Status            string `json:"status"` // ACTIVE, INACTIVE, EXPIRED
	ExternalReference string `json:"externalReference"`
}

// WebhookEvent corpo do POST /asaas-webhooks.
type WebhookEvent struct {
	Event        string               `json:"event"`
	Payment      *WebhookPayment      `json:"payment,omitempty"`
	Subscription *WebhookSubscription `json:"subscription,omitempty"`
}

// Ingestor aplica eventos assíncronos do gateway ao estado local.
// Processamento idempotente: o Asaas reentrega eventos, e o upsert do
// histórico é chaveado pelo id externo da cobrança. Eventos não resolvidos
// são registrados e descartados sem erro (o handler HTTP sempre responde 200).
type Ingestor struct {
	subRepo     repository.SubscriptionRepository
	historyRepo repository.PaymentHistoryRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewIngestor constrói o ingestor de webhooks.
func NewIngestor(subRepo repository.SubscriptionRepository, historyRepo repository.PaymentHistoryRepository, log *logger.Logger) *Ingestor {
	return &Ingestor{subRepo: subRepo, historyRepo: historyRepo, log: log, now: time.Now}
}

// WithClock substitui o relógio (testes).
func (i *Ingestor) WithClock(now func() time.Time) *Ingestor {
	i.now = now
	return i
}

// Process aplica o evento. Erros devolvidos aqui são registrados pelo handler,
// que mesmo assim confirma o recebimento (evita tempestade de retries do provedor).
func (i *Ingestor) Process(ctx context.Context, event *WebhookEvent) error {
	switch event.Event {
	case EventPaymentConfirmed, EventPaymentReceived:
		return i.handlePaymentConfirmed(ctx, event)
	case EventPaymentOverdue:
		return i.handlePaymentOverdue(ctx, event)
	case EventPaymentDeleted:
		return i.syncPaymentHistory(ctx, event, entity.PaymentCancelled)
	case EventPaymentRefunded:
		return i.syncPaymentHistory(ctx, event, entity.PaymentRefunded)
	case EventPaymentCreated, EventPaymentUpdated, EventPaymentCheckoutViewed:
		// Sincronização genérica: espelha o status reportado, sem mexer na assinatura.
		if event.Payment == nil {
			return fmt.Errorf("evento %s sem payload de cobrança", event.Event)
		}
		return i.syncPaymentHistory(ctx, event, mapProviderPaymentStatus(event.Payment.Status))
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		return i.handleSubscriptionStatus(ctx, event)
	case EventSubscriptionDeleted, EventSubscriptionInactivated:
		return i.handleSubscriptionCancelled(ctx, event)
	default:
		i.log.Info().Str("event", event.Event).Msg("evento de webhook ignorado")
		return nil
	}
}

// resolveByPayment resolução em três níveis, primeira correspondência vence:
// (1) id externo da assinatura, (2) id externo do cliente, (3) padrão
// company_<id> na referência externa — e neste caso o id de cliente que
// faltava é gravado na assinatura para lookups diretos futuros.
func (i *Ingestor) resolveByPayment(ctx context.Context, p *WebhookPayment) (*entity.CompanySubscription, error) {
	if p.Subscription != "" {
		sub, err := i.subRepo.GetByAsaasSubscriptionID(ctx, p.Subscription)
		if err != nil || sub != nil {
			return sub, err
		}
	}
	if p.Customer != "" {
		sub, err := i.subRepo.GetByAsaasCustomerID(ctx, p.Customer)
		if err != nil || sub != nil {
			return sub, err
		}
	}
	companyID, ok := ExtractCompanyID(p.ExternalReference)
	if !ok {
		return nil, nil
	}
	sub, err := i.subRepo.GetByCompanyID(ctx, companyID)
	if err != nil || sub == nil {
		return sub, err
	}
	if p.Customer != "" && sub.AsaasCustomerID == "" {
		sub.AsaasCustomerID = p.Customer
		sub.UpdatedAt = i.now()
		if err := i.subRepo.Update(ctx, sub); err != nil {
			return nil, err
		}
		i.log.Info().Str("company_id", companyID).Str("customer_id", p.Customer).
			Msg("customer_id do gateway preenchido via referência externa")
	}
	return sub, nil
}

func (i *Ingestor) resolveBySubscription(ctx context.Context, s *WebhookSubscription) (*entity.CompanySubscription, error) {
	if s.ID != "" {
		sub, err := i.subRepo.GetByAsaasSubscriptionID(ctx, s.ID)
		if err != nil || sub != nil {
			return sub, err
		}
	}
	if s.Customer != "" {
		sub, err := i.subRepo.GetByAsaasCustomerID(ctx, s.Customer)
		if err != nil || sub != nil {
			return sub, err
		}
	}
	companyID, ok := ExtractCompanyID(s.ExternalReference)
	if !ok {
		return nil, nil
	}
	return i.subRepo.GetByCompanyID(ctx, companyID)
}

func (i *Ingestor) handlePaymentConfirmed(ctx context.Context, event *WebhookEvent) error {
	if event.Payment == nil {
		return fmt.Errorf("evento %s sem payload de cobrança", event.Event)
	}
	sub, err := i.resolveByPayment(ctx, event.Payment)
	if err != nil {
		return err
	}
	if sub == nil {
		i.dropUnresolved(event)
		return nil
	}

	// A confirmação de pagamento renova o período por um mês a partir de agora.
	// O plano pendente codificado na referência de upgrade NÃO é aplicado aqui.
	now := i.now()
	sub.Activate(now, now.AddDate(0, 1, 0))
	if event.Payment.Subscription != "" && sub.AsaasSubscriptionID == "" {
		sub.AsaasSubscriptionID = event.Payment.Subscription
	}
	if err := i.subRepo.Update(ctx, sub); err != nil {
		return err
	}

	paidAt := parseAsaasDate(event.Payment.PaymentDate, now)
	return i.upsertHistory(ctx, sub.ID, event.Payment, entity.PaymentConfirmed, &paidAt)
}

func (i *Ingestor) handlePaymentOverdue(ctx context.Context, event *WebhookEvent) error {
	if event.Payment == nil {
		return fmt.Errorf("evento %s sem payload de cobrança", event.Event)
	}
	sub, err := i.resolveByPayment(ctx, event.Payment)
	if err != nil {
		return err
	}
	if sub == nil {
		i.dropUnresolved(event)
		return nil
	}
	sub.MarkPastDue()
	if err := i.subRepo.Update(ctx, sub); err != nil {
		return err
	}
	return i.upsertHistory(ctx, sub.ID, event.Payment, entity.PaymentOverdue, nil)
}

// syncPaymentHistory atualiza somente o histórico, sem transição de assinatura.
func (i *Ingestor) syncPaymentHistory(ctx context.Context, event *WebhookEvent, status string) error {
	if event.Payment == nil {
		return fmt.Errorf("evento %s sem payload de cobrança", event.Event)
	}
	existing, err := i.historyRepo.GetByAsaasPaymentID(ctx, event.Payment.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return i.upsertHistory(ctx, existing.SubscriptionID, event.Payment, status, nil)
	}
	// Sem linha prévia: precisa resolver a assinatura para criar uma.
	sub, err := i.resolveByPayment(ctx, event.Payment)
	if err != nil {
		return err
	}
	if sub == nil {
		i.dropUnresolved(event)
		return nil
	}
	return i.upsertHistory(ctx, sub.ID, event.Payment, status, nil)
}

func (i *Ingestor) handleSubscriptionStatus(ctx context.Context, event *WebhookEvent) error {
	if event.Subscription == nil {
		return fmt.Errorf("evento %s sem payload de assinatura", event.Event)
	}
	sub, err := i.resolveBySubscription(ctx, event.Subscription)
	if err != nil {
		return err
	}
	if sub == nil {
		i.dropUnresolved(event)
		return nil
	}
	if sub.AsaasSubscriptionID == "" && event.Subscription.ID != "" {
		sub.AsaasSubscriptionID = event.Subscription.ID
	}
	sub.ApplyProviderStatus(event.Subscription.Status)
	return i.subRepo.Update(ctx, sub)
}

func (i *Ingestor) handleSubscriptionCancelled(ctx context.Context, event *WebhookEvent) error {
	if event.Subscription == nil {
		return fmt.Errorf("evento %s sem payload de assinatura", event.Event)
	}
	sub, err := i.resolveBySubscription(ctx, event.Subscription)
	if err != nil {
		return err
	}
	if sub == nil {
		i.dropUnresolved(event)
		return nil
	}
	sub.Cancel()
	return i.subRepo.Update(ctx, sub)
}

// upsertHistory insere ou atualiza a linha do histórico chaveada pelo id externo.
// Nunca duplica a mesma cobrança do provedor.
func (i *Ingestor) upsertHistory(ctx context.Context, subscriptionID string, p *WebhookPayment, status string, paidAt *time.Time) error {
	now := i.now()
	existing, err := i.historyRepo.GetByAsaasPaymentID(ctx, p.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Status = status
		existing.BillingType = p.BillingType
		if p.InvoiceURL != "" {
			existing.InvoiceURL = p.InvoiceURL
		}
		if !p.Value.IsZero() {
			existing.Amount = p.Value
		}
		if due := parseAsaasDateOpt(p.DueDate); due != nil {
			existing.DueDate = due
		}
		if paidAt != nil {
			existing.PaidAt = paidAt
		}
		existing.UpdatedAt = now
		return i.historyRepo.Update(ctx, existing)
	}

	history := &entity.PaymentHistory{
		ID:             uuid.New().String(),
		SubscriptionID: subscriptionID,
		AsaasPaymentID: p.ID,
		Amount:         p.Value,
		Status:         status,
		BillingType:    p.BillingType,
		InvoiceURL:     p.InvoiceURL,
		DueDate:        parseAsaasDateOpt(p.DueDate),
		PaidAt:         paidAt,
		Description:    p.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return i.historyRepo.Create(ctx, history)
}

func (i *Ingestor) dropUnresolved(event *WebhookEvent) {
	ev := i.log.Warn().Str("event", event.Event)
	if event.Payment != nil {
		ev = ev.Str("payment_id", event.Payment.ID).Str("external_reference", event.Payment.ExternalReference)
	}
	if event.Subscription != nil {
		ev = ev.Str("subscription_id", event.Subscription.ID)
	}
	ev.Msg("assinatura não resolvida; evento descartado")
}

// mapProviderPaymentStatus traduz o status bruto do Asaas para o status local do histórico.
func mapProviderPaymentStatus(providerStatus string) string {
	switch strings.ToUpper(providerStatus) {
	case "CONFIRMED":
		return entity.PaymentConfirmed
	case "RECEIVED", "RECEIVED_IN_CASH":
		return entity.PaymentReceived
	case "OVERDUE":
		return entity.PaymentOverdue
	case "REFUNDED":
		return entity.PaymentRefunded
	case "DELETED":
		return entity.PaymentCancelled
	default:
		return entity.PaymentPending
	}
}

func parseAsaasDate(s string, fallback time.Time) time.Time {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return fallback
}

func parseAsaasDateOpt(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}
