package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsub "github.com/caixapro/pdv-api/internal/application/subscription"
	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/pkg/logger"
)

type webhookFixture struct {
	ing      *appsub.Ingestor
	subRepo  *memSubRepo
	histRepo *memHistoryRepo
}

func newWebhookFixture(t *testing.T, subs ...*entity.CompanySubscription) *webhookFixture {
	t.Helper()
	subRepo := newMemSubRepo()
	for _, s := range subs {
		require.NoError(t, subRepo.Create(context.Background(), s))
	}
	histRepo := newMemHistoryRepo()
	return &webhookFixture{
		ing:      appsub.NewIngestor(subRepo, histRepo, logger.NewNop()),
		subRepo:  subRepo,
		histRepo: histRepo,
	}
}

func trialSub() *entity.CompanySubscription {
	return &entity.CompanySubscription{
		ID:              "sub-1",
		CompanyID:       "42",
		PlanID:          "plan-trial",
		AsaasCustomerID: "cus_000001",
		Status:          entity.StatusTrial,
	}
}

func confirmedEvent(paymentID string) *appsub.WebhookEvent {
	return &appsub.WebhookEvent{
		Event: appsub.EventPaymentConfirmed,
		Payment: &appsub.WebhookPayment{
			ID:          paymentID,
			Customer:    "cus_000001",
			Value:       decimal.NewFromInt(30),
			Status:      "CONFIRMED",
			BillingType: "PIX",
			InvoiceURL:  "https://sandbox.asaas.com/i/" + paymentID,
			DueDate:     "2026-09-03",
			PaymentDate: "2026-08-31",
		},
	}
}

func TestProcess_PaymentConfirmed_AtivaERenova(t *testing.T) {
	f := newWebhookFixture(t, trialSub())
	ctx := context.Background()

	require.NoError(t, f.ing.Process(ctx, confirmedEvent("pay_1")))

	sub, err := f.subRepo.GetByID(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, sub.Status)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), *sub.CurrentPeriodEnd, time.Minute)

	row, err := f.histRepo.GetByAsaasPaymentID(ctx, "pay_1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, entity.PaymentConfirmed, row.Status)
	require.NotNil(t, row.PaidAt)
	assert.Equal(t, "2026-08-31", row.PaidAt.Format("2006-01-02"))
}

func TestProcess_PaymentConfirmed_ReentregaNaoDuplica(t *testing.T) {
	f := newWebhookFixture(t, trialSub())
	ctx := context.Background()

	// O Asaas reentrega eventos; a linha do histórico é chaveada pelo id externo.
	require.NoError(t, f.ing.Process(ctx, confirmedEvent("pay_1")))
	require.NoError(t, f.ing.Process(ctx, confirmedEvent("pay_1")))

	rows, err := f.histRepo.ListBySubscription(ctx, "sub-1", 0, 100)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestProcess_PaymentConfirmed_NaoAplicaPlanoPendente(t *testing.T) {
	f := newWebhookFixture(t, trialSub())
	ctx := context.Background()

	ev := confirmedEvent("pay_1")
	ev.Payment.ExternalReference = appsub.BuildUpgradeReference("42", "plan-inicial", "monthly")
	require.NoError(t, f.ing.Process(ctx, ev))

	sub, err := f.subRepo.GetByID(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, sub.Status)
	assert.Equal(t, "plan-trial", sub.PlanID,
		"a confirmação renova o período mas não troca o plano")
}

func TestProcess_PaymentOverdue_MarcaPastDue(t *testing.T) {
	f := newWebhookFixture(t, trialSub())
	ctx := context.Background()

	err := f.ing.Process(ctx, &appsub.WebhookEvent{
		Event: appsub.EventPaymentOverdue,
		Payment: &appsub.WebhookPayment{
			ID:       "pay_2",
			Customer: "cus_000001",
			Value:    decimal.NewFromInt(30),
			Status:   "OVERDUE",
			DueDate:  "2026-08-20",
		},
	})
	require.NoError(t, err)

	sub, _ := f.subRepo.GetByID(ctx, "sub-1")
	assert.Equal(t, entity.StatusPastDue, sub.Status)

	row, err := f.histRepo.GetByAsaasPaymentID(ctx, "pay_2")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, entity.PaymentOverdue, row.Status)
}

func TestProcess_ResolucaoPorReferencia_PreencheCustomerID(t *testing.T) {
	// Assinatura sem nenhum id do gateway: só a referência company_<id> resolve.
	sub := trialSub()
	sub.AsaasCustomerID = ""
	f := newWebhookFixture(t, sub)
	ctx := context.Background()

	err := f.ing.Process(ctx, &appsub.WebhookEvent{
		Event: appsub.EventPaymentOverdue,
		Payment: &appsub.WebhookPayment{
			ID:                "pay_3",
			Customer:          "cus_000099",
			Value:             decimal.NewFromInt(50),
			Status:            "OVERDUE",
			ExternalReference: "company_42",
		},
	})
	require.NoError(t, err)

	stored, _ := f.subRepo.GetByID(ctx, "sub-1")
	assert.Equal(t, entity.StatusPastDue, stored.Status)
	assert.Equal(t, "cus_000099", stored.AsaasCustomerID,
		"customer_id resolvido via referência deve ser preenchido para lookups futuros")
}

func TestProcess_ResolucaoPorAsaasSubscriptionID(t *testing.T) {
	sub := trialSub()
	sub.AsaasCustomerID = ""
	sub.AsaasSubscriptionID = "sub_asaas_1"
	f := newWebhookFixture(t, sub)
	ctx := context.Background()

	require.NoError(t, f.ing.Process(ctx, &appsub.WebhookEvent{
		Event: appsub.EventPaymentConfirmed,
		Payment: &appsub.WebhookPayment{
			ID:           "pay_4",
			Subscription: "sub_asaas_1",
			Value:        decimal.NewFromInt(30),
			Status:       "CONFIRMED",
		},
	}))

	stored, _ := f.subRepo.GetByID(ctx, "sub-1")
	assert.Equal(t, entity.StatusActive, stored.Status)
}

func TestProcess_NaoResolvido_DescartaSemErro(t *testing.T) {
	f := newWebhookFixture(t)
	ctx := context.Background()

	// Nenhuma assinatura casa: o evento é descartado e o handler confirma mesmo assim.
	err := f.ing.Process(ctx, &appsub.WebhookEvent{
		Event: appsub.EventPaymentConfirmed,
		Payment: &appsub.WebhookPayment{
			ID:       "pay_orfao",
			Customer: "cus_desconhecido",
			Value:    decimal.NewFromInt(30),
		},
	})
	assert.NoError(t, err)
}

func TestProcess_PaymentRefunded_SoHistorico(t *testing.T) {
	f := newWebhookFixture(t, trialSub())
	ctx := context.Background()

	require.NoError(t, f.ing.Process(ctx, confirmedEvent("pay_5")))

	err := f.ing.Process(ctx, &appsub.WebhookEvent{
		Event: appsub.EventPaymentRefunded,
		Payment: &appsub.WebhookPayment{
			ID:       "pay_5",
			Customer: "cus_000001",
			Value:    decimal.NewFromInt(30),
			Status:   "REFUNDED",
		},
	})
	require.NoError(t, err)

	row, _ := f.histRepo.GetByAsaasPaymentID(ctx, "pay_5")
	require.NotNil(t, row)
	assert.Equal(t, entity.PaymentRefunded, row.Status)

	// Estorno não rebaixa a assinatura: só o histórico muda.
	sub, _ := f.subRepo.GetByID(ctx, "sub-1")
	assert.Equal(t, entity.StatusActive, sub.Status)
}

func TestProcess_SubscriptionInactivated_Cancela(t *testing.T) {
	sub := trialSub()
	sub.AsaasSubscriptionID = "sub_asaas_1"
	f := newWebhookFixture(t, sub)
	ctx := context.Background()

	err := f.ing.Process(ctx, &appsub.WebhookEvent{
		Event:        appsub.EventSubscriptionInactivated,
		Subscription: &appsub.WebhookSubscription{ID: "sub_asaas_1", Status: "INACTIVE"},
	})
	require.NoError(t, err)

	stored, _ := f.subRepo.GetByID(ctx, "sub-1")
	assert.Equal(t, entity.StatusCancelled, stored.Status)
}

func TestProcess_SubscriptionUpdated_AplicaStatusEBackfill(t *testing.T) {
	sub := trialSub()
	f := newWebhookFixture(t, sub)
	ctx := context.Background()

	err := f.ing.Process(ctx, &appsub.WebhookEvent{
		Event:        appsub.EventSubscriptionUpdated,
		Subscription: &appsub.WebhookSubscription{ID: "sub_asaas_novo", Customer: "cus_000001", Status: "ACTIVE"},
	})
	require.NoError(t, err)

	stored, _ := f.subRepo.GetByID(ctx, "sub-1")
	assert.Equal(t, entity.StatusActive, stored.Status)
	assert.Equal(t, "sub_asaas_novo", stored.AsaasSubscriptionID)
}

func TestProcess_EventoDesconhecido_Ignora(t *testing.T) {
	f := newWebhookFixture(t, trialSub())

	err := f.ing.Process(context.Background(), &appsub.WebhookEvent{Event: "PAYMENT_ANTICIPATED"})
	assert.NoError(t, err)
}
