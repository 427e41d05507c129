package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caixapro/pdv-api/internal/application/dto"
	"github.com/caixapro/pdv-api/internal/domain"
	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/internal/domain/repository"
	"github.com/caixapro/pdv-api/pkg/logger"
)

// Períodos de cobrança aceitos no upgrade e seus multiplicadores sobre o preço mensal.
var periodMultipliers = map[string]int64{
	"monthly":   1,
	"quarterly": 3,
	"yearly":    12,
}

// Orchestrator casos de uso de assinatura: trial, upgrade via link de pagamento,
// troca administrativa, cancelamento, sweep de trials e cobranças avulsas.
//
// Operações multi-passo (resolver cliente -> criar cobrança -> gravar histórico)
// executam como passos independentes, sem transação: a verdade financeira é
// reconciliada pelo webhook, que tem o gateway como fonte de verdade.
type Orchestrator struct {
	subRepo     repository.SubscriptionRepository
	planRepo    repository.PlanRepository
	companyRepo repository.CompanyRepository
	historyRepo repository.PaymentHistoryRepository
	gateway     BillingGateway
	log         *logger.Logger
	now         func() time.Time
}

// NewOrchestrator constrói o orquestrador de assinaturas.
func NewOrchestrator(
	subRepo repository.SubscriptionRepository,
	planRepo repository.PlanRepository,
	companyRepo repository.CompanyRepository,
	historyRepo repository.PaymentHistoryRepository,
	gateway BillingGateway,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		subRepo:     subRepo,
		planRepo:    planRepo,
		companyRepo: companyRepo,
		historyRepo: historyRepo,
		gateway:     gateway,
		log:         log,
		now:         time.Now,
	}
}

// WithClock substitui o relógio (testes).
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// CreateTrialSubscription cria a assinatura trial de uma empresa recém-cadastrada.
// Falha com ErrSubscriptionExists se já houver assinatura não deletada.
func (o *Orchestrator) CreateTrialSubscription(ctx context.Context, companyID string) (*entity.CompanySubscription, error) {
	existing, err := o.subRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSubscriptionExists
	}
	plan, err := o.planRepo.GetByName(ctx, entity.PlanFreeTrial)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	now := o.now()
	trialEnd := now.AddDate(0, 0, plan.TrialDays)
	sub := &entity.CompanySubscription{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		PlanID:      plan.ID,
		Status:      entity.StatusTrial,
		TrialEndsAt: &trialEnd,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := o.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetOrCreateCustomer resolve o id de cliente no gateway — ponto de entrada
// idempotente de todas as operações pagas.
//
// Ordem: (1) id armazenado, verificado contra o gateway (cobre troca de
// ambiente sandbox -> produção); (2) busca por CPF/CNPJ; (3) criação.
// O id resolvido é persistido na assinatura quando muda.
func (o *Orchestrator) GetOrCreateCustomer(ctx context.Context, sub *entity.CompanySubscription) (string, error) {
	if sub.AsaasCustomerID != "" {
		if _, err := o.gateway.GetCustomer(ctx, sub.AsaasCustomerID); err == nil {
			return sub.AsaasCustomerID, nil
		}
		// Id gravado não resolve mais (ex.: cutover de ambiente): recriar adiante.
		o.log.Warn().Str("customer_id", sub.AsaasCustomerID).Str("company_id", sub.CompanyID).
			Msg("cliente asaas armazenado não resolve; repassando pela busca/criação")
	}

	company, err := o.companyRepo.GetByID(ctx, sub.CompanyID)
	if err != nil {
		return "", err
	}
	if company == nil {
		return "", domain.ErrNotFound
	}
	if company.CpfCnpj == "" {
		return "", domain.ErrMissingCpfCnpj
	}

	customer, err := o.gateway.FindCustomerByCpfCnpj(ctx, company.CpfCnpj)
	if err != nil {
		return "", fmt.Errorf("buscar cliente no gateway: %w", err)
	}
	if customer == nil {
		customer, err = o.gateway.CreateCustomer(ctx, CreateCustomerInput{
			Name:    company.Name,
			CpfCnpj: company.CpfCnpj,
			Email:   company.Email,
		})
		if err != nil {
			return "", fmt.Errorf("criar cliente no gateway: %w", err)
		}
	}

	if sub.AsaasCustomerID != customer.ID {
		sub.AsaasCustomerID = customer.ID
		sub.UpdatedAt = o.now()
		if err := o.subRepo.Update(ctx, sub); err != nil {
			return "", err
		}
	}
	return customer.ID, nil
}

// RequestPlanUpgrade gera uma cobrança de upgrade e devolve o link de pagamento.
// NÃO altera o plano: a troca efetiva depende da confirmação via webhook.
func (o *Orchestrator) RequestPlanUpgrade(ctx context.Context, companyID, newPlanID, billingPeriod string, totalAmount *decimal.Decimal) (*dto.RequestUpgradeResponse, error) {
	sub, err := o.subRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	plan, err := o.planRepo.GetByID(ctx, newPlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	if plan.Name == entity.PlanEmpresarial {
		return nil, domain.NewBadRequest("o plano empresarial requer negociação com o time comercial")
	}
	if plan.IsFree() {
		return nil, domain.NewBadRequest("planos gratuitos usam o fluxo de trial, não o de upgrade")
	}
	mult, ok := periodMultipliers[billingPeriod]
	if !ok {
		return nil, domain.NewBadRequest("período de cobrança inválido: use monthly, quarterly ou yearly")
	}

	amount := plan.Price.Mul(decimal.NewFromInt(mult))
	if totalAmount != nil {
		amount = *totalAmount
	}

	customerID, err := o.GetOrCreateCustomer(ctx, sub)
	if err != nil {
		return nil, err
	}

	now := o.now()
	dueDate := now.AddDate(0, 0, 3)
	payment, err := o.gateway.CreatePayment(ctx, CreatePaymentInput{
		CustomerID:        customerID,
		Value:             amount,
		BillingType:       "UNDEFINED", // pagador escolhe boleto/cartão/PIX no checkout
		DueDate:           dueDate,
		Description:       fmt.Sprintf("Upgrade para o plano %s (%s)", plan.DisplayName, billingPeriod),
		ExternalReference: BuildUpgradeReference(companyID, newPlanID, billingPeriod),
	})
	if err != nil {
		return nil, fmt.Errorf("criar cobrança de upgrade: %w", err)
	}

	history := &entity.PaymentHistory{
		ID:             uuid.New().String(),
		SubscriptionID: sub.ID,
		AsaasPaymentID: payment.ID,
		Amount:         amount,
		Status:         entity.PaymentPending,
		BillingType:    payment.BillingType,
		InvoiceURL:     payment.InvoiceURL,
		DueDate:        payment.DueDate,
		Description:    payment.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	o.attachPixQrCode(ctx, payment, history)
	if err := o.historyRepo.Create(ctx, history); err != nil {
		return nil, err
	}

	return &dto.RequestUpgradeResponse{
		PaymentID:     payment.ID,
		PaymentLink:   payment.InvoiceURL,
		Amount:        amount,
		PendingPlanID: newPlanID,
		DueDate:       payment.DueDate,
	}, nil
}

// ChangePlanAdmin troca o plano imediatamente (rota privilegiada, sem pagamento).
// A assinatura precisa pertencer à empresa do chamador. A recorrência remota é
// best-effort: falha vira log, não erro.
func (o *Orchestrator) ChangePlanAdmin(ctx context.Context, companyID, subscriptionID, newPlanID string) (*entity.CompanySubscription, error) {
	sub, err := o.subRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	if sub.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	plan, err := o.planRepo.GetByID(ctx, newPlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}

	wasTrial := sub.Status == entity.StatusTrial
	sub.PlanID = plan.ID
	sub.UpdatedAt = o.now()

	if !plan.IsFree() && !plan.NeverExpires {
		o.ensureRemoteSubscription(ctx, sub, plan)
	}

	if plan.NeverExpires || (wasTrial && !plan.IsFree()) {
		now := o.now()
		sub.Activate(now, now.AddDate(0, 1, 0))
	}

	if err := o.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ensureRemoteSubscription alinha a recorrência do gateway ao plano: atualiza o
// valor quando ela já existe, cria quando ainda não existe. Best-effort em
// ambos os caminhos; a troca local nunca depende do gateway.
func (o *Orchestrator) ensureRemoteSubscription(ctx context.Context, sub *entity.CompanySubscription, plan *entity.Plan) {
	if sub.AsaasSubscriptionID != "" {
		if err := o.gateway.UpdateSubscriptionValue(ctx, sub.AsaasSubscriptionID, plan.Price); err != nil {
			o.log.Warn().Err(err).Str("subscription_id", sub.ID).
				Msg("falha ao atualizar preço da assinatura no gateway (ignorada)")
		}
		return
	}

	customerID, err := o.GetOrCreateCustomer(ctx, sub)
	if err != nil {
		o.log.Warn().Err(err).Str("subscription_id", sub.ID).
			Msg("falha ao resolver cliente para criar a recorrência no gateway (ignorada)")
		return
	}
	remote, err := o.gateway.CreateSubscription(ctx, CreateSubscriptionInput{
		CustomerID:        customerID,
		Value:             plan.Price,
		BillingType:       "UNDEFINED",
		Cycle:             "MONTHLY",
		NextDueDate:       o.now().AddDate(0, 1, 0),
		Description:       fmt.Sprintf("Assinatura do plano %s", plan.DisplayName),
		ExternalReference: fmt.Sprintf("company_%s", sub.CompanyID),
	})
	if err != nil {
		o.log.Warn().Err(err).Str("subscription_id", sub.ID).
			Msg("falha ao criar a recorrência no gateway (ignorada)")
		return
	}
	sub.AsaasSubscriptionID = remote.ID
}

// CancelSubscription cancela localmente; o cancelamento remoto é best-effort.
// A assinatura precisa pertencer à empresa do chamador.
func (o *Orchestrator) CancelSubscription(ctx context.Context, companyID, subscriptionID string) error {
	sub, err := o.subRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub == nil {
		return domain.ErrSubscriptionNotFound
	}
	if sub.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if sub.AsaasSubscriptionID != "" {
		if err := o.gateway.CancelSubscription(ctx, sub.AsaasSubscriptionID); err != nil {
			o.log.Warn().Err(err).Str("subscription_id", sub.ID).
				Msg("falha ao cancelar assinatura no gateway (cancelamento local segue)")
		}
	}
	sub.Cancel()
	return o.subRepo.Update(ctx, sub)
}

// CheckAndUpdateTrialStatus sweep periódico: rebaixa para readonly todo trial vencido.
// Idempotente; devolve quantas assinaturas foram rebaixadas.
func (o *Orchestrator) CheckAndUpdateTrialStatus(ctx context.Context) (int, error) {
	expired, err := o.subRepo.ListExpiredTrials(ctx)
	if err != nil {
		return 0, err
	}
	now := o.now()
	demoted := 0
	for _, sub := range expired {
		if !sub.DemoteToReadonly(now) {
			continue
		}
		if err := o.subRepo.Update(ctx, sub); err != nil {
			o.log.Error().Err(err).Str("subscription_id", sub.ID).Msg("falha ao rebaixar trial vencido")
			continue
		}
		demoted++
	}
	return demoted, nil
}

// ListPaymentHistory histórico de cobranças da empresa, mais recentes primeiro.
func (o *Orchestrator) ListPaymentHistory(ctx context.Context, companyID string, limit, offset int) ([]*dto.PaymentHistoryResponse, error) {
	sub, err := o.subRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	rows, err := o.historyRepo.ListBySubscription(ctx, sub.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PaymentHistoryResponse, 0, len(rows))
	for _, h := range rows {
		out = append(out, &dto.PaymentHistoryResponse{
			ID:             h.ID,
			AsaasPaymentID: h.AsaasPaymentID,
			Amount:         h.Amount,
			Status:         h.Status,
			BillingType:    h.BillingType,
			InvoiceURL:     h.InvoiceURL,
			PixPayload:     h.PixPayload,
			PixQrCode:      h.PixQrCode,
			DueDate:        h.DueDate,
			PaidAt:         h.PaidAt,
			Description:    h.Description,
		})
	}
	return out, nil
}

// CreateSinglePayment cobrança avulsa: mesma disciplina de resolução de cliente
// e registro no histórico do upgrade, sem efeito sobre o plano.
func (o *Orchestrator) CreateSinglePayment(ctx context.Context, companyID string, in dto.SinglePaymentRequest) (*dto.SinglePaymentResponse, error) {
	sub, err := o.subRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewBadRequest("o valor da cobrança deve ser maior que zero")
	}

	customerID, err := o.GetOrCreateCustomer(ctx, sub)
	if err != nil {
		return nil, err
	}

	now := o.now()
	billingType := in.BillingType
	if billingType == "" {
		billingType = "UNDEFINED"
	}
	dueDate := now.AddDate(0, 0, 3)
	if in.DueDate != nil {
		dueDate = *in.DueDate
	}

	payment, err := o.gateway.CreatePayment(ctx, CreatePaymentInput{
		CustomerID:        customerID,
		Value:             in.Amount,
		BillingType:       billingType,
		DueDate:           dueDate,
		Description:       in.Description,
		ExternalReference: fmt.Sprintf("company_%s", companyID),
	})
	if err != nil {
		return nil, fmt.Errorf("criar cobrança avulsa: %w", err)
	}

	history := &entity.PaymentHistory{
		ID:             uuid.New().String(),
		SubscriptionID: sub.ID,
		AsaasPaymentID: payment.ID,
		Amount:         in.Amount,
		Status:         entity.PaymentPending,
		BillingType:    payment.BillingType,
		InvoiceURL:     payment.InvoiceURL,
		DueDate:        payment.DueDate,
		Description:    in.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	o.attachPixQrCode(ctx, payment, history)
	if err := o.historyRepo.Create(ctx, history); err != nil {
		return nil, err
	}

	return &dto.SinglePaymentResponse{
		PaymentID:   payment.ID,
		PaymentLink: payment.InvoiceURL,
		Amount:      in.Amount,
		Status:      entity.PaymentPending,
		DueDate:     payment.DueDate,
		PixPayload:  history.PixPayload,
		PixQrCode:   history.PixQrCode,
	}, nil
}

// attachPixQrCode preenche o copia-e-cola e o QR em base64 quando a cobrança
// saiu como PIX. Best-effort: sem QR a cobrança continua pagável pelo link.
func (o *Orchestrator) attachPixQrCode(ctx context.Context, payment *GatewayPayment, history *entity.PaymentHistory) {
	if payment.BillingType != "PIX" {
		return
	}
	qr, err := o.gateway.GetPixQrCode(ctx, payment.ID)
	if err != nil {
		o.log.Warn().Err(err).Str("payment_id", payment.ID).
			Msg("falha ao obter o QR code PIX da cobrança (ignorada)")
		return
	}
	history.PixPayload = qr.Payload
	history.PixQrCode = qr.EncodedImage
}
