package subscription_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	appsub "github.com/caixapro/pdv-api/internal/application/subscription"
	"github.com/caixapro/pdv-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositórios em memória para os casos de uso de assinatura
// ──────────────────────────────────────────────────────────────────────────────

type memSubRepo struct {
	subs map[string]*entity.CompanySubscription
}

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{subs: map[string]*entity.CompanySubscription{}}
}

func (r *memSubRepo) Create(_ context.Context, sub *entity.CompanySubscription) error {
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

func (r *memSubRepo) GetByID(_ context.Context, id string) (*entity.CompanySubscription, error) {
	s, ok := r.subs[id]
	if !ok || s.DeletedAt != nil {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSubRepo) GetByCompanyID(_ context.Context, companyID string) (*entity.CompanySubscription, error) {
	for _, s := range r.subs {
		if s.CompanyID == companyID && s.DeletedAt == nil {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSubRepo) GetByAsaasSubscriptionID(_ context.Context, asaasSubID string) (*entity.CompanySubscription, error) {
	for _, s := range r.subs {
		if s.AsaasSubscriptionID == asaasSubID && s.DeletedAt == nil {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSubRepo) GetByAsaasCustomerID(_ context.Context, asaasCustomerID string) (*entity.CompanySubscription, error) {
	for _, s := range r.subs {
		if s.AsaasCustomerID == asaasCustomerID && s.DeletedAt == nil {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSubRepo) Update(_ context.Context, sub *entity.CompanySubscription) error {
	if _, ok := r.subs[sub.ID]; !ok {
		return fmt.Errorf("assinatura %s não existe", sub.ID)
	}
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

func (r *memSubRepo) ListExpiredTrials(_ context.Context) ([]*entity.CompanySubscription, error) {
	now := time.Now()
	var out []*entity.CompanySubscription
	for _, s := range r.subs {
		if s.DeletedAt == nil && s.TrialExpired(now) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memSubRepo) Delete(_ context.Context, id string) error {
	if s, ok := r.subs[id]; ok {
		now := time.Now()
		s.DeletedAt = &now
	}
	return nil
}

type memPlanRepo struct {
	plans map[string]*entity.Plan
}

func newMemPlanRepo(plans ...*entity.Plan) *memPlanRepo {
	r := &memPlanRepo{plans: map[string]*entity.Plan{}}
	for _, p := range plans {
		r.plans[p.ID] = p
	}
	return r
}

func (r *memPlanRepo) Create(_ context.Context, plan *entity.Plan) error {
	r.plans[plan.ID] = plan
	return nil
}

func (r *memPlanRepo) GetByID(_ context.Context, id string) (*entity.Plan, error) {
	p, ok := r.plans[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	return p, nil
}

func (r *memPlanRepo) GetByName(_ context.Context, name string) (*entity.Plan, error) {
	for _, p := range r.plans {
		if p.Name == name && p.DeletedAt == nil {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memPlanRepo) ListPublic(_ context.Context) ([]*entity.Plan, error) {
	var out []*entity.Plan
	for _, p := range r.plans {
		if p.Active && !p.InternalOnly && p.DeletedAt == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPlanRepo) Update(_ context.Context, plan *entity.Plan) error {
	r.plans[plan.ID] = plan
	return nil
}

func (r *memPlanRepo) Delete(_ context.Context, id string) error {
	if p, ok := r.plans[id]; ok {
		now := time.Now()
		p.DeletedAt = &now
	}
	return nil
}

type memHistoryRepo struct {
	rows map[string]*entity.PaymentHistory // chave: id interno
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{rows: map[string]*entity.PaymentHistory{}}
}

func (r *memHistoryRepo) Create(_ context.Context, p *entity.PaymentHistory) error {
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memHistoryRepo) GetByAsaasPaymentID(_ context.Context, asaasPaymentID string) (*entity.PaymentHistory, error) {
	for _, row := range r.rows {
		if row.AsaasPaymentID == asaasPaymentID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memHistoryRepo) Update(_ context.Context, p *entity.PaymentHistory) error {
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memHistoryRepo) ListBySubscription(_ context.Context, subscriptionID string, _, _ int) ([]*entity.PaymentHistory, error) {
	var out []*entity.PaymentHistory
	for _, row := range r.rows {
		if row.SubscriptionID == subscriptionID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memCompanyRepo struct {
	companies map[string]*entity.Company
}

func newMemCompanyRepo(companies ...*entity.Company) *memCompanyRepo {
	r := &memCompanyRepo{companies: map[string]*entity.Company{}}
	for _, c := range companies {
		r.companies[c.ID] = c
	}
	return r
}

func (r *memCompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.companies[c.ID] = c
	return nil
}

func (r *memCompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *memCompanyRepo) GetByCpfCnpj(_ context.Context, doc string) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.CpfCnpj == doc {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.companies[c.ID] = c
	return nil
}

func (r *memCompanyRepo) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out, nil
}

type memUserRepo struct {
	activeCount map[string]int // companyID -> usuários ativos
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{activeCount: map[string]int{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.activeCount[u.CompanyID]++
	return nil
}
func (r *memUserRepo) GetByID(_ context.Context, _ string) (*entity.User, error) { return nil, nil }
func (r *memUserRepo) FindByEmail(_ context.Context, _ string) (*entity.User, error) {
	return nil, nil
}
func (r *memUserRepo) GetByEmailAndCompany(_ context.Context, _, _ string) (*entity.User, error) {
	return nil, nil
}
func (r *memUserRepo) Update(_ context.Context, _ *entity.User) error { return nil }
func (r *memUserRepo) ListByCompany(_ context.Context, _ string, _, _ int) ([]*entity.User, error) {
	return nil, nil
}
func (r *memUserRepo) CountActiveByCompany(_ context.Context, companyID string) (int, error) {
	return r.activeCount[companyID], nil
}
func (r *memUserRepo) Delete(_ context.Context, _ string) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Gateway fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	customers   map[string]*appsub.GatewayCustomer // por id
	byDoc       map[string]*appsub.GatewayCustomer // por CPF/CNPJ
	payments    []appsub.CreatePaymentInput
	pixRequests []string // ids de cobrança com QR code solicitado
	nextPayID   int

	failUpdateSubscription bool
	failCancelSubscription bool
	cancelledSubs          []string
	createdSubs            []appsub.CreateSubscriptionInput
	updatedValues          map[string]decimal.Decimal
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		customers:     map[string]*appsub.GatewayCustomer{},
		byDoc:         map[string]*appsub.GatewayCustomer{},
		updatedValues: map[string]decimal.Decimal{},
	}
}

func (g *fakeGateway) addCustomer(id, doc string) {
	c := &appsub.GatewayCustomer{ID: id, CpfCnpj: doc}
	g.customers[id] = c
	g.byDoc[doc] = c
}

func (g *fakeGateway) CreateCustomer(_ context.Context, in appsub.CreateCustomerInput) (*appsub.GatewayCustomer, error) {
	c := &appsub.GatewayCustomer{
		ID:      fmt.Sprintf("cus_%06d", len(g.customers)+1),
		Name:    in.Name,
		CpfCnpj: in.CpfCnpj,
		Email:   in.Email,
	}
	g.customers[c.ID] = c
	g.byDoc[c.CpfCnpj] = c
	return c, nil
}

func (g *fakeGateway) GetCustomer(_ context.Context, id string) (*appsub.GatewayCustomer, error) {
	c, ok := g.customers[id]
	if !ok {
		return nil, fmt.Errorf("cliente %s não encontrado no gateway", id)
	}
	return c, nil
}

func (g *fakeGateway) FindCustomerByCpfCnpj(_ context.Context, doc string) (*appsub.GatewayCustomer, error) {
	return g.byDoc[doc], nil
}

func (g *fakeGateway) CreatePayment(_ context.Context, in appsub.CreatePaymentInput) (*appsub.GatewayPayment, error) {
	g.payments = append(g.payments, in)
	g.nextPayID++
	due := in.DueDate
	return &appsub.GatewayPayment{
		ID:                fmt.Sprintf("pay_%06d", g.nextPayID),
		CustomerID:        in.CustomerID,
		Value:             in.Value,
		Status:            "PENDING",
		BillingType:       in.BillingType,
		InvoiceURL:        fmt.Sprintf("https://sandbox.asaas.com/i/pay_%06d", g.nextPayID),
		ExternalReference: in.ExternalReference,
		DueDate:           &due,
		Description:       in.Description,
	}, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, id string) (*appsub.GatewayPayment, error) {
	return &appsub.GatewayPayment{ID: id, Status: "PENDING"}, nil
}

func (g *fakeGateway) DeletePayment(_ context.Context, _ string) error { return nil }

func (g *fakeGateway) ListPaymentsByCustomer(_ context.Context, _ string) ([]*appsub.GatewayPayment, error) {
	return nil, nil
}

func (g *fakeGateway) GetPixQrCode(_ context.Context, paymentID string) (*appsub.GatewayPixQrCode, error) {
	g.pixRequests = append(g.pixRequests, paymentID)
	return &appsub.GatewayPixQrCode{
		EncodedImage: "aW1nLXBpeA==",
		Payload:      "00020126pix-copia-e-cola",
	}, nil
}

func (g *fakeGateway) CreateSubscription(_ context.Context, in appsub.CreateSubscriptionInput) (*appsub.GatewaySubscription, error) {
	g.createdSubs = append(g.createdSubs, in)
	due := in.NextDueDate
	return &appsub.GatewaySubscription{
		ID:          fmt.Sprintf("sub_%06d", len(g.createdSubs)),
		CustomerID:  in.CustomerID,
		Value:       in.Value,
		Status:      "ACTIVE",
		Cycle:       in.Cycle,
		NextDueDate: &due,
	}, nil
}

func (g *fakeGateway) UpdateSubscriptionValue(_ context.Context, subID string, value decimal.Decimal) error {
	if g.failUpdateSubscription {
		return fmt.Errorf("gateway indisponível")
	}
	g.updatedValues[subID] = value
	return nil
}

func (g *fakeGateway) CancelSubscription(_ context.Context, subID string) error {
	if g.failCancelSubscription {
		return fmt.Errorf("gateway indisponível")
	}
	g.cancelledSubs = append(g.cancelledSubs, subID)
	return nil
}

func (g *fakeGateway) ListSubscriptionsByCustomer(_ context.Context, _ string) ([]*appsub.GatewaySubscription, error) {
	return nil, nil
}

func (g *fakeGateway) ListSubscriptionPayments(_ context.Context, _ string) ([]*appsub.GatewayPayment, error) {
	return nil, nil
}
