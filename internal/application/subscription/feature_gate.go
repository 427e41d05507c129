package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/caixapro/pdv-api/internal/application/dto"
	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/internal/domain/repository"
)

// Capacidades controladas por plano.
const (
	FeatureCreateProducts = "create_products"
	FeatureCheckout       = "checkout"
	FeatureSales          = "sales"
	FeatureReports        = "reports"
	FeatureExpenses       = "expenses"
	FeatureMultiUser      = "multi_user"
	FeatureExclusionFlow  = "exclusion_workflow"
)

// basicFeatures exigem pelo menos o plano inicial; o restante exige profissional.
var basicFeatures = map[string]bool{
	FeatureCreateProducts: true,
	FeatureCheckout:       true,
	FeatureSales:          true,
}

// readonlyAllowList features permitidas em readonly/past_due independente do plano.
var readonlyAllowList = map[string]bool{
	FeatureCheckout: true,
	FeatureSales:    true,
}

// FeatureGate decide, em função de (assinatura, plano, agora), se uma empresa
// pode usar uma capacidade ou adicionar usuários. Função pura sobre o estado
// carregado: nenhuma mutação acontece aqui (o sweep é quem rebaixa trials).
type FeatureGate struct {
	subRepo  repository.SubscriptionRepository
	planRepo repository.PlanRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewFeatureGate constrói o gate com as portas de persistência.
func NewFeatureGate(subRepo repository.SubscriptionRepository, planRepo repository.PlanRepository, userRepo repository.UserRepository) *FeatureGate {
	return &FeatureGate{subRepo: subRepo, planRepo: planRepo, userRepo: userRepo, now: time.Now}
}

// WithClock substitui o relógio (testes).
func (g *FeatureGate) WithClock(now func() time.Time) *FeatureGate {
	g.now = now
	return g
}

// planRequiredFor devolve o plano mínimo que habilita a feature.
func planRequiredFor(feature string) string {
	if basicFeatures[feature] {
		return entity.PlanInicial
	}
	return entity.PlanProfissional
}

// nextPlanUp devolve o próximo nível acima do plano dado (para limite de usuários).
func nextPlanUp(planName string) string {
	switch planName {
	case entity.PlanFreeTrial, entity.PlanInicial:
		return entity.PlanProfissional
	default:
		return entity.PlanEmpresarial
	}
}

// load carrega assinatura + plano da empresa. Assinatura ausente não é erro:
// devolve (nil, nil, nil) e o chamador nega acesso.
func (g *FeatureGate) load(ctx context.Context, companyID string) (*entity.CompanySubscription, *entity.Plan, error) {
	sub, err := g.subRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("carregar assinatura: %w", err)
	}
	if sub == nil {
		return nil, nil, nil
	}
	plan, err := g.planRepo.GetByID(ctx, sub.PlanID)
	if err != nil {
		return nil, nil, fmt.Errorf("carregar plano: %w", err)
	}
	if plan == nil {
		return nil, nil, nil
	}
	return sub, plan, nil
}

// CheckFeature decide se a empresa pode usar a feature.
//
// Ordem de avaliação:
//  1. sem assinatura (ou plano) -> negado
//  2. plano vitalício (never_expires) -> consulta direta ao mapa de features
//  3. cancelada -> negado
//  4. trial vencido (avaliação preguiçosa, antes do sweep) -> negado, plano mínimo inicial
//  5. readonly/past_due -> apenas allow-list (checkout, sales)
//  6. mapa de features do plano
func (g *FeatureGate) CheckFeature(ctx context.Context, companyID, feature string) (*dto.FeatureCheckResponse, error) {
	sub, plan, err := g.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil || plan == nil {
		return &dto.FeatureCheckResponse{
			Allowed:      false,
			Reason:       "empresa sem assinatura",
			PlanRequired: entity.PlanInicial,
		}, nil
	}

	if plan.NeverExpires {
		return g.checkPlanMap(plan, feature), nil
	}

	switch {
	case sub.Status == entity.StatusCancelled || sub.Status == entity.StatusExpired:
		return &dto.FeatureCheckResponse{
			Allowed:      false,
			Reason:       "assinatura cancelada",
			PlanRequired: planRequiredFor(feature),
		}, nil

	case sub.TrialExpired(g.now()):
		return &dto.FeatureCheckResponse{
			Allowed:      false,
			Reason:       "período de teste encerrado — assine um plano para continuar",
			PlanRequired: entity.PlanInicial,
		}, nil

	case sub.Status == entity.StatusReadonly || sub.Status == entity.StatusPastDue:
		if readonlyAllowList[feature] {
			return &dto.FeatureCheckResponse{Allowed: true}, nil
		}
		reason := "período de teste encerrado — acesso somente leitura"
		if sub.Status == entity.StatusPastDue {
			reason = "pagamento em atraso — regularize para recuperar o acesso"
		}
		return &dto.FeatureCheckResponse{
			Allowed:      false,
			Reason:       reason,
			PlanRequired: planRequiredFor(feature),
		}, nil
	}

	return g.checkPlanMap(plan, feature), nil
}

func (g *FeatureGate) checkPlanMap(plan *entity.Plan, feature string) *dto.FeatureCheckResponse {
	if plan.HasFeature(feature) {
		return &dto.FeatureCheckResponse{Allowed: true}
	}
	return &dto.FeatureCheckResponse{
		Allowed:      false,
		Reason:       fmt.Sprintf("o plano %s não inclui esta funcionalidade", plan.DisplayName),
		PlanRequired: planRequiredFor(feature),
	}
}

// CanAddUser verifica o limite de usuários do plano.
// max_users = -1 significa ilimitado; no limite ou acima, nega indicando o próximo nível.
func (g *FeatureGate) CanAddUser(ctx context.Context, companyID string) (*dto.FeatureCheckResponse, error) {
	sub, plan, err := g.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil || plan == nil {
		return &dto.FeatureCheckResponse{
			Allowed:      false,
			Reason:       "empresa sem assinatura",
			PlanRequired: entity.PlanInicial,
		}, nil
	}
	if plan.UnlimitedUsers() {
		return &dto.FeatureCheckResponse{Allowed: true}, nil
	}
	count, err := g.userRepo.CountActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("contar usuários: %w", err)
	}
	if count >= plan.MaxUsers {
		return &dto.FeatureCheckResponse{
			Allowed:      false,
			Reason:       fmt.Sprintf("limite de %d usuários do plano %s atingido", plan.MaxUsers, plan.DisplayName),
			PlanRequired: nextPlanUp(plan.Name),
		}, nil
	}
	return &dto.FeatureCheckResponse{Allowed: true}, nil
}

// effectiveStatus aplica ao status armazenado o mesmo raciocínio do CheckFeature:
// plano vitalício força active; trial vencido conta como readonly (resultado que o sweep produzirá).
func (g *FeatureGate) effectiveStatus(sub *entity.CompanySubscription, plan *entity.Plan) entity.SubscriptionStatus {
	if plan.NeverExpires {
		return entity.StatusActive
	}
	if sub.TrialExpired(g.now()) {
		return entity.StatusReadonly
	}
	return sub.Status
}

// GetSubscriptionInfo projeção de leitura consistente com o gate (sem lógica própria).
func (g *FeatureGate) GetSubscriptionInfo(ctx context.Context, companyID string) (*dto.SubscriptionInfoResponse, error) {
	sub, plan, err := g.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil || plan == nil {
		return nil, nil
	}
	status := g.effectiveStatus(sub, plan)
	canAccess := status != entity.StatusCancelled && status != entity.StatusExpired
	return &dto.SubscriptionInfoResponse{
		SubscriptionID:  sub.ID,
		PlanName:        plan.Name,
		PlanDisplayName: plan.DisplayName,
		Status:          string(status),
		Features:        g.availableFeatures(status, plan),
		CanAccess:       canAccess,
		TrialEndsAt:     sub.TrialEndsAt,
		PeriodStart:     sub.CurrentPeriodStart,
		PeriodEnd:       sub.CurrentPeriodEnd,
	}, nil
}

// GetAvailableFeatures devolve o mapa de features efetivo para a empresa.
func (g *FeatureGate) GetAvailableFeatures(ctx context.Context, companyID string) (map[string]bool, error) {
	sub, plan, err := g.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil || plan == nil {
		return map[string]bool{}, nil
	}
	return g.availableFeatures(g.effectiveStatus(sub, plan), plan), nil
}

func (g *FeatureGate) availableFeatures(status entity.SubscriptionStatus, plan *entity.Plan) map[string]bool {
	out := make(map[string]bool, len(plan.Features))
	switch status {
	case entity.StatusCancelled, entity.StatusExpired:
		return out
	case entity.StatusReadonly, entity.StatusPastDue:
		for f := range readonlyAllowList {
			out[f] = true
		}
		return out
	}
	for f, enabled := range plan.Features {
		if enabled {
			out[f] = true
		}
	}
	return out
}
