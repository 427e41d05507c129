package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caixapro/pdv-api/internal/application/dto"
	"github.com/caixapro/pdv-api/internal/domain"
	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/internal/domain/repository"
)

// PlanUseCase catálogo de planos: listagem pública, consulta e edição administrativa.
// Planos são imutáveis depois de criados, exceto trial_days e active.
type PlanUseCase struct {
	repo repository.PlanRepository
}

// NewPlanUseCase constrói o caso de uso.
func NewPlanUseCase(repo repository.PlanRepository) *PlanUseCase {
	return &PlanUseCase{repo: repo}
}

// ListPublic devolve os planos ativos e não internos, ordenados por sort_order.
func (uc *PlanUseCase) ListPublic(ctx context.Context) ([]*dto.PlanResponse, error) {
	plans, err := uc.repo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].SortOrder < plans[j].SortOrder })
	out := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	return out, nil
}

// GetByID devolve um plano pelo id; (nil, ErrPlanNotFound) se não existir.
func (uc *PlanUseCase) GetByID(ctx context.Context, id string) (*dto.PlanResponse, error) {
	plan, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	return toPlanResponse(plan), nil
}

// UpdateAdmin edição administrativa: somente trial_days e active podem mudar.
// Preço, features e limites são imutáveis para não alterar contratos vigentes.
func (uc *PlanUseCase) UpdateAdmin(ctx context.Context, id string, in dto.UpdatePlanAdminRequest) (*dto.PlanResponse, error) {
	plan, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	if in.TrialDays != nil {
		if *in.TrialDays < 0 {
			return nil, domain.ErrInvalidInput
		}
		plan.TrialDays = *in.TrialDays
	}
	if in.Active != nil {
		plan.Active = *in.Active
	}
	plan.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return toPlanResponse(plan), nil
}

// Seed garante os cinco planos canônicos no catálogo. Idempotente: planos
// já existentes (por nome) não são tocados.
func (uc *PlanUseCase) Seed(ctx context.Context) error {
	for _, p := range defaultPlans() {
		existing, err := uc.repo.GetByName(ctx, p.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		now := time.Now()
		p.ID = uuid.New().String()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := uc.repo.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func defaultPlans() []*entity.Plan {
	basic := map[string]bool{"create_products": true, "checkout": true, "sales": true}
	full := map[string]bool{
		"create_products": true, "checkout": true, "sales": true,
		"reports": true, "expenses": true, "multi_user": true, "exclusion_workflow": true,
	}
	return []*entity.Plan{
		{
			Name: entity.PlanFreeTrial, DisplayName: "Teste Grátis",
			Price: decimal.Zero, BillingCycle: entity.CycleMonthly,
			MaxUsers: 2, Features: basic, Active: true, TrialDays: 14, SortOrder: 0,
		},
		{
			Name: entity.PlanInicial, DisplayName: "Inicial",
			Price: decimal.NewFromInt(30), BillingCycle: entity.CycleMonthly,
			MaxUsers: 5, Features: basic, Active: true, SortOrder: 1,
		},
		{
			Name: entity.PlanProfissional, DisplayName: "Profissional",
			Price: decimal.NewFromInt(60), BillingCycle: entity.CycleMonthly,
			MaxUsers: 15, Features: full, Active: true, SortOrder: 2,
		},
		{
			Name: entity.PlanEmpresarial, DisplayName: "Empresarial",
			Price: decimal.NewFromInt(200), BillingCycle: entity.CycleCustom,
			MaxUsers: entity.MaxUsersUnlimited, Features: full, Active: true, SortOrder: 3,
		},
		{
			Name: entity.PlanVitalicio, DisplayName: "Vitalício",
			Price: decimal.Zero, BillingCycle: entity.CycleLifetime,
			MaxUsers: entity.MaxUsersUnlimited, Features: full,
			Active: true, InternalOnly: true, NeverExpires: true, SortOrder: 4,
		},
	}
}

func toPlanResponse(p *entity.Plan) *dto.PlanResponse {
	return &dto.PlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		DisplayName:  p.DisplayName,
		Price:        p.Price,
		BillingCycle: p.BillingCycle,
		MaxUsers:     p.MaxUsers,
		Features:     p.Features,
		TrialDays:    p.TrialDays,
		SortOrder:    p.SortOrder,
	}
}
