package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Nomes canônicos de planos (coluna UNIQUE plans.name).
const (
	PlanFreeTrial    = "free_trial"
	PlanInicial      = "inicial"
	PlanProfissional = "profissional"
	PlanEmpresarial  = "empresarial"
	PlanVitalicio    = "vitalicio"
)

// Ciclos de cobrança.
const (
	CycleMonthly  = "monthly"
	CycleYearly   = "yearly"
	CycleCustom   = "custom"
	CycleLifetime = "lifetime"
)

// MaxUsersUnlimited valor sentinela para planos sem limite de usuários.
const MaxUsersUnlimited = -1

// Plan representa um nível de assinatura: preço, limite de usuários e mapa de features.
// Imutável após criação, exceto edições administrativas (trial_days, active).
type Plan struct {
	ID           string
	Name         string // único: free_trial, inicial, profissional, empresarial, vitalicio
	DisplayName  string
	Price        decimal.Decimal
	BillingCycle string          // ver constantes Cycle*
	MaxUsers     int             // -1 = ilimitado
	Features     map[string]bool // nome da capacidade -> habilitada
	Active       bool
	InternalOnly bool // oculto do catálogo público
	NeverExpires bool // planos vitalícios ignoram qualquer verificação de expiração
	TrialDays    int
	SortOrder    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time // soft delete
}

// HasFeature informa se o plano habilita a capacidade dada.
func (p *Plan) HasFeature(name string) bool {
	if p.Features == nil {
		return false
	}
	return p.Features[name]
}

// UnlimitedUsers informa se o plano não impõe limite de usuários.
func (p *Plan) UnlimitedUsers() bool {
	return p.MaxUsers == MaxUsersUnlimited
}

// IsFree informa se o plano não tem preço (trial gratuito).
func (p *Plan) IsFree() bool {
	return p.Price.IsZero()
}
