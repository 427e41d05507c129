package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanResponse plano exposto no catálogo público.
type PlanResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DisplayName  string          `json:"display_name"`
	Price        decimal.Decimal `json:"price"`
	BillingCycle string          `json:"billing_cycle"`
	MaxUsers     int             `json:"max_users"`
	Features     map[string]bool `json:"features"`
	TrialDays    int             `json:"trial_days"`
	SortOrder    int             `json:"sort_order"`
}

// UpdatePlanAdminRequest edição administrativa do plano (apenas trial_days e active).
type UpdatePlanAdminRequest struct {
	TrialDays *int  `json:"trial_days"`
	Active    *bool `json:"active"`
}

// FeatureCheckResponse decisão do gate para uma feature.
type FeatureCheckResponse struct {
	Allowed      bool   `json:"allowed"`
	Reason       string `json:"reason,omitempty"`
	PlanRequired string `json:"plan_required,omitempty"`
}

// SubscriptionInfoResponse projeção de leitura da assinatura de uma empresa.
type SubscriptionInfoResponse struct {
	SubscriptionID  string          `json:"subscription_id"`
	PlanName        string          `json:"plan_name"`
	PlanDisplayName string          `json:"plan_display_name"`
	Status          string          `json:"status"` // status efetivo (considera trial vencido e plano vitalício)
	Features        map[string]bool `json:"features"`
	CanAccess       bool            `json:"can_access"`
	TrialEndsAt     *time.Time      `json:"trial_ends_at,omitempty"`
	PeriodStart     *time.Time      `json:"current_period_start,omitempty"`
	PeriodEnd       *time.Time      `json:"current_period_end,omitempty"`
}

// RequestUpgradeRequest solicitação de upgrade de plano (gera link de pagamento).
type RequestUpgradeRequest struct {
	PlanID        string           `json:"plan_id"`
	BillingPeriod string           `json:"billing_period"` // monthly, quarterly, yearly
	TotalAmount   *decimal.Decimal `json:"total_amount,omitempty"`
}

// RequestUpgradeResponse link de pagamento gerado; o plano só muda após confirmação via webhook.
type RequestUpgradeResponse struct {
	PaymentID     string          `json:"payment_id"`
	PaymentLink   string          `json:"payment_link"`
	Amount        decimal.Decimal `json:"amount"`
	PendingPlanID string          `json:"pending_plan_id"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
}

// ChangePlanAdminRequest troca de plano imediata (rota privilegiada).
type ChangePlanAdminRequest struct {
	PlanID string `json:"plan_id"`
}

// ChangePlanAdminResponse estado da assinatura após a troca administrativa.
type ChangePlanAdminResponse struct {
	SubscriptionID string     `json:"subscription_id"`
	PlanID         string     `json:"plan_id"`
	Status         string     `json:"status"`
	PeriodStart    *time.Time `json:"current_period_start,omitempty"`
	PeriodEnd      *time.Time `json:"current_period_end,omitempty"`
}

// SinglePaymentRequest cobrança avulsa (sem efeito sobre o plano).
type SinglePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	BillingType string          `json:"billing_type"` // vazio = UNDEFINED
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

// SinglePaymentResponse resultado de uma cobrança avulsa.
type SinglePaymentResponse struct {
	PaymentID   string          `json:"payment_id"`
	PaymentLink string          `json:"payment_link"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	PixPayload  string          `json:"pix_payload,omitempty"`
	PixQrCode   string          `json:"pix_qr_code,omitempty"`
}

// PaymentHistoryResponse linha do histórico de cobranças.
type PaymentHistoryResponse struct {
	ID             string          `json:"id"`
	AsaasPaymentID string          `json:"asaas_payment_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	BillingType    string          `json:"billing_type,omitempty"`
	InvoiceURL     string          `json:"invoice_url,omitempty"`
	PixPayload     string          `json:"pix_payload,omitempty"`
	PixQrCode      string          `json:"pix_qr_code,omitempty"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	Description    string          `json:"description,omitempty"`
}

// WebhookAckResponse confirmação de recebimento do webhook (sempre HTTP 200).
type WebhookAckResponse struct {
	Received bool   `json:"received"`
	Event    string `json:"event"`
	Error    bool   `json:"error,omitempty"`
}
