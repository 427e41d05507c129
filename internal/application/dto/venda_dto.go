package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixapro/pdv-api/internal/domain/entity"
)

// CreateVendaRequest registro de venda no caixa aberto.
type CreateVendaRequest struct {
	Items         []VendaItemRequest `json:"items" validate:"required,min=1"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=dinheiro cartao pix"`
}

// VendaItemRequest item da venda; o preço vem do catálogo, não do cliente.
type VendaItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// VendaResponse venda com o estado do workflow de exclusão.
type VendaResponse struct {
	ID            string             `json:"id"`
	CaixaID       string             `json:"caixa_id"`
	UserID        string             `json:"user_id"`
	Items         []entity.VendaItem `json:"items"`
	PaymentMethod string             `json:"payment_method"`
	Total         decimal.Decimal    `json:"total"`
	CreatedAt     time.Time          `json:"created_at"`

	ExclusionStatus      string     `json:"exclusion_status,omitempty"`
	ExclusionReason      string     `json:"exclusion_reason,omitempty"`
	ExclusionRequestedBy string     `json:"exclusion_requested_by,omitempty"`
	ExclusionRequestedAt *time.Time `json:"exclusion_requested_at,omitempty"`
	ExclusionReviewedBy  string     `json:"exclusion_reviewed_by,omitempty"`
	ExclusionReviewedAt  *time.Time `json:"exclusion_reviewed_at,omitempty"`
	ExclusionReviewNotes string     `json:"exclusion_review_notes,omitempty"`
}

// RequestExclusionRequest solicitação de exclusão de venda.
type RequestExclusionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ReviewExclusionRequest decisão do revisor sobre a exclusão pendente.
// Notes é obrigatório na rejeição.
type ReviewExclusionRequest struct {
	Notes string `json:"notes"`
}
