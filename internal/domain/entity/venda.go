package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados do workflow de exclusão de vendas.
// Fluxo: (sem solicitação) -> pending -> approved | rejected.
const (
	ExclusionPending  = "pending"
	ExclusionApproved = "approved"
	ExclusionRejected = "rejected"
)

// Formas de pagamento de uma venda.
const (
	PayDinheiro = "dinheiro"
	PayCartao   = "cartao"
	PayPix      = "pix"
)

// VendaItem item de uma venda (snapshot do produto no momento da venda).
type VendaItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Venda registro de venda no caixa, com os campos do workflow de exclusão.
type Venda struct {
	ID            string
	CompanyID     string
	UserID        string
	CaixaID       string
	Items         []VendaItem
	PaymentMethod string // ver constantes Pay*
	Total         decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time // soft delete, efetivado pela aprovação da exclusão

	// Workflow de exclusão: solicitação -> aprovação/rejeição.
	ExclusionRequested   bool
	ExclusionRequestedAt *time.Time
	ExclusionRequestedBy string
	ExclusionReason      string
	ExclusionStatus      string // "", pending, approved, rejected
	ExclusionReviewedAt  *time.Time
	ExclusionReviewedBy  string
	ExclusionReviewNotes string
}

// HasPendingExclusion informa se há solicitação de exclusão aguardando revisão.
func (v *Venda) HasPendingExclusion() bool {
	return v.ExclusionStatus == ExclusionPending
}

// RequestExclusion abre uma solicitação de exclusão. Falha se já houver uma pendente.
func (v *Venda) RequestExclusion(userID, reason string, now time.Time) bool {
	if v.HasPendingExclusion() {
		return false
	}
	v.ExclusionRequested = true
	v.ExclusionRequestedAt = &now
	v.ExclusionRequestedBy = userID
	v.ExclusionReason = reason
	v.ExclusionStatus = ExclusionPending
	v.ExclusionReviewedAt = nil
	v.ExclusionReviewedBy = ""
	v.ExclusionReviewNotes = ""
	v.UpdatedAt = now
	return true
}

// ApproveExclusion aprova a solicitação pendente e marca a venda como deletada (soft delete).
func (v *Venda) ApproveExclusion(reviewerID string, now time.Time) bool {
	if !v.HasPendingExclusion() {
		return false
	}
	v.ExclusionStatus = ExclusionApproved
	v.ExclusionReviewedAt = &now
	v.ExclusionReviewedBy = reviewerID
	v.DeletedAt = &now
	v.UpdatedAt = now
	return true
}

// RejectExclusion rejeita a solicitação pendente mantendo a venda intacta.
// notes é obrigatório; a validação fica no caso de uso.
func (v *Venda) RejectExclusion(reviewerID, notes string, now time.Time) bool {
	if !v.HasPendingExclusion() {
		return false
	}
	v.ExclusionStatus = ExclusionRejected
	v.ExclusionReviewedAt = &now
	v.ExclusionReviewedBy = reviewerID
	v.ExclusionReviewNotes = notes
	v.UpdatedAt = now
	return true
}
