package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status de cobranças no histórico de pagamentos.
const (
	PaymentPending   = "pending"
	PaymentConfirmed = "confirmed"
	PaymentReceived  = "received"
	PaymentOverdue   = "overdue"
	PaymentRefunded  = "refunded"
	PaymentCancelled = "cancelled"
)

// PaymentHistory registro de uma cobrança individual do gateway vinculada a uma assinatura.
// Upsert pela chave AsaasPaymentID: a mesma cobrança nunca gera duas linhas.
type PaymentHistory struct {
	ID             string
	SubscriptionID string
	AsaasPaymentID string // id externo da cobrança (nulo até o gateway reportar)
	Amount         decimal.Decimal
	Status         string // ver constantes Payment*
	BillingType    string // BOLETO, CREDIT_CARD, PIX, UNDEFINED
	InvoiceURL     string // link da fatura/checkout
	PixPayload     string // código copia-e-cola PIX
	PixQrCode      string // imagem do QR em base64
	DueDate        *time.Time
	PaidAt         *time.Time
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
