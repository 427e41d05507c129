package subscription

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// GatewayCustomer cliente no gateway de cobrança.
type GatewayCustomer struct {
	ID      string
	Name    string
	CpfCnpj string
	Email   string
}

// GatewayPayment cobrança no gateway.
type GatewayPayment struct {
	ID                string
	CustomerID        string
	SubscriptionID    string
	Value             decimal.Decimal
	Status            string // status bruto do gateway (PENDING, CONFIRMED, RECEIVED, OVERDUE...)
	BillingType       string
	InvoiceURL        string
	ExternalReference string
	DueDate           *time.Time
	PaymentDate       *time.Time
	Description       string
}

// GatewaySubscription assinatura recorrente no gateway.
type GatewaySubscription struct {
	ID          string
	CustomerID  string
	Value       decimal.Decimal
	Status      string // ACTIVE, INACTIVE, EXPIRED
	Cycle       string // MONTHLY, YEARLY
	NextDueDate *time.Time
}

// GatewayPixQrCode QR code PIX de uma cobrança.
type GatewayPixQrCode struct {
	EncodedImage   string // PNG em base64
	Payload        string // copia-e-cola
	ExpirationDate string
}

// CreateCustomerInput dados para criar um cliente no gateway.
type CreateCustomerInput struct {
	Name    string
	CpfCnpj string
	Email   string
}

// CreateSubscriptionInput dados para criar uma assinatura recorrente no gateway.
type CreateSubscriptionInput struct {
	CustomerID        string
	Value             decimal.Decimal
	BillingType       string // UNDEFINED deixa o pagador escolher no checkout
	Cycle             string // MONTHLY, YEARLY
	NextDueDate       time.Time
	Description       string
	ExternalReference string
}

// CreatePaymentInput dados para criar uma cobrança avulsa no gateway.
type CreatePaymentInput struct {
	CustomerID        string
	Value             decimal.Decimal
	BillingType       string // UNDEFINED deixa o pagador escolher no checkout
	DueDate           time.Time
	Description       string
	ExternalReference string
}

// BillingGateway porta de saída para o gateway de cobrança (Asaas).
// A implementação concreta vive em infrastructure/asaas; para testes injeta-se um fake.
// Erros de comunicação/resposta são normalizados em *asaas.GatewayError pelo adaptador.
type BillingGateway interface {
	CreateCustomer(ctx context.Context, in CreateCustomerInput) (*GatewayCustomer, error)
	GetCustomer(ctx context.Context, id string) (*GatewayCustomer, error)
	// FindCustomerByCpfCnpj devolve (nil, nil) quando não há cliente com o documento.
	FindCustomerByCpfCnpj(ctx context.Context, cpfCnpj string) (*GatewayCustomer, error)

	CreatePayment(ctx context.Context, in CreatePaymentInput) (*GatewayPayment, error)
	GetPayment(ctx context.Context, id string) (*GatewayPayment, error)
	DeletePayment(ctx context.Context, id string) error
	ListPaymentsByCustomer(ctx context.Context, customerID string) ([]*GatewayPayment, error)
	GetPixQrCode(ctx context.Context, paymentID string) (*GatewayPixQrCode, error)

	CreateSubscription(ctx context.Context, in CreateSubscriptionInput) (*GatewaySubscription, error)
	UpdateSubscriptionValue(ctx context.Context, subscriptionID string, value decimal.Decimal) error
	CancelSubscription(ctx context.Context, subscriptionID string) error
	ListSubscriptionsByCustomer(ctx context.Context, customerID string) ([]*GatewaySubscription, error)
	ListSubscriptionPayments(ctx context.Context, subscriptionID string) ([]*GatewayPayment, error)
}
