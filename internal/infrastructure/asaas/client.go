// Package asaas implementa o adaptador HTTP do gateway de cobrança Asaas
// (https://docs.asaas.com). Implementa subscription.BillingGateway.
//
// Todas as respostas não-2xx são normalizadas em *GatewayError; o corpo de
// erro do Asaas ({"errors":[{"code","description"}]}) é parseado quando
// possível e substituído por uma mensagem genérica quando não.
package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixapro/pdv-api/internal/application/subscription"
	"github.com/caixapro/pdv-api/pkg/config"
	"github.com/caixapro/pdv-api/pkg/logger"
)

const (
	baseURLProduction = "https://api.asaas.com/v3"
	baseURLSandbox    = "https://sandbox.asaas.com/api/v3"

	dateLayout = "2006-01-02"
)

var _ subscription.BillingGateway = (*Client)(nil)

// GatewayError erro normalizado de uma chamada ao Asaas.
type GatewayError struct {
	StatusCode  int
	Description string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("asaas: HTTP %d: %s", e.StatusCode, e.Description)
}

// Client cliente HTTP do Asaas. Autentica com o header access_token.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient constrói o cliente a partir da configuração.
// Environment "production" usa a API real; qualquer outro valor usa o sandbox.
func NewClient(cfg config.AsaasConfig, log *logger.Logger) *Client {
	baseURL := baseURLSandbox
	if cfg.Environment == "production" {
		baseURL = baseURLProduction
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// ── Payloads da API ───────────────────────────────────────────────────────────

type apiCustomer struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	CpfCnpj string `json:"cpfCnpj"`
	Email   string `json:"email,omitempty"`
}

type apiPayment struct {
	ID                string          `json:"id,omitempty"`
	Customer          string          `json:"customer"`
	Subscription      string          `json:"subscription,omitempty"`
	Value             decimal.Decimal `json:"value"`
	Status            string          `json:"status,omitempty"`
	BillingType       string          `json:"billingType"`
	InvoiceURL        string          `json:"invoiceUrl,omitempty"`
	ExternalReference string          `json:"externalReference,omitempty"`
	DueDate           string          `json:"dueDate"`
	PaymentDate       string          `json:"paymentDate,omitempty"`
	Description       string          `json:"description,omitempty"`
}

type apiSubscription struct {
	ID                string          `json:"id,omitempty"`
	Customer          string          `json:"customer"`
	Value             decimal.Decimal `json:"value"`
	Status            string          `json:"status,omitempty"`
	BillingType       string          `json:"billingType,omitempty"`
	Cycle             string          `json:"cycle,omitempty"`
	NextDueDate       string          `json:"nextDueDate,omitempty"`
	Description       string          `json:"description,omitempty"`
	ExternalReference string          `json:"externalReference,omitempty"`
}

type apiPixQrCode struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

// apiList envelope de paginação do Asaas.
type apiList[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"totalCount"`
}

type apiErrorBody struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// CreateCustomer cria um cliente no gateway.
func (c *Client) CreateCustomer(ctx context.Context, in subscription.CreateCustomerInput) (*subscription.GatewayCustomer, error) {
	var out apiCustomer
	err := c.do(ctx, http.MethodPost, "/customers", apiCustomer{
		Name:    in.Name,
		CpfCnpj: in.CpfCnpj,
		Email:   in.Email,
	}, &out)
	if err != nil {
		return nil, err
	}
	return toGatewayCustomer(out), nil
}

// GetCustomer busca um cliente pelo id.
func (c *Client) GetCustomer(ctx context.Context, id string) (*subscription.GatewayCustomer, error) {
	var out apiCustomer
	if err := c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return toGatewayCustomer(out), nil
}

// FindCustomerByCpfCnpj busca pelo documento; (nil, nil) quando não há cliente.
func (c *Client) FindCustomerByCpfCnpj(ctx context.Context, cpfCnpj string) (*subscription.GatewayCustomer, error) {
	var out apiList[apiCustomer]
	path := "/customers?cpfCnpj=" + url.QueryEscape(cpfCnpj)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	return toGatewayCustomer(out.Data[0]), nil
}

// ── Cobranças ─────────────────────────────────────────────────────────────────

// CreatePayment cria uma cobrança avulsa.
func (c *Client) CreatePayment(ctx context.Context, in subscription.CreatePaymentInput) (*subscription.GatewayPayment, error) {
	var out apiPayment
	err := c.do(ctx, http.MethodPost, "/payments", apiPayment{
		Customer:          in.CustomerID,
		Value:             in.Value,
		BillingType:       in.BillingType,
		DueDate:           in.DueDate.Format(dateLayout),
		Description:       in.Description,
		ExternalReference: in.ExternalReference,
	}, &out)
	if err != nil {
		return nil, err
	}
	return toGatewayPayment(out), nil
}

// GetPayment busca uma cobrança pelo id.
func (c *Client) GetPayment(ctx context.Context, id string) (*subscription.GatewayPayment, error) {
	var out apiPayment
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return toGatewayPayment(out), nil
}

// DeletePayment remove uma cobrança ainda não paga.
func (c *Client) DeletePayment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/payments/"+url.PathEscape(id), nil, nil)
}

// ListPaymentsByCustomer lista as cobranças de um cliente.
func (c *Client) ListPaymentsByCustomer(ctx context.Context, customerID string) ([]*subscription.GatewayPayment, error) {
	var out apiList[apiPayment]
	path := "/payments?customer=" + url.QueryEscape(customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return toGatewayPayments(out.Data), nil
}

// GetPixQrCode devolve o QR code PIX de uma cobrança.
func (c *Client) GetPixQrCode(ctx context.Context, paymentID string) (*subscription.GatewayPixQrCode, error) {
	var out apiPixQrCode
	path := "/payments/" + url.PathEscape(paymentID) + "/pixQrCode"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &subscription.GatewayPixQrCode{
		EncodedImage:   out.EncodedImage,
		Payload:        out.Payload,
		ExpirationDate: out.ExpirationDate,
	}, nil
}

// ── Assinaturas ───────────────────────────────────────────────────────────────

// CreateSubscription cria uma assinatura recorrente no gateway.
func (c *Client) CreateSubscription(ctx context.Context, in subscription.CreateSubscriptionInput) (*subscription.GatewaySubscription, error) {
	var out apiSubscription
	err := c.do(ctx, http.MethodPost, "/subscriptions", apiSubscription{
		Customer:          in.CustomerID,
		Value:             in.Value,
		BillingType:       in.BillingType,
		Cycle:             in.Cycle,
		NextDueDate:       in.NextDueDate.Format(dateLayout),
		Description:       in.Description,
		ExternalReference: in.ExternalReference,
	}, &out)
	if err != nil {
		return nil, err
	}
	return toGatewaySubscription(out), nil
}

// UpdateSubscriptionValue atualiza o valor da recorrência.
func (c *Client) UpdateSubscriptionValue(ctx context.Context, subscriptionID string, value decimal.Decimal) error {
	body := map[string]any{"value": value}
	return c.do(ctx, http.MethodPut, "/subscriptions/"+url.PathEscape(subscriptionID), body, nil)
}

// CancelSubscription remove a assinatura recorrente no gateway.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	return c.do(ctx, http.MethodDelete, "/subscriptions/"+url.PathEscape(subscriptionID), nil, nil)
}

// ListSubscriptionsByCustomer lista as assinaturas de um cliente.
func (c *Client) ListSubscriptionsByCustomer(ctx context.Context, customerID string) ([]*subscription.GatewaySubscription, error) {
	var out apiList[apiSubscription]
	path := "/subscriptions?customer=" + url.QueryEscape(customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	subs := make([]*subscription.GatewaySubscription, 0, len(out.Data))
	for _, s := range out.Data {
		subs = append(subs, toGatewaySubscription(s))
	}
	return subs, nil
}

// ListSubscriptionPayments lista as cobranças geradas por uma assinatura.
func (c *Client) ListSubscriptionPayments(ctx context.Context, subscriptionID string) ([]*subscription.GatewayPayment, error) {
	var out apiList[apiPayment]
	path := "/subscriptions/" + url.PathEscape(subscriptionID) + "/payments"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return toGatewayPayments(out.Data), nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

// do executa a chamada, normaliza erros em *GatewayError e decodifica em out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("asaas: serializar corpo: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("asaas: criar request: %w", err)
	}
	req.Header.Set("access_token", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("asaas: timeout ou cancelamento: %w", ctx.Err())
		}
		return fmt.Errorf("asaas: chamada HTTP falhou: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // máx. 1 MB
	if err != nil {
		return fmt.Errorf("asaas: ler resposta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.newGatewayError(resp.StatusCode, rawBody)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("asaas: decodificar resposta: %w", err)
	}
	return nil
}

// newGatewayError extrai a descrição do corpo de erro do Asaas; corpo
// não parseável vira uma mensagem genérica (nunca vaza o corpo cru).
func (c *Client) newGatewayError(status int, rawBody []byte) *GatewayError {
	var parsed apiErrorBody
	if err := json.Unmarshal(rawBody, &parsed); err == nil && len(parsed.Errors) > 0 {
		return &GatewayError{StatusCode: status, Description: parsed.Errors[0].Description}
	}
	c.log.Warn().Int("status", status).Msg("resposta de erro do asaas sem corpo parseável")
	return &GatewayError{StatusCode: status, Description: "erro não especificado do gateway de cobrança"}
}

func toGatewayCustomer(in apiCustomer) *subscription.GatewayCustomer {
	return &subscription.GatewayCustomer{
		ID:      in.ID,
		Name:    in.Name,
		CpfCnpj: in.CpfCnpj,
		Email:   in.Email,
	}
}

func toGatewaySubscription(in apiSubscription) *subscription.GatewaySubscription {
	return &subscription.GatewaySubscription{
		ID:          in.ID,
		CustomerID:  in.Customer,
		Value:       in.Value,
		Status:      in.Status,
		Cycle:       in.Cycle,
		NextDueDate: parseDateOpt(in.NextDueDate),
	}
}

func toGatewayPayments(in []apiPayment) []*subscription.GatewayPayment {
	out := make([]*subscription.GatewayPayment, 0, len(in))
	for _, p := range in {
		out = append(out, toGatewayPayment(p))
	}
	return out
}

func toGatewayPayment(in apiPayment) *subscription.GatewayPayment {
	return &subscription.GatewayPayment{
		ID:                in.ID,
		CustomerID:        in.Customer,
		SubscriptionID:    in.Subscription,
		Value:             in.Value,
		Status:            in.Status,
		BillingType:       in.BillingType,
		InvoiceURL:        in.InvoiceURL,
		ExternalReference: in.ExternalReference,
		DueDate:           parseDateOpt(in.DueDate),
		PaymentDate:       parseDateOpt(in.PaymentDate),
		Description:       in.Description,
	}
}

func parseDateOpt(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return &t
	}
	return nil
}
