package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixapro/pdv-api/internal/application/subscription"
	"github.com/caixapro/pdv-api/internal/domain/entity"
	apphttp "github.com/caixapro/pdv-api/internal/interfaces/http"
	"github.com/caixapro/pdv-api/pkg/logger"
)

// Stubs vazios das portas de persistência: eventos que não resolvem nenhuma
// assinatura são descartados sem erro, então o handler pode ser testado sem DB.
type stubSubRepo struct{}

func (stubSubRepo) Create(context.Context, *entity.CompanySubscription) error { return nil }
func (stubSubRepo) GetByID(context.Context, string) (*entity.CompanySubscription, error) {
	return nil, nil
}
func (stubSubRepo) GetByCompanyID(context.Context, string) (*entity.CompanySubscription, error) {
	return nil, nil
}
func (stubSubRepo) GetByAsaasSubscriptionID(context.Context, string) (*entity.CompanySubscription, error) {
	return nil, nil
}
func (stubSubRepo) GetByAsaasCustomerID(context.Context, string) (*entity.CompanySubscription, error) {
	return nil, nil
}
func (stubSubRepo) Update(context.Context, *entity.CompanySubscription) error { return nil }
func (stubSubRepo) ListExpiredTrials(context.Context) ([]*entity.CompanySubscription, error) {
	return nil, nil
}
func (stubSubRepo) Delete(context.Context, string) error { return nil }

type stubHistoryRepo struct{}

func (stubHistoryRepo) Create(context.Context, *entity.PaymentHistory) error { return nil }
func (stubHistoryRepo) GetByAsaasPaymentID(context.Context, string) (*entity.PaymentHistory, error) {
	return nil, nil
}
func (stubHistoryRepo) Update(context.Context, *entity.PaymentHistory) error { return nil }
func (stubHistoryRepo) ListBySubscription(context.Context, string, int, int) ([]*entity.PaymentHistory, error) {
	return nil, nil
}

func buildWebhookApp(token string) *fiber.App {
	ingestor := subscription.NewIngestor(stubSubRepo{}, stubHistoryRepo{}, logger.NewNop())
	handler := apphttp.NewWebhookHandler(ingestor, token, logger.NewNop())

	app := fiber.New()
	app.Get("/asaas-webhooks", handler.Liveness)
	app.Post("/asaas-webhooks", handler.Receive)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, token, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/asaas-webhooks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("asaas-access-token", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestWebhook_EventoValidoRespondeSempre200(t *testing.T) {
	app := buildWebhookApp("")
	body := `{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_123","value":30}}`

	resp := postWebhook(t, app, "", body)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var ack map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.Equal(t, true, ack["received"])
	assert.Equal(t, "PAYMENT_CONFIRMED", ack["event"])
}

func TestWebhook_EventoDesconhecidoResponde200(t *testing.T) {
	app := buildWebhookApp("")
	resp := postWebhook(t, app, "", `{"event":"PAYMENT_ANTICIPATED"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhook_CorpoIlegivelResponde200ComErro(t *testing.T) {
	app := buildWebhookApp("")
	resp := postWebhook(t, app, "", `{nao é json`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var ack map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.Equal(t, true, ack["error"])
}

func TestWebhook_TokenConfiguradoExigeHeader(t *testing.T) {
	app := buildWebhookApp("segredo-do-painel")

	// Sem header -> 401
	resp := postWebhook(t, app, "", `{"event":"PAYMENT_CONFIRMED"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Header errado -> 401
	resp = postWebhook(t, app, "token-errado", `{"event":"PAYMENT_CONFIRMED"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Header correto -> 200
	resp = postWebhook(t, app, "segredo-do-painel", `{"event":"PAYMENT_CONFIRMED"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhook_TokenVazioDesligaVerificacao(t *testing.T) {
	app := buildWebhookApp("")
	resp := postWebhook(t, app, "qualquer-coisa", `{"event":"PAYMENT_CONFIRMED"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhook_LivenessResponde200(t *testing.T) {
	app := buildWebhookApp("")
	req := httptest.NewRequest(http.MethodGet, "/asaas-webhooks", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
