package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caixapro/pdv-api/internal/application/dto"
	"github.com/caixapro/pdv-api/internal/application/subscription"
	"github.com/caixapro/pdv-api/pkg/logger"
)

// WebhookHandler recebe os eventos assíncronos do gateway de cobrança.
//
// Contrato com o provedor: qualquer corpo aceito pela rota responde HTTP 200,
// mesmo quando o processamento falha — caso contrário o Asaas reenvia o evento
// indefinidamente e pode pausar a fila de webhooks. Erros são registrados e o
// ack indica error=true.
type WebhookHandler struct {
	ingestor *subscription.Ingestor
	token    string // segredo compartilhado; vazio desliga a verificação
	log      *logger.Logger
}

// NewWebhookHandler constrói o handler de webhooks.
func NewWebhookHandler(ingestor *subscription.Ingestor, token string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{ingestor: ingestor, token: token, log: log}
}

// Liveness godoc
// @Summary      Verificação de vida do endpoint de webhooks
// @Tags         webhooks
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /asaas-webhooks [get]
func (h *WebhookHandler) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Receive godoc
// @Summary      Receber evento do Asaas
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        asaas-access-token  header  string  false  "Segredo compartilhado configurado no painel do Asaas"
// @Success      200  {object}  dto.WebhookAckResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /asaas-webhooks [post]
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	if h.token != "" && c.Get("asaas-access-token") != h.token {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_WEBHOOK_TOKEN", Message: "token do webhook inválido"})
	}

	var event subscription.WebhookEvent
	if err := c.BodyParser(&event); err != nil {
		h.log.Warn().Err(err).Msg("webhook com corpo ilegível")
		return c.JSON(dto.WebhookAckResponse{Received: true, Error: true})
	}

	if err := h.ingestor.Process(c.Context(), &event); err != nil {
		h.log.Error().Err(err).Str("event", event.Event).Msg("falha ao processar webhook")
		return c.JSON(dto.WebhookAckResponse{Received: true, Event: event.Event, Error: true})
	}
	return c.JSON(dto.WebhookAckResponse{Received: true, Event: event.Event})
}
