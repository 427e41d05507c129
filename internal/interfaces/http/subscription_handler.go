package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caixapro/pdv-api/internal/application/dto"
	"github.com/caixapro/pdv-api/internal/application/subscription"
)

// SubscriptionHandler consultas de assinatura, upgrade via link de pagamento,
// troca administrativa, cancelamento e cobranças avulsas.
type SubscriptionHandler struct {
	gate *subscription.FeatureGate
	orch *subscription.Orchestrator
}

// NewSubscriptionHandler constrói o handler de assinaturas.
func NewSubscriptionHandler(gate *subscription.FeatureGate, orch *subscription.Orchestrator) *SubscriptionHandler {
	return &SubscriptionHandler{gate: gate, orch: orch}
}

// Features godoc
// @Summary      Plano efetivo, status e mapa de features da empresa
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID da empresa"
// @Success      200  {object}  dto.SubscriptionInfoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/features/{companyId} [get]
func (h *SubscriptionHandler) Features(c *fiber.Ctx) error {
	companyID := c.Params("companyId")
	out, err := h.gate.GetSubscriptionInfo(c.Context(), companyID)
	if err != nil {
		return handleDomainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa sem assinatura"})
	}
	return c.JSON(out)
}

// Info godoc
// @Summary      Situação da assinatura da empresa
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID da empresa"
// @Success      200  {object}  dto.SubscriptionInfoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{companyId} [get]
func (h *SubscriptionHandler) Info(c *fiber.Ctx) error {
	companyID := c.Params("companyId")
	out, err := h.gate.GetSubscriptionInfo(c.Context(), companyID)
	if err != nil {
		return handleDomainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa sem assinatura"})
	}
	return c.JSON(out)
}

// ChangePlan godoc
// @Summary      Solicitar upgrade de plano (gera link de pagamento)
// @Description  O plano só muda quando o webhook confirmar o pagamento.
// @Tags         subscriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID da empresa"
// @Param        body  body  dto.RequestUpgradeRequest  true  "Plano e período desejados"
// @Success      200   {object}  dto.RequestUpgradeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{companyId}/change-plan [put]
func (h *SubscriptionHandler) ChangePlan(c *fiber.Ctx) error {
	companyID := c.Params("companyId")
	var in dto.RequestUpgradeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.PlanID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "plan_id é obrigatório"})
	}
	out, err := h.orch.RequestPlanUpgrade(c.Context(), companyID, in.PlanID, in.BillingPeriod, in.TotalAmount)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// ChangePlanAdmin godoc
// @Summary      Trocar o plano imediatamente (rota privilegiada)
// @Tags         subscriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da assinatura"
// @Param        body  body  dto.ChangePlanAdminRequest  true  "Novo plano"
// @Success      200   {object}  dto.ChangePlanAdminResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{id}/change-plan-admin [put]
func (h *SubscriptionHandler) ChangePlanAdmin(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ChangePlanAdminRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.PlanID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "plan_id é obrigatório"})
	}
	sub, err := h.orch.ChangePlanAdmin(c.Context(), GetCompanyID(c), id, in.PlanID)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(dto.ChangePlanAdminResponse{
		SubscriptionID: sub.ID,
		PlanID:         sub.PlanID,
		Status:         string(sub.Status),
		PeriodStart:    sub.CurrentPeriodStart,
		PeriodEnd:      sub.CurrentPeriodEnd,
	})
}

// Cancel godoc
// @Summary      Cancelar a assinatura
// @Tags         subscriptions
// @Security     Bearer
// @Param        id  path  string  true  "ID da assinatura"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{id} [delete]
func (h *SubscriptionHandler) Cancel(c *fiber.Ctx) error {
	if err := h.orch.CancelSubscription(c.Context(), GetCompanyID(c), c.Params("id")); err != nil {
		return handleDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreatePayment godoc
// @Summary      Criar cobrança avulsa (sem efeito sobre o plano)
// @Tags         subscriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID da empresa"
// @Param        body  body  dto.SinglePaymentRequest  true  "Valor e descrição"
// @Success      201   {object}  dto.SinglePaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{companyId}/payments [post]
func (h *SubscriptionHandler) CreatePayment(c *fiber.Ctx) error {
	companyID := c.Params("companyId")
	var in dto.SinglePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.orch.CreateSinglePayment(c.Context(), companyID, in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPayments godoc
// @Summary      Histórico de cobranças da empresa
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID da empresa"
// @Param        limit   query  int  false  "Limite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.PaymentHistoryResponse
// @Router       /api/subscriptions/{companyId}/payments [get]
func (h *SubscriptionHandler) ListPayments(c *fiber.Ctx) error {
	companyID := c.Params("companyId")
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.orch.ListPaymentHistory(c.Context(), companyID, page.Limit, page.Offset)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}
