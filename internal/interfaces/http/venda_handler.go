package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caixapro/pdv-api/internal/application/dto"
	"github.com/caixapro/pdv-api/internal/application/usecase"
)

// VendaHandler registro de vendas e o workflow de exclusão com aprovação.
type VendaHandler struct {
	uc *usecase.VendaUseCase
}

// NewVendaHandler constrói o handler de vendas.
func NewVendaHandler(uc *usecase.VendaUseCase) *VendaHandler {
	return &VendaHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venda no caixa aberto
// @Tags         vendas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVendaRequest  true  "Itens e forma de pagamento"
// @Success      201   {object}  dto.VendaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/vendas [post]
func (h *VendaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVendaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar vendas da empresa
// @Tags         vendas
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Limite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.VendaResponse
// @Router       /api/vendas [get]
func (h *VendaHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListByCompany(c.Context(), GetCompanyID(c), page)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obter venda por ID
// @Tags         vendas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da venda"
// @Success      200  {object}  dto.VendaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vendas/{id} [get]
func (h *VendaHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// RequestExclusion godoc
// @Summary      Solicitar exclusão de venda (exige aprovação)
// @Tags         vendas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da venda"
// @Param        body  body  dto.RequestExclusionRequest  true  "Motivo da exclusão"
// @Success      200   {object}  dto.VendaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vendas/{id}/exclusion [post]
func (h *VendaHandler) RequestExclusion(c *fiber.Ctx) error {
	var in dto.RequestExclusionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.RequestExclusion(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// ListPendingExclusions godoc
// @Summary      Listar solicitações de exclusão pendentes (admin/gerente)
// @Tags         vendas
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.VendaResponse
// @Router       /api/vendas/exclusions/pending [get]
func (h *VendaHandler) ListPendingExclusions(c *fiber.Ctx) error {
	out, err := h.uc.ListPendingExclusions(c.Context(), GetCompanyID(c))
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// ApproveExclusion godoc
// @Summary      Aprovar exclusão de venda (admin/gerente)
// @Tags         vendas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da venda"
// @Success      200  {object}  dto.VendaResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vendas/{id}/exclusion/approve [put]
func (h *VendaHandler) ApproveExclusion(c *fiber.Ctx) error {
	out, err := h.uc.ApproveExclusion(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// RejectExclusion godoc
// @Summary      Rejeitar exclusão de venda (admin/gerente, motivo obrigatório)
// @Tags         vendas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da venda"
// @Param        body  body  dto.ReviewExclusionRequest  true  "Motivo da rejeição"
// @Success      200   {object}  dto.VendaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/vendas/{id}/exclusion/reject [put]
func (h *VendaHandler) RejectExclusion(c *fiber.Ctx) error {
	var in dto.ReviewExclusionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.RejectExclusion(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}
