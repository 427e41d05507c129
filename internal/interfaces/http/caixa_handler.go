package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caixapro/pdv-api/internal/application/dto"
	"github.com/caixapro/pdv-api/internal/application/usecase"
)

// CaixaHandler abertura, fechamento e consulta de sessões de caixa.
type CaixaHandler struct {
	uc *usecase.CaixaUseCase
}

// NewCaixaHandler constrói o handler de caixa.
func NewCaixaHandler(uc *usecase.CaixaUseCase) *CaixaHandler {
	return &CaixaHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir caixa
// @Tags         caixas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCaixaRequest  true  "Fundo de troco"
// @Success      201   {object}  dto.CaixaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/caixas [post]
func (h *CaixaHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenCaixaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.Open(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Close godoc
// @Summary      Fechar o caixa aberto
// @Tags         caixas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseCaixaRequest  true  "Valor apurado"
// @Success      200   {object}  dto.CaixaSummaryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/caixas/close [put]
func (h *CaixaHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseCaixaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.Close(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// Current godoc
// @Summary      Situação do caixa aberto (totais parciais)
// @Tags         caixas
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CaixaSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/caixas/current [get]
func (h *CaixaHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.GetCurrent(c.Context(), GetCompanyID(c))
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar sessões de caixa da empresa
// @Tags         caixas
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Limite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.CaixaResponse
// @Router       /api/caixas [get]
func (h *CaixaHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListByCompany(c.Context(), GetCompanyID(c), page)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// ClosingReport godoc
// @Summary      Relatório de fechamento em PDF
// @Tags         caixas
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID da sessão de caixa"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/caixas/{id}/report [get]
func (h *CaixaHandler) ClosingReport(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.ClosingReportPDF(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return handleDomainError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
