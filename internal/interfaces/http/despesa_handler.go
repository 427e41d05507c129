package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/caixapro/pdv-api/internal/application/dto"
	"github.com/caixapro/pdv-api/internal/application/usecase"
)

// DespesaHandler lançamentos de despesa e resumo por categoria.
type DespesaHandler struct {
	uc *usecase.DespesaUseCase
}

// NewDespesaHandler constrói o handler de despesas.
func NewDespesaHandler(uc *usecase.DespesaUseCase) *DespesaHandler {
	return &DespesaHandler{uc: uc}
}

// Create godoc
// @Summary      Lançar despesa
// @Tags         despesas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDespesaRequest  true  "Dados da despesa"
// @Success      201   {object}  dto.DespesaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/despesas [post]
func (h *DespesaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDespesaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetCompanyID(c), in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Atualizar despesa
// @Tags         despesas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da despesa"
// @Param        body  body  dto.UpdateDespesaRequest  true  "Campos a atualizar"
// @Success      200   {object}  dto.DespesaResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/despesas/{id} [put]
func (h *DespesaHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDespesaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar despesas no período
// @Tags         despesas
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Data inicial (2006-01-02); padrão: início do mês"
// @Param        to      query  string  false  "Data final (2006-01-02); padrão: agora"
// @Param        limit   query  int     false  "Limite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.DespesaResponse
// @Router       /api/despesas [get]
func (h *DespesaHandler) List(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datas no formato 2006-01-02"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListByCompany(c.Context(), GetCompanyID(c), from, to, page)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumo de despesas por categoria no período
// @Tags         despesas
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Data inicial (2006-01-02)"
// @Param        to    query  string  false  "Data final (2006-01-02)"
// @Success      200   {object}  dto.DespesaSummaryResponse
// @Router       /api/despesas/summary [get]
func (h *DespesaHandler) Summary(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datas no formato 2006-01-02"})
	}
	out, err := h.uc.Summary(c.Context(), GetCompanyID(c), from, to)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Remover despesa
// @Tags         despesas
// @Security     Bearer
// @Param        id  path  string  true  "ID da despesa"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/despesas/{id} [delete]
func (h *DespesaHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetCompanyID(c), c.Params("id")); err != nil {
		return handleDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseDateRange lê from/to da query; zero values delegam o padrão ao caso de uso.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if s := c.Query("from"); s != "" {
		if from, err = time.Parse("2006-01-02", s); err != nil {
			return from, to, err
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = time.Parse("2006-01-02", s); err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}
