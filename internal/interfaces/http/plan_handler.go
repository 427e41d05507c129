package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caixapro/pdv-api/internal/application/dto"
	"github.com/caixapro/pdv-api/internal/application/usecase"
)

// PlanHandler catálogo público de planos e edição administrativa.
type PlanHandler struct {
	uc *usecase.PlanUseCase
}

// NewPlanHandler constrói o handler de planos.
func NewPlanHandler(uc *usecase.PlanUseCase) *PlanHandler {
	return &PlanHandler{uc: uc}
}

// List godoc
// @Summary      Listar planos públicos
// @Tags         plans
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/plans [get]
func (h *PlanHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListPublic(c.Context())
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}

// UpdateAdmin godoc
// @Summary      Editar plano (apenas trial_days e active)
// @Tags         plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do plano"
// @Param        body  body  dto.UpdatePlanAdminRequest  true  "Campos editáveis"
// @Success      200   {object}  dto.PlanResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/plans/{id} [put]
func (h *PlanHandler) UpdateAdmin(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdatePlanAdminRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.UpdateAdmin(c.Context(), id, in)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(out)
}
