package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/caixapro/pdv-api/internal/application/dto"
)

// featureChecker é o contrato mínimo que o middleware precisa para consultar o
// gate de features. Implementado por *subscription.FeatureGate; a interface
// evita acoplar o middleware ao pacote de aplicação inteiro.
type featureChecker interface {
	CheckFeature(ctx context.Context, companyID, feature string) (*dto.FeatureCheckResponse, error)
}

// RequireFeature devolve um middleware que verifica se a empresa do token tem
// a feature liberada pelo plano/status da assinatura. Deve ser usado DEPOIS de
// AuthMiddleware (precisa de LocalCompanyID).
//
// Comportamento:
//   - 403 Forbidden com a decisão do gate (motivo + plano mínimo) quando negado.
//   - 503 Service Unavailable em falha de infraestrutura na consulta.
//   - 401 se não houver company_id no contexto.
func RequireFeature(feature string, checker featureChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "company_id não encontrado no token",
			})
		}

		check, err := checker.CheckFeature(c.Context(), companyID, feature)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "FEATURE_CHECK_FAILED",
				Message: "não foi possível verificar a assinatura, tente novamente",
			})
		}

		if !check.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(check)
		}

		return c.Next()
	}
}
