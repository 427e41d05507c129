package usecase

import (
	"context"

	"github.com/caixapro/pdv-api/internal/domain/repository"
)

// ProductTxRunner executa uma função dentro de uma transação de BD, passando
// o repositório de produtos atado a essa transação. Usado pelo rename de
// categoria em lote, que precisa ser tudo-ou-nada.
type ProductTxRunner interface {
	Run(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error
}
