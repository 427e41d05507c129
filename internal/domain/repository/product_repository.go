package repository

import (
	"context"

	"github.com/caixapro/pdv-api/internal/domain/entity"
)

// ProductRepository porta de persistência de produtos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Search filtra por nome normalizado (sem acentos, minúsculas); query vazia lista tudo.
	Search(ctx context.Context, companyID, normalizedQuery string, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
	// RenameCategory renomeia a categoria em lote; usado dentro de transação pelo TxRunner.
	RenameCategory(ctx context.Context, companyID, from, to string) (int64, error)
}
