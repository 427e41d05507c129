package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/caixapro/pdv-api/internal/domain"
	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/internal/domain/repository"
	"github.com/caixapro/pdv-api/pkg/textnorm"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementação de ProductRepository sobre PostgreSQL.
// name_normalized guarda o nome sem acentos/minúsculas para a busca.
type ProductRepo struct {
	q Querier
}

// NewProductRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, name, code, category, price, cost, stock, active, created_at, updated_at`

// Create persiste um produto. name_normalized é derivado no insert.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `, name_normalized)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.CompanyID, product.Name, product.Code, product.Category,
		product.Price, product.Cost, product.Stock, product.Active,
		product.CreatedAt, product.UpdatedAt, textnorm.Normalize(product.Name),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID devolve o produto; (nil, nil) se não existir.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update atualiza o produto (e o nome normalizado).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, code = $3, category = $4, price = $5,
			cost = $6, stock = $7, active = $8, updated_at = $9, name_normalized = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Code, product.Category, product.Price,
		product.Cost, product.Stock, product.Active, product.UpdatedAt, textnorm.Normalize(product.Name),
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Search filtra pelo nome normalizado; query vazia lista todos os produtos da empresa.
func (r *ProductRepo) Search(ctx context.Context, companyID, normalizedQuery string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE company_id = $1 AND ($2 = '' OR name_normalized LIKE '%' || $2 || '%')
		ORDER BY name
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, normalizedQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete remove o produto.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// RenameCategory renomeia a categoria em lote. Chamado dentro de transação
// pelo TxRunner; devolve quantas linhas mudaram.
func (r *ProductRepo) RenameCategory(ctx context.Context, companyID, from, to string) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET category = $3, updated_at = now() WHERE company_id = $1 AND category = $2`,
		companyID, from, to,
	)
	if err != nil {
		return 0, fmt.Errorf("rename category: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Code, &p.Category,
		&p.Price, &p.Cost, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
