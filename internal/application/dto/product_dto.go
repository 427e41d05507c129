package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest cadastro de produto.
type CreateProductRequest struct {
	Name     string          `json:"name" validate:"required"`
	Code     string          `json:"code"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price" validate:"required"`
	Cost     decimal.Decimal `json:"cost"`
	Stock    int             `json:"stock"`
}

// UpdateProductRequest edição parcial de produto.
type UpdateProductRequest struct {
	Name     *string          `json:"name"`
	Code     *string          `json:"code"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	Cost     *decimal.Decimal `json:"cost"`
	Stock    *int             `json:"stock"`
	Active   *bool            `json:"active"`
}

// ProductResponse produto nas respostas da API.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code,omitempty"`
	Category  string          `json:"category,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
	Stock     int             `json:"stock"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RenameCategoryRequest renomeia uma categoria em lote (transacional).
type RenameCategoryRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// RenameCategoryResponse quantos produtos foram afetados.
type RenameCategoryResponse struct {
	Updated int64 `json:"updated"`
}
