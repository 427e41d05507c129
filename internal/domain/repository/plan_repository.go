package repository

import (
	"context"

	"github.com/caixapro/pdv-api/internal/domain/entity"
)

// PlanRepository porta de persistência do catálogo de planos (DIP).
// A implementação vive em infrastructure.
type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
	GetByName(ctx context.Context, name string) (*entity.Plan, error)
	// ListPublic devolve planos ativos e não internos, ordenados por sort_order.
	ListPublic(ctx context.Context) ([]*entity.Plan, error)
	Update(ctx context.Context, plan *entity.Plan) error
	Delete(ctx context.Context, id string) error // soft delete
}
