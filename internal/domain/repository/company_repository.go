package repository

import (
	"context"

	"github.com/caixapro/pdv-api/internal/domain/entity"
)

// CompanyRepository porta de persistência de empresas (DIP).
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByCpfCnpj(ctx context.Context, cpfCnpj string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
}

// UserRepository porta de persistência de usuários.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailAndCompany(ctx context.Context, email, companyID string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error)
	// CountActiveByCompany apoia a verificação de limite de usuários do plano.
	CountActiveByCompany(ctx context.Context, companyID string) (int, error)
	Delete(ctx context.Context, id string) error
}
