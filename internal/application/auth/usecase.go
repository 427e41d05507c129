package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/caixapro/pdv-api/internal/application/dto"
	appsub "github.com/caixapro/pdv-api/internal/application/subscription"
	"github.com/caixapro/pdv-api/internal/domain"
	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/internal/domain/repository"
	"github.com/caixapro/pdv-api/pkg/jwt"
	"github.com/caixapro/pdv-api/pkg/logger"
)

// JWTConfig parâmetros de emissão de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase registro de empresa e login.
// O registro cria empresa + usuário admin + assinatura trial em sequência.
type UseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	orch        *appsub.Orchestrator
	jwtCfg      JWTConfig
	log         *logger.Logger
}

// NewUseCase constrói o caso de uso de autenticação.
func NewUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, orch *appsub.Orchestrator, jwtCfg JWTConfig, log *logger.Logger) *UseCase {
	return &UseCase{userRepo: userRepo, companyRepo: companyRepo, orch: orch, jwtCfg: jwtCfg, log: log}
}

// Register cria a empresa, o usuário admin e a assinatura trial, e já emite o token.
// Falha de criação do trial não desfaz o cadastro: fica registrada em log e a
// empresa segue sem assinatura (o gate nega acesso até o suporte intervir).
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	if in.CompanyName == "" || in.AdminName == "" || in.Email == "" || len(in.Password) < 6 {
		return nil, domain.ErrInvalidInput
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if in.CpfCnpj != "" {
		other, err := uc.companyRepo.GetByCpfCnpj(ctx, in.CpfCnpj)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.CompanyName,
		CpfCnpj:   in.CpfCnpj,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         in.AdminName,
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if _, err := uc.orch.CreateTrialSubscription(ctx, company.ID); err != nil {
		uc.log.Error().Err(err).Str("company_id", company.ID).
			Msg("falha ao criar assinatura trial no registro")
	}

	return uc.issueToken(user)
}

// Login verifica as credenciais e emite o token.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	return uc.issueToken(user)
}

func (uc *UseCase) issueToken(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User: dto.UserResponse{
			ID:        user.ID,
			CompanyID: user.CompanyID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      user.Role,
			Status:    user.Status,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}
