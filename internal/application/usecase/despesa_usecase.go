package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caixapro/pdv-api/internal/application/dto"
	"github.com/caixapro/pdv-api/internal/domain"
	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/internal/domain/repository"
)

// DespesaUseCase lançamentos de despesa por empresa e resumo por categoria.
type DespesaUseCase struct {
	repo repository.DespesaRepository
}

// NewDespesaUseCase constrói o caso de uso.
func NewDespesaUseCase(repo repository.DespesaRepository) *DespesaUseCase {
	return &DespesaUseCase{repo: repo}
}

// Create lança uma despesa. Data vazia assume agora.
func (uc *DespesaUseCase) Create(ctx context.Context, companyID string, in dto.CreateDespesaRequest) (*dto.DespesaResponse, error) {
	if in.Description == "" || in.Category == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	despesa := &entity.Despesa{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Description: in.Description,
		Category:    in.Category,
		Amount:      in.Amount,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, despesa); err != nil {
		return nil, err
	}
	return toDespesaResponse(despesa), nil
}

// Update edição parcial de despesa.
func (uc *DespesaUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateDespesaRequest) (*dto.DespesaResponse, error) {
	despesa, err := uc.loadScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Description != nil {
		if *in.Description == "" {
			return nil, domain.ErrInvalidInput
		}
		despesa.Description = *in.Description
	}
	if in.Category != nil {
		despesa.Category = *in.Category
	}
	if in.Amount != nil {
		if in.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		despesa.Amount = *in.Amount
	}
	if in.Date != nil {
		despesa.Date = *in.Date
	}
	despesa.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, despesa); err != nil {
		return nil, err
	}
	return toDespesaResponse(despesa), nil
}

// ListByCompany listagem por período, paginada.
func (uc *DespesaUseCase) ListByCompany(ctx context.Context, companyID string, from, to time.Time, page dto.PageRequest) ([]*dto.DespesaResponse, error) {
	page.DefaultPage()
	from, to = defaultRange(from, to)
	despesas, err := uc.repo.ListByCompany(ctx, companyID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DespesaResponse, 0, len(despesas))
	for _, d := range despesas {
		out = append(out, toDespesaResponse(d))
	}
	return out, nil
}

// Summary total por categoria no período (padrão: mês corrente).
func (uc *DespesaUseCase) Summary(ctx context.Context, companyID string, from, to time.Time) (*dto.DespesaSummaryResponse, error) {
	from, to = defaultRange(from, to)
	summary, err := uc.repo.SummaryByCategory(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, v := range summary {
		total = total.Add(v)
	}
	return &dto.DespesaSummaryResponse{From: from, To: to, Total: total, Summary: summary}, nil
}

// Delete remove a despesa (escopo validado antes).
func (uc *DespesaUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.loadScoped(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *DespesaUseCase) loadScoped(ctx context.Context, companyID, id string) (*entity.Despesa, error) {
	despesa, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if despesa == nil {
		return nil, domain.ErrNotFound
	}
	if despesa.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return despesa, nil
}

// defaultRange período vazio vira o mês corrente.
func defaultRange(from, to time.Time) (time.Time, time.Time) {
	if from.IsZero() && to.IsZero() {
		now := time.Now()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 1, 0)
	}
	if to.IsZero() {
		to = time.Now()
	}
	return from, to
}

func toDespesaResponse(d *entity.Despesa) *dto.DespesaResponse {
	return &dto.DespesaResponse{
		ID:          d.ID,
		Description: d.Description,
		Category:    d.Category,
		Amount:      d.Amount,
		Date:        d.Date,
		CreatedAt:   d.CreatedAt,
	}
}
