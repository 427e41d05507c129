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

// VendaUseCase registro de vendas no caixa e workflow de exclusão com aprovação.
// A exclusão de venda nunca é direta: vendedor solicita, admin/gerente revisa.
type VendaUseCase struct {
	vendaRepo   repository.VendaRepository
	caixaRepo   repository.CaixaRepository
	productRepo repository.ProductRepository
}

// NewVendaUseCase constrói o caso de uso.
func NewVendaUseCase(vendaRepo repository.VendaRepository, caixaRepo repository.CaixaRepository, productRepo repository.ProductRepository) *VendaUseCase {
	return &VendaUseCase{vendaRepo: vendaRepo, caixaRepo: caixaRepo, productRepo: productRepo}
}

// Create registra uma venda no caixa aberto da empresa. O preço de cada item
// vem do catálogo no momento da venda (snapshot), nunca do cliente.
func (uc *VendaUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateVendaRequest) (*dto.VendaResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	switch in.PaymentMethod {
	case entity.PayDinheiro, entity.PayCartao, entity.PayPix:
	default:
		return nil, domain.ErrInvalidInput
	}

	caixa, err := uc.caixaRepo.GetOpenByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return nil, domain.ErrCaixaNotOpen
	}

	now := time.Now()
	items := make([]entity.VendaItem, 0, len(in.Items))
	total := decimal.Zero
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.CompanyID != companyID || !product.Active {
			return nil, domain.ErrNotFound
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, entity.VendaItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    subtotal,
		})
		total = total.Add(subtotal)

		product.Stock -= item.Quantity
		product.UpdatedAt = now
		if err := uc.productRepo.Update(ctx, product); err != nil {
			return nil, err
		}
	}

	venda := &entity.Venda{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		UserID:        userID,
		CaixaID:       caixa.ID,
		Items:         items,
		PaymentMethod: in.PaymentMethod,
		Total:         total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.vendaRepo.Create(ctx, venda); err != nil {
		return nil, err
	}
	return toVendaResponse(venda), nil
}

// GetByID devolve a venda, validando o escopo da empresa.
func (uc *VendaUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.VendaResponse, error) {
	venda, err := uc.loadScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toVendaResponse(venda), nil
}

// ListByCompany listagem paginada de vendas não deletadas.
func (uc *VendaUseCase) ListByCompany(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.VendaResponse, error) {
	page.DefaultPage()
	vendas, err := uc.vendaRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toVendaResponses(vendas), nil
}

// RequestExclusion abre uma solicitação de exclusão da venda.
// Falha com ErrExclusionPending se já houver uma aguardando revisão.
func (uc *VendaUseCase) RequestExclusion(ctx context.Context, companyID, vendaID, userID string, in dto.RequestExclusionRequest) (*dto.VendaResponse, error) {
	if in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	venda, err := uc.loadScoped(ctx, companyID, vendaID)
	if err != nil {
		return nil, err
	}
	if !venda.RequestExclusion(userID, in.Reason, time.Now()) {
		return nil, domain.ErrExclusionPending
	}
	if err := uc.vendaRepo.Update(ctx, venda); err != nil {
		return nil, err
	}
	return toVendaResponse(venda), nil
}

// ApproveExclusion aprova a solicitação pendente: a venda é soft-deletada e
// sai de todas as listagens e agregações.
func (uc *VendaUseCase) ApproveExclusion(ctx context.Context, companyID, vendaID, reviewerID string) (*dto.VendaResponse, error) {
	venda, err := uc.loadScoped(ctx, companyID, vendaID)
	if err != nil {
		return nil, err
	}
	if !venda.ApproveExclusion(reviewerID, time.Now()) {
		return nil, domain.ErrExclusionNotPending
	}
	if err := uc.vendaRepo.Update(ctx, venda); err != nil {
		return nil, err
	}
	return toVendaResponse(venda), nil
}

// RejectExclusion rejeita a solicitação pendente mantendo a venda.
// As notas do revisor são obrigatórias na rejeição.
func (uc *VendaUseCase) RejectExclusion(ctx context.Context, companyID, vendaID, reviewerID string, in dto.ReviewExclusionRequest) (*dto.VendaResponse, error) {
	if in.Notes == "" {
		return nil, domain.ErrMissingReviewNotes
	}
	venda, err := uc.loadScoped(ctx, companyID, vendaID)
	if err != nil {
		return nil, err
	}
	if !venda.RejectExclusion(reviewerID, in.Notes, time.Now()) {
		return nil, domain.ErrExclusionNotPending
	}
	if err := uc.vendaRepo.Update(ctx, venda); err != nil {
		return nil, err
	}
	return toVendaResponse(venda), nil
}

// ListPendingExclusions fila de revisão para admin/gerente.
func (uc *VendaUseCase) ListPendingExclusions(ctx context.Context, companyID string) ([]*dto.VendaResponse, error) {
	vendas, err := uc.vendaRepo.ListPendingExclusions(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toVendaResponses(vendas), nil
}

func (uc *VendaUseCase) loadScoped(ctx context.Context, companyID, id string) (*entity.Venda, error) {
	venda, err := uc.vendaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if venda == nil {
		return nil, domain.ErrNotFound
	}
	if venda.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return venda, nil
}

func toVendaResponses(vendas []*entity.Venda) []*dto.VendaResponse {
	out := make([]*dto.VendaResponse, 0, len(vendas))
	for _, v := range vendas {
		out = append(out, toVendaResponse(v))
	}
	return out
}

func toVendaResponse(v *entity.Venda) *dto.VendaResponse {
	return &dto.VendaResponse{
		ID:                   v.ID,
		CaixaID:              v.CaixaID,
		UserID:               v.UserID,
		Items:                v.Items,
		PaymentMethod:        v.PaymentMethod,
		Total:                v.Total,
		CreatedAt:            v.CreatedAt,
		ExclusionStatus:      v.ExclusionStatus,
		ExclusionReason:      v.ExclusionReason,
		ExclusionRequestedBy: v.ExclusionRequestedBy,
		ExclusionRequestedAt: v.ExclusionRequestedAt,
		ExclusionReviewedBy:  v.ExclusionReviewedBy,
		ExclusionReviewedAt:  v.ExclusionReviewedAt,
		ExclusionReviewNotes: v.ExclusionReviewNotes,
	}
}
