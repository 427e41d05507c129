package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caixapro/pdv-api/internal/application/dto"
	"github.com/caixapro/pdv-api/internal/domain"
	"github.com/caixapro/pdv-api/internal/domain/entity"
	"github.com/caixapro/pdv-api/internal/domain/repository"
)

// CaixaReportGenerator gera o PDF de fechamento de caixa.
type CaixaReportGenerator interface {
	GenerateClosingReport(ctx context.Context, company *entity.Company, caixa *entity.Caixa, vendas []*entity.Venda, totals map[string]decimal.Decimal) ([]byte, error)
}

// CaixaUseCase abertura e fechamento de sessões de caixa.
// Invariante: no máximo um caixa aberto por empresa.
type CaixaUseCase struct {
	caixaRepo   repository.CaixaRepository
	vendaRepo   repository.VendaRepository
	companyRepo repository.CompanyRepository
	reports     CaixaReportGenerator
}

// NewCaixaUseCase constrói o caso de uso.
func NewCaixaUseCase(caixaRepo repository.CaixaRepository, vendaRepo repository.VendaRepository, companyRepo repository.CompanyRepository, reports CaixaReportGenerator) *CaixaUseCase {
	return &CaixaUseCase{caixaRepo: caixaRepo, vendaRepo: vendaRepo, companyRepo: companyRepo, reports: reports}
}

// Open abre um caixa com o fundo de troco informado.
// Falha com ErrCaixaAlreadyOpen se já houver caixa aberto na empresa.
func (uc *CaixaUseCase) Open(ctx context.Context, companyID, userID string, in dto.OpenCaixaRequest) (*dto.CaixaResponse, error) {
	if in.InitialAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	open, err := uc.caixaRepo.GetOpenByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.ErrCaixaAlreadyOpen
	}
	now := time.Now()
	caixa := &entity.Caixa{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		OpenedBy:      userID,
		OpenedAt:      now,
		InitialAmount: in.InitialAmount,
		Status:        entity.CaixaOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.caixaRepo.Create(ctx, caixa); err != nil {
		return nil, err
	}
	return toCaixaResponse(caixa), nil
}

// Close fecha o caixa aberto e devolve o resumo: totais por forma de pagamento
// e a diferença entre o dinheiro apurado e o esperado (fundo + vendas em dinheiro).
func (uc *CaixaUseCase) Close(ctx context.Context, companyID, userID string, in dto.CloseCaixaRequest) (*dto.CaixaSummaryResponse, error) {
	caixa, err := uc.caixaRepo.GetOpenByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return nil, domain.ErrCaixaNotOpen
	}

	vendas, err := uc.vendaRepo.ListByCaixa(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}
	totals := totalsByMethod(vendas)

	now := time.Now()
	caixa.Status = entity.CaixaClosed
	caixa.ClosedBy = userID
	caixa.ClosedAt = &now
	caixa.FinalAmount = in.FinalAmount
	caixa.UpdatedAt = now
	if err := uc.caixaRepo.Update(ctx, caixa); err != nil {
		return nil, err
	}

	return uc.buildSummary(caixa, totals), nil
}

// GetCurrent devolve o caixa aberto com os totais parciais; (nil, ErrCaixaNotOpen)
// quando não há caixa aberto.
func (uc *CaixaUseCase) GetCurrent(ctx context.Context, companyID string) (*dto.CaixaSummaryResponse, error) {
	caixa, err := uc.caixaRepo.GetOpenByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if caixa == nil {
		return nil, domain.ErrCaixaNotOpen
	}
	vendas, err := uc.vendaRepo.ListByCaixa(ctx, caixa.ID)
	if err != nil {
		return nil, err
	}
	return uc.buildSummary(caixa, totalsByMethod(vendas)), nil
}

// ListByCompany histórico de sessões de caixa.
func (uc *CaixaUseCase) ListByCompany(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.CaixaResponse, error) {
	page.DefaultPage()
	caixas, err := uc.caixaRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CaixaResponse, 0, len(caixas))
	for _, c := range caixas {
		out = append(out, toCaixaResponse(c))
	}
	return out, nil
}

// ClosingReportPDF gera o relatório de fechamento em PDF.
// Devolve (bytes, nome do arquivo, erro).
func (uc *CaixaUseCase) ClosingReportPDF(ctx context.Context, companyID, caixaID string) ([]byte, string, error) {
	caixa, err := uc.caixaRepo.GetByID(ctx, caixaID)
	if err != nil {
		return nil, "", err
	}
	if caixa == nil || caixa.CompanyID != companyID {
		return nil, "", domain.ErrNotFound
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", err
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	vendas, err := uc.vendaRepo.ListByCaixa(ctx, caixa.ID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.reports.GenerateClosingReport(ctx, company, caixa, vendas, totalsByMethod(vendas))
	if err != nil {
		return nil, "", fmt.Errorf("gerar relatório de fechamento: %w", err)
	}
	filename := fmt.Sprintf("fechamento-caixa-%s.pdf", caixa.OpenedAt.Format("2006-01-02"))
	return pdfBytes, filename, nil
}

func (uc *CaixaUseCase) buildSummary(caixa *entity.Caixa, totals map[string]decimal.Decimal) *dto.CaixaSummaryResponse {
	totalSales := decimal.Zero
	for _, v := range totals {
		totalSales = totalSales.Add(v)
	}
	expectedCash := caixa.InitialAmount.Add(totals[entity.PayDinheiro])
	summary := &dto.CaixaSummaryResponse{
		Caixa:          *toCaixaResponse(caixa),
		TotalSales:     totalSales,
		TotalsByMethod: totals,
		ExpectedCash:   expectedCash,
	}
	if caixa.Status == entity.CaixaClosed {
		summary.CashDifference = caixa.FinalAmount.Sub(expectedCash)
	}
	return summary
}

// totalsByMethod soma as vendas não deletadas por forma de pagamento.
func totalsByMethod(vendas []*entity.Venda) map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{
		entity.PayDinheiro: decimal.Zero,
		entity.PayCartao:   decimal.Zero,
		entity.PayPix:      decimal.Zero,
	}
	for _, v := range vendas {
		if v.DeletedAt != nil {
			continue
		}
		totals[v.PaymentMethod] = totals[v.PaymentMethod].Add(v.Total)
	}
	return totals
}

func toCaixaResponse(c *entity.Caixa) *dto.CaixaResponse {
	return &dto.CaixaResponse{
		ID:            c.ID,
		Status:        c.Status,
		OpenedBy:      c.OpenedBy,
		OpenedAt:      c.OpenedAt,
		InitialAmount: c.InitialAmount,
		ClosedBy:      c.ClosedBy,
		ClosedAt:      c.ClosedAt,
		FinalAmount:   c.FinalAmount,
	}
}
