package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixapro/pdv-api/internal/application/dto"
	"github.com/caixapro/pdv-api/internal/application/usecase"
	"github.com/caixapro/pdv-api/internal/domain"
	"github.com/caixapro/pdv-api/internal/domain/entity"
)

type caixaFixture struct {
	uc      *usecase.CaixaUseCase
	caixas  *memCaixaRepo
	vendas  *memVendaRepo
	reports *fakeReportGenerator
}

func newCaixaFixture(t *testing.T) *caixaFixture {
	t.Helper()
	caixas := newMemCaixaRepo()
	vendas := newMemVendaRepo()
	companies := newMemCompanyRepo()
	reports := &fakeReportGenerator{}

	require.NoError(t, companies.Create(context.Background(), &entity.Company{
		ID: "comp-1", Name: "Mercadinho do Zé", CpfCnpj: "12345678000190",
	}))

	return &caixaFixture{
		uc:      usecase.NewCaixaUseCase(caixas, vendas, companies, reports),
		caixas:  caixas,
		vendas:  vendas,
		reports: reports,
	}
}

func (f *caixaFixture) addVenda(t *testing.T, caixaID, method string, total int64) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.vendas.Create(context.Background(), &entity.Venda{
		ID:            "venda-" + method + "-" + decimal.NewFromInt(total).String(),
		CompanyID:     "comp-1",
		UserID:        "user-1",
		CaixaID:       caixaID,
		PaymentMethod: method,
		Total:         decimal.NewFromInt(total),
		CreatedAt:     now,
		UpdatedAt:     now,
	}))
}

func TestOpenCaixa_UmPorEmpresa(t *testing.T) {
	f := newCaixaFixture(t)

	out, err := f.uc.Open(context.Background(), "comp-1", "user-1", dto.OpenCaixaRequest{
		InitialAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CaixaOpen, out.Status)
	assert.True(t, out.InitialAmount.Equal(decimal.NewFromInt(100)))

	// Segundo caixa com o primeiro ainda aberto
	_, err = f.uc.Open(context.Background(), "comp-1", "user-1", dto.OpenCaixaRequest{
		InitialAmount: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domain.ErrCaixaAlreadyOpen)

	// Outra empresa pode abrir normalmente
	_, err = f.uc.Open(context.Background(), "comp-2", "user-9", dto.OpenCaixaRequest{
		InitialAmount: decimal.NewFromInt(30),
	})
	require.NoError(t, err)
}

func TestOpenCaixa_FundoNegativo(t *testing.T) {
	f := newCaixaFixture(t)

	_, err := f.uc.Open(context.Background(), "comp-1", "user-1", dto.OpenCaixaRequest{
		InitialAmount: decimal.NewFromInt(-10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCloseCaixa_ResumoEConferenciaDoDinheiro(t *testing.T) {
	f := newCaixaFixture(t)

	opened, err := f.uc.Open(context.Background(), "comp-1", "user-1", dto.OpenCaixaRequest{
		InitialAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	f.addVenda(t, opened.ID, entity.PayDinheiro, 50)
	f.addVenda(t, opened.ID, entity.PayDinheiro, 30)
	f.addVenda(t, opened.ID, entity.PayCartao, 200)
	f.addVenda(t, opened.ID, entity.PayPix, 70)

	// Apurado 175 contra 180 esperados (100 de fundo + 80 em dinheiro)
	summary, err := f.uc.Close(context.Background(), "comp-1", "gerente-1", dto.CloseCaixaRequest{
		FinalAmount: decimal.NewFromInt(175),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.CaixaClosed, summary.Caixa.Status)
	assert.Equal(t, "gerente-1", summary.Caixa.ClosedBy)
	assert.True(t, summary.TotalSales.Equal(decimal.NewFromInt(350)))
	assert.True(t, summary.TotalsByMethod[entity.PayDinheiro].Equal(decimal.NewFromInt(80)))
	assert.True(t, summary.TotalsByMethod[entity.PayCartao].Equal(decimal.NewFromInt(200)))
	assert.True(t, summary.TotalsByMethod[entity.PayPix].Equal(decimal.NewFromInt(70)))
	assert.True(t, summary.ExpectedCash.Equal(decimal.NewFromInt(180)))
	assert.True(t, summary.CashDifference.Equal(decimal.NewFromInt(-5)), "faltaram R$ 5 no caixa")
}

func TestCloseCaixa_SemCaixaAberto(t *testing.T) {
	f := newCaixaFixture(t)

	_, err := f.uc.Close(context.Background(), "comp-1", "user-1", dto.CloseCaixaRequest{
		FinalAmount: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrCaixaNotOpen)
}

func TestGetCurrent_TotaisParciais(t *testing.T) {
	f := newCaixaFixture(t)

	opened, err := f.uc.Open(context.Background(), "comp-1", "user-1", dto.OpenCaixaRequest{
		InitialAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	f.addVenda(t, opened.ID, entity.PayDinheiro, 40)

	summary, err := f.uc.GetCurrent(context.Background(), "comp-1")
	require.NoError(t, err)
	assert.Equal(t, entity.CaixaOpen, summary.Caixa.Status)
	assert.True(t, summary.ExpectedCash.Equal(decimal.NewFromInt(140)))
	// Caixa aberto ainda não tem diferença calculada
	assert.True(t, summary.CashDifference.IsZero())
}

func TestClosingReportPDF_GeraArquivoComEscopo(t *testing.T) {
	f := newCaixaFixture(t)

	opened, err := f.uc.Open(context.Background(), "comp-1", "user-1", dto.OpenCaixaRequest{
		InitialAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	f.addVenda(t, opened.ID, entity.PayDinheiro, 50)

	pdfBytes, filename, err := f.uc.ClosingReportPDF(context.Background(), "comp-1", opened.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
	assert.Contains(t, filename, "fechamento-caixa-")
	assert.Equal(t, 1, f.reports.calls)

	// Outra empresa não enxerga o caixa
	_, _, err = f.uc.ClosingReportPDF(context.Background(), "comp-2", opened.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
