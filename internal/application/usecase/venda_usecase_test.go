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

type vendaFixture struct {
	uc       *usecase.VendaUseCase
	vendas   *memVendaRepo
	caixas   *memCaixaRepo
	products *memProductRepo
}

// newVendaFixture monta o caso de uso com um caixa aberto e dois produtos.
func newVendaFixture(t *testing.T) *vendaFixture {
	t.Helper()
	vendas := newMemVendaRepo()
	caixas := newMemCaixaRepo()
	products := newMemProductRepo()

	now := time.Now()
	require.NoError(t, caixas.Create(context.Background(), &entity.Caixa{
		ID:            "caixa-1",
		CompanyID:     "comp-1",
		OpenedBy:      "user-1",
		OpenedAt:      now,
		InitialAmount: decimal.NewFromInt(100),
		Status:        entity.CaixaOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}))
	require.NoError(t, products.Create(context.Background(), &entity.Product{
		ID: "prod-1", CompanyID: "comp-1", Name: "Açúcar Cristal 1kg",
		Price: decimal.NewFromInt(5), Stock: 50, Active: true,
	}))
	require.NoError(t, products.Create(context.Background(), &entity.Product{
		ID: "prod-2", CompanyID: "comp-1", Name: "Café Torrado 500g",
		Price: decimal.NewFromInt(20), Stock: 10, Active: true,
	}))

	return &vendaFixture{
		uc:       usecase.NewVendaUseCase(vendas, caixas, products),
		vendas:   vendas,
		caixas:   caixas,
		products: products,
	}
}

func (f *vendaFixture) createVenda(t *testing.T) *dto.VendaResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), "comp-1", "user-1", dto.CreateVendaRequest{
		Items:         []dto.VendaItemRequest{{ProductID: "prod-1", Quantity: 2}},
		PaymentMethod: entity.PayDinheiro,
	})
	require.NoError(t, err)
	return out
}

func TestCreateVenda_SnapshotEPrecoDoCatalogo(t *testing.T) {
	f := newVendaFixture(t)

	out, err := f.uc.Create(context.Background(), "comp-1", "user-1", dto.CreateVendaRequest{
		Items: []dto.VendaItemRequest{
			{ProductID: "prod-1", Quantity: 3},
			{ProductID: "prod-2", Quantity: 1},
		},
		PaymentMethod: entity.PayPix,
	})
	require.NoError(t, err)

	assert.Equal(t, "caixa-1", out.CaixaID)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Açúcar Cristal 1kg", out.Items[0].ProductName)
	assert.True(t, out.Items[0].UnitPrice.Equal(decimal.NewFromInt(5)))
	assert.True(t, out.Items[0].Subtotal.Equal(decimal.NewFromInt(15)))
	assert.True(t, out.Total.Equal(decimal.NewFromInt(35)), "total = 3x5 + 1x20")

	// Estoque decrementado
	p1, err := f.products.GetByID(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 47, p1.Stock)
}

func TestCreateVenda_Precondicoes(t *testing.T) {
	f := newVendaFixture(t)

	// Sem itens
	_, err := f.uc.Create(context.Background(), "comp-1", "user-1", dto.CreateVendaRequest{
		PaymentMethod: entity.PayDinheiro,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Forma de pagamento inválida
	_, err = f.uc.Create(context.Background(), "comp-1", "user-1", dto.CreateVendaRequest{
		Items:         []dto.VendaItemRequest{{ProductID: "prod-1", Quantity: 1}},
		PaymentMethod: "cheque",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Produto de outra empresa
	require.NoError(t, f.products.Create(context.Background(), &entity.Product{
		ID: "prod-alheio", CompanyID: "comp-2", Name: "Produto Alheio",
		Price: decimal.NewFromInt(1), Active: true,
	}))
	_, err = f.uc.Create(context.Background(), "comp-1", "user-1", dto.CreateVendaRequest{
		Items:         []dto.VendaItemRequest{{ProductID: "prod-alheio", Quantity: 1}},
		PaymentMethod: entity.PayDinheiro,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateVenda_SemCaixaAberto(t *testing.T) {
	f := newVendaFixture(t)

	// Fecha o único caixa
	caixa, err := f.caixas.GetByID(context.Background(), "caixa-1")
	require.NoError(t, err)
	caixa.Status = entity.CaixaClosed
	require.NoError(t, f.caixas.Update(context.Background(), caixa))

	_, err = f.uc.Create(context.Background(), "comp-1", "user-1", dto.CreateVendaRequest{
		Items:         []dto.VendaItemRequest{{ProductID: "prod-1", Quantity: 1}},
		PaymentMethod: entity.PayDinheiro,
	})
	assert.ErrorIs(t, err, domain.ErrCaixaNotOpen)
}

func TestRequestExclusion_AbreSolicitacaoPendente(t *testing.T) {
	f := newVendaFixture(t)
	venda := f.createVenda(t)

	out, err := f.uc.RequestExclusion(context.Background(), "comp-1", venda.ID, "user-2", dto.RequestExclusionRequest{
		Reason: "venda registrada em duplicidade",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ExclusionPending, out.ExclusionStatus)
	assert.Equal(t, "user-2", out.ExclusionRequestedBy)
	assert.Equal(t, "venda registrada em duplicidade", out.ExclusionReason)

	// Segunda solicitação enquanto a primeira está pendente
	_, err = f.uc.RequestExclusion(context.Background(), "comp-1", venda.ID, "user-2", dto.RequestExclusionRequest{
		Reason: "outro motivo",
	})
	assert.ErrorIs(t, err, domain.ErrExclusionPending)
}

func TestRequestExclusion_MotivoObrigatorio(t *testing.T) {
	f := newVendaFixture(t)
	venda := f.createVenda(t)

	_, err := f.uc.RequestExclusion(context.Background(), "comp-1", venda.ID, "user-2", dto.RequestExclusionRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApproveExclusion_SoftDeletaVenda(t *testing.T) {
	f := newVendaFixture(t)
	venda := f.createVenda(t)

	_, err := f.uc.RequestExclusion(context.Background(), "comp-1", venda.ID, "user-2", dto.RequestExclusionRequest{Reason: "duplicada"})
	require.NoError(t, err)

	out, err := f.uc.ApproveExclusion(context.Background(), "comp-1", venda.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ExclusionApproved, out.ExclusionStatus)
	assert.Equal(t, "admin-1", out.ExclusionReviewedBy)

	// A venda sai das consultas (soft delete)
	_, err = f.uc.GetByID(context.Background(), "comp-1", venda.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.uc.ListByCompany(context.Background(), "comp-1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestApproveExclusion_SemSolicitacaoPendente(t *testing.T) {
	f := newVendaFixture(t)
	venda := f.createVenda(t)

	_, err := f.uc.ApproveExclusion(context.Background(), "comp-1", venda.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrExclusionNotPending)
}

func TestRejectExclusion_ExigeNotasEMantemVenda(t *testing.T) {
	f := newVendaFixture(t)
	venda := f.createVenda(t)

	_, err := f.uc.RequestExclusion(context.Background(), "comp-1", venda.ID, "user-2", dto.RequestExclusionRequest{Reason: "duplicada"})
	require.NoError(t, err)

	// Sem notas -> erro, solicitação continua pendente
	_, err = f.uc.RejectExclusion(context.Background(), "comp-1", venda.ID, "admin-1", dto.ReviewExclusionRequest{})
	assert.ErrorIs(t, err, domain.ErrMissingReviewNotes)

	out, err := f.uc.RejectExclusion(context.Background(), "comp-1", venda.ID, "admin-1", dto.ReviewExclusionRequest{
		Notes: "venda legítima, conferida no cupom",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ExclusionRejected, out.ExclusionStatus)
	assert.Equal(t, "venda legítima, conferida no cupom", out.ExclusionReviewNotes)

	// A venda continua visível
	got, err := f.uc.GetByID(context.Background(), "comp-1", venda.ID)
	require.NoError(t, err)
	assert.Equal(t, venda.ID, got.ID)

	// E pode receber nova solicitação depois da rejeição
	_, err = f.uc.RequestExclusion(context.Background(), "comp-1", venda.ID, "user-2", dto.RequestExclusionRequest{Reason: "segunda tentativa"})
	require.NoError(t, err)
}

func TestListPendingExclusions_FilaDeRevisao(t *testing.T) {
	f := newVendaFixture(t)
	v1 := f.createVenda(t)
	f.createVenda(t) // segunda venda sem solicitação

	_, err := f.uc.RequestExclusion(context.Background(), "comp-1", v1.ID, "user-2", dto.RequestExclusionRequest{Reason: "duplicada"})
	require.NoError(t, err)

	pending, err := f.uc.ListPendingExclusions(context.Background(), "comp-1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, v1.ID, pending[0].ID)
}

func TestVenda_EscopoDeEmpresa(t *testing.T) {
	f := newVendaFixture(t)
	venda := f.createVenda(t)

	_, err := f.uc.GetByID(context.Background(), "comp-2", venda.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
