package usecase_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixapro/pdv-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositórios em memória para os casos de uso de PDV
// ──────────────────────────────────────────────────────────────────────────────

type memVendaRepo struct {
	vendas map[string]*entity.Venda
}

func newMemVendaRepo() *memVendaRepo {
	return &memVendaRepo{vendas: map[string]*entity.Venda{}}
}

func (r *memVendaRepo) Create(_ context.Context, venda *entity.Venda) error {
	cp := *venda
	r.vendas[venda.ID] = &cp
	return nil
}

func (r *memVendaRepo) GetByID(_ context.Context, id string) (*entity.Venda, error) {
	v, ok := r.vendas[id]
	if !ok || v.DeletedAt != nil {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *memVendaRepo) Update(_ context.Context, venda *entity.Venda) error {
	if _, ok := r.vendas[venda.ID]; !ok {
		return fmt.Errorf("venda %s não existe", venda.ID)
	}
	cp := *venda
	r.vendas[venda.ID] = &cp
	return nil
}

func (r *memVendaRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Venda, error) {
	var out []*entity.Venda
	for _, v := range r.vendas {
		if v.CompanyID == companyID && v.DeletedAt == nil {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memVendaRepo) ListByCaixa(_ context.Context, caixaID string) ([]*entity.Venda, error) {
	var out []*entity.Venda
	for _, v := range r.vendas {
		if v.CaixaID == caixaID && v.DeletedAt == nil {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memVendaRepo) ListPendingExclusions(_ context.Context, companyID string) ([]*entity.Venda, error) {
	var out []*entity.Venda
	for _, v := range r.vendas {
		if v.CompanyID == companyID && v.DeletedAt == nil && v.ExclusionStatus == entity.ExclusionPending {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memVendaRepo) TotalsByPaymentMethod(_ context.Context, companyID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	totals := map[string]decimal.Decimal{}
	for _, v := range r.vendas {
		if v.CompanyID != companyID || v.DeletedAt != nil {
			continue
		}
		if v.CreatedAt.Before(from) || !v.CreatedAt.Before(to) {
			continue
		}
		totals[v.PaymentMethod] = totals[v.PaymentMethod].Add(v.Total)
	}
	return totals, nil
}

type memCaixaRepo struct {
	caixas map[string]*entity.Caixa
}

func newMemCaixaRepo() *memCaixaRepo {
	return &memCaixaRepo{caixas: map[string]*entity.Caixa{}}
}

func (r *memCaixaRepo) Create(_ context.Context, caixa *entity.Caixa) error {
	cp := *caixa
	r.caixas[caixa.ID] = &cp
	return nil
}

func (r *memCaixaRepo) GetByID(_ context.Context, id string) (*entity.Caixa, error) {
	c, ok := r.caixas[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCaixaRepo) GetOpenByCompany(_ context.Context, companyID string) (*entity.Caixa, error) {
	for _, c := range r.caixas {
		if c.CompanyID == companyID && c.Status == entity.CaixaOpen {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCaixaRepo) Update(_ context.Context, caixa *entity.Caixa) error {
	if _, ok := r.caixas[caixa.ID]; !ok {
		return fmt.Errorf("caixa %s não existe", caixa.ID)
	}
	cp := *caixa
	r.caixas[caixa.ID] = &cp
	return nil
}

func (r *memCaixaRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Caixa, error) {
	var out []*entity.Caixa
	for _, c := range r.caixas {
		if c.CompanyID == companyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memProductRepo struct {
	products map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[string]*entity.Product{}}
}

func (r *memProductRepo) Create(_ context.Context, product *entity.Product) error {
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) Update(_ context.Context, product *entity.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("produto %s não existe", product.ID)
	}
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) Search(_ context.Context, companyID, _ string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) RenameCategory(_ context.Context, companyID, from, to string) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.CompanyID == companyID && p.Category == from {
			p.Category = to
			n++
		}
	}
	return n, nil
}

type memCompanyRepo struct {
	companies map[string]*entity.Company
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{companies: map[string]*entity.Company{}}
}

func (r *memCompanyRepo) Create(_ context.Context, company *entity.Company) error {
	cp := *company
	r.companies[company.ID] = &cp
	return nil
}

func (r *memCompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCompanyRepo) GetByCpfCnpj(_ context.Context, cpfCnpj string) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.CpfCnpj == cpfCnpj {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCompanyRepo) Update(_ context.Context, company *entity.Company) error {
	if _, ok := r.companies[company.ID]; !ok {
		return fmt.Errorf("empresa %s não existe", company.ID)
	}
	cp := *company
	r.companies[company.ID] = &cp
	return nil
}

func (r *memCompanyRepo) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range r.companies {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// fakeReportGenerator devolve bytes fixos; registra a última chamada.
type fakeReportGenerator struct {
	calls int
}

func (g *fakeReportGenerator) GenerateClosingReport(_ context.Context, _ *entity.Company, _ *entity.Caixa, _ []*entity.Venda, _ map[string]decimal.Decimal) ([]byte, error) {
	g.calls++
	return []byte("%PDF-fake"), nil
}
