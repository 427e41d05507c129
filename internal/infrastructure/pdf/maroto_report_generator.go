// Package pdf gera o relatório de fechamento de caixa em PDF.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nome da empresa  │  Fechamento de Caixa + Data     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SESSÃO: abertura / fechamento / operadores / fundo de troco│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Hora | Itens | Forma de pagamento | Total          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAIS: por forma de pagamento / esperado em caixa /       │
//	│          apurado / diferença                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/caixapro/pdv-api/internal/application/usecase"
	"github.com/caixapro/pdv-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 16, Green: 94, Blue: 62}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var paymentLabels = map[string]string{
	entity.PayDinheiro: "Dinheiro",
	entity.PayCartao:   "Cartão",
	entity.PayPix:      "Pix",
}

var _ usecase.CaixaReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa usecase.CaixaReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator constrói o gerador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateClosingReport gera o PDF de fechamento e devolve seus bytes.
func (g *MarotoReportGenerator) GenerateClosingReport(
	_ context.Context,
	company *entity.Company,
	caixa *entity.Caixa,
	vendas []*entity.Venda,
	totals map[string]decimal.Decimal,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Fechamento de Caixa", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(company, caixa))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sessionRow(caixa))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableVendaRows(vendas) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(caixa, totals)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nome da empresa (esq) e título + data de abertura (dir).
func headerRow(company *entity.Company, caixa *entity.Caixa) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CPF/CNPJ: "+nonEmpty(company.CpfCnpj, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FECHAMENTO DE CAIXA", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(caixa.OpenedAt.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 8,
			}),
		),
	)
}

// sessionRow: dados da sessão (abertura, fechamento, fundo de troco).
func sessionRow(caixa *entity.Caixa) core.Row {
	fechamento := "em aberto"
	if caixa.ClosedAt != nil {
		fechamento = caixa.ClosedAt.Format("02/01/2006 15:04")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("SESSÃO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Abertura: %s   |   Fechamento: %s   |   Fundo de troco: %s",
				caixa.OpenedAt.Format("02/01/2006 15:04"),
				fechamento,
				formatBRL(caixa.InitialAmount),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Hora", 2, align.Left),
		h("Itens", 5, align.Left),
		h("Pagamento", 2, align.Center),
		h("Total", 3, align.Right),
	)
}

// tableVendaRows: uma linha por venda da sessão.
func tableVendaRows(vendas []*entity.Venda) []core.Row {
	result := make([]core.Row, 0, len(vendas))
	for _, v := range vendas {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				v.CreatedAt.Format("15:04"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(5).Add(text.New(
				itemsSummary(v.Items),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				paymentLabel(v.PaymentMethod),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				formatBRL(v.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRows: totais por forma de pagamento e conferência do dinheiro.
func totalsRows(caixa *entity.Caixa, totals map[string]decimal.Decimal) []core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1})
	}

	var rows []core.Row
	for _, method := range []string{entity.PayDinheiro, entity.PayCartao, entity.PayPix} {
		total, ok := totals[method]
		if !ok {
			total = decimal.Zero
		}
		rows = append(rows, row.New(6).Add(
			col.New(6),
			col.New(3).Add(label(paymentLabel(method)+":")),
			col.New(3).Add(value(formatBRL(total))),
		))
	}

	esperado := caixa.InitialAmount.Add(totals[entity.PayDinheiro])
	rows = append(rows, row.New(6).Add(
		col.New(6),
		col.New(3).Add(label("Esperado em caixa:")),
		col.New(3).Add(value(formatBRL(esperado))),
	))

	if caixa.ClosedAt != nil {
		diferenca := caixa.FinalAmount.Sub(esperado)
		rows = append(rows,
			row.New(6).Add(
				col.New(6),
				col.New(3).Add(label("Apurado:")),
				col.New(3).Add(value(formatBRL(caixa.FinalAmount))),
			),
			row.New(8).Add(
				col.New(6),
				col.New(3).Add(text.New("DIFERENÇA:", props.Text{
					Style: fontstyle.Bold, Size: 10, Align: align.Right,
					Color: colorPrimary, Right: 2, Top: 1,
				})),
				col.New(3).Add(text.New(formatBRL(diferenca), props.Text{
					Style: fontstyle.Bold, Size: 10, Align: align.Right,
					Color: colorPrimary, Right: 1, Top: 1,
				})),
			),
		)
	}
	return rows
}

func itemsSummary(items []entity.VendaItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.ProductName))
	}
	return strings.Join(parts, ", ")
}

func paymentLabel(method string) string {
	if label, ok := paymentLabels[method]; ok {
		return label
	}
	return method
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatBRL formata um decimal como moeda brasileira.
// Ex: 1234.5 → "R$ 1.234,50"
func formatBRL(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2) // "1234.50"
	intPart, fracPart, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, intPart[i])
	}

	out := "R$ " + string(buf) + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
