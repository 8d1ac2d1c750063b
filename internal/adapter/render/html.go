// Package render produces the loan agreement as a self-contained HTML
// document.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/contract"
	"loan-origination/internal/simulation"

	"github.com/shopspring/decimal"
)

const ContentType = "text/html; charset=utf-8"

//go:embed templates/*.html
var templatesFS embed.FS

var _ contract.Renderer = (*HTML)(nil)

type HTML struct {
	tmpl *template.Template
}

func NewHTML() (*HTML, error) {
	t, err := template.New("contract.html").Funcs(template.FuncMap{
		"money": money,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &HTML{tmpl: t}, nil
}

type party struct {
	Kind  string
	Lines [][2]string
}

type view struct {
	Number        string
	IssuedAt      string
	ApplicationID string
	Borrower      string
	Product       string
	Amount        decimal.Decimal
	Months        int
	Rate          decimal.Decimal
	Monthly       decimal.Decimal
	TotalCost     decimal.Decimal
	Interest      decimal.Decimal
	Purpose       string
	Party         party
	Message       string
}

func (h *HTML) Render(_ context.Context, t contract.Terms) ([]byte, string, error) {
	if t.Application == nil || t.LoanType == nil {
		return nil, "", fmt.Errorf("render: application and loan type are required")
	}
	p, err := describeParty(t.Applicant)
	if err != nil {
		return nil, "", err
	}
	a := t.Application
	sim, err := simulation.Compute(simulation.Input{
		Amount:            a.Amount,
		DurationMonths:    a.DurationMonths,
		AnnualRatePercent: a.EstimatedRate,
	})
	if err != nil {
		return nil, "", fmt.Errorf("render: %w", err)
	}

	v := view{
		Number:        t.ContractNumber,
		IssuedAt:      t.IssuedAt.UTC().Format("02/01/2006"),
		Borrower:      t.BorrowerName,
		Product:       t.LoanType.Name,
		Amount:        decimal.NewFromFloat(a.Amount).Round(2),
		Months:        a.DurationMonths,
		Rate:          decimal.NewFromFloat(a.EstimatedRate).Round(3),
		Monthly:       sim.MonthlyPayment,
		TotalCost:     sim.TotalCost,
		Interest:      sim.TotalInterest,
		Purpose:       a.Purpose,
		Party:         p,
		Message:       t.Message,
		ApplicationID: a.ApplicationID,
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "contract.html", v); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ContentType, nil
}

// describeParty is the category-specific section of the agreement.
func describeParty(ap application.Applicant) (party, error) {
	switch v := ap.(type) {
	case application.Particular:
		return party{Kind: "Emprunteur particulier", Lines: [][2]string{
			{"Revenus mensuels", money(decimal.NewFromFloat(v.MonthlyIncome))},
			{"Situation professionnelle", v.EmploymentStatus},
		}}, nil
	case application.Professional:
		return party{Kind: "Emprunteur professionnel", Lines: [][2]string{
			{"Raison sociale", v.CompanyName},
			{"SIRET", v.Siret},
			{"Chiffre d'affaires annuel", money(decimal.NewFromFloat(v.AnnualRevenue))},
		}}, nil
	default:
		return party{}, fmt.Errorf("render: unsupported applicant %T", ap)
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2) + " €"
}
