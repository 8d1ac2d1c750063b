package simulator

import (
	"context"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/loantype"
	"loan-origination/internal/simulation"
)

type SimulateInput struct {
	LoanTypeID     string
	Amount         float64
	DurationMonths int
}

// SimulationDTO is non-binding. EstimatedRate and TAEG are both the loan
// type's minimum rate.
type SimulationDTO struct {
	LoanTypeID     string  `json:"loan_type_id"`
	Amount         float64 `json:"amount"`
	DurationMonths int     `json:"duration_months"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalCost      float64 `json:"total_cost"`
	TotalInterest  float64 `json:"total_interest"`
	EstimatedRate  float64 `json:"estimated_rate"`
	TAEG           float64 `json:"taeg"`
}

type Usecase struct{ types loantype.Repository }

func NewUsecase(r loantype.Repository) *Usecase { return &Usecase{types: r} }

func (u *Usecase) Simulate(ctx context.Context, in SimulateInput) (*SimulationDTO, error) {
	lt, err := u.types.GetBySlug(ctx, in.LoanTypeID)
	if err != nil {
		return nil, apperr.FromLookup(err, "loan type %s not found", in.LoanTypeID)
	}
	if err := lt.CheckAmount(in.Amount); err != nil {
		return nil, err
	}
	if err := lt.CheckDuration(in.DurationMonths); err != nil {
		return nil, err
	}

	res, err := simulation.Compute(simulation.Input{
		Amount:            in.Amount,
		DurationMonths:    in.DurationMonths,
		AnnualRatePercent: lt.MinRate,
	})
	if err != nil {
		return nil, apperr.Validation("amount", "%s", err.Error())
	}

	return &SimulationDTO{
		LoanTypeID:     lt.Slug,
		Amount:         in.Amount,
		DurationMonths: in.DurationMonths,
		MonthlyPayment: res.MonthlyPayment.InexactFloat64(),
		TotalCost:      res.TotalCost.InexactFloat64(),
		TotalInterest:  res.TotalInterest.InexactFloat64(),
		EstimatedRate:  lt.MinRate,
		TAEG:           lt.MinRate,
	}, nil
}
