package simulator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/loantype"
	"loan-origination/internal/testutil/loantypemock"
)

func newUC() *Usecase {
	return NewUsecase(loantypemock.Static(loantype.DefaultCatalog()...))
}

func TestSimulate_PretPersonnel(t *testing.T) {
	got, err := newUC().Simulate(context.Background(), SimulateInput{
		LoanTypeID: "pret-personnel", Amount: 10000, DurationMonths: 36,
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if got.MonthlyPayment != 290.37 || got.TotalCost != 10453.38 || got.TotalInterest != 453.38 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.EstimatedRate != 2.9 || got.TAEG != 2.9 {
		t.Fatalf("rates = %v / %v, want min rate 2.9", got.EstimatedRate, got.TAEG)
	}
}

func TestSimulate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      SimulateInput
		wantErr error
		msg     string
	}{
		{"unknown loan type", SimulateInput{LoanTypeID: "nope", Amount: 1000, DurationMonths: 12}, apperr.ErrNotFound, "nope"},
		{"amount above max", SimulateInput{LoanTypeID: "pret-personnel", Amount: 75000.01, DurationMonths: 12}, apperr.ErrValidation, "75000.00"},
		{"amount below min", SimulateInput{LoanTypeID: "pret-personnel", Amount: 100, DurationMonths: 12}, apperr.ErrValidation, "500.00"},
		{"duration too long", SimulateInput{LoanTypeID: "pret-personnel", Amount: 1000, DurationMonths: 120}, apperr.ErrValidation, "6 to 84"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newUC().Simulate(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("message %q does not mention %q", err.Error(), tt.msg)
			}
		})
	}
}
