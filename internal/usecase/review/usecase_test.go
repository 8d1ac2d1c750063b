package review

import (
	"context"
	"errors"
	"testing"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/contract"
	"loan-origination/internal/domain/loantype"
	"loan-origination/internal/domain/uow"
	"loan-origination/internal/domain/user"
	"loan-origination/internal/events"
	"loan-origination/internal/testutil/applicationmock"
	"loan-origination/internal/testutil/contractmock"
	"loan-origination/internal/testutil/storemock"
	"loan-origination/internal/testutil/uowmock"
)

var (
	admin    = user.Principal{UserID: "u-admin", Role: user.RoleAdmin}
	borrower = user.Principal{UserID: "u-borrower", Role: user.RoleCustomer}
)

type fakeRenderer struct {
	calls int
	err   error
}

func (f *fakeRenderer) Render(_ context.Context, t contract.Terms) ([]byte, string, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}
	if _, ok := t.Applicant.(application.Particular); !ok {
		return nil, "", errors.New("unexpected applicant variant")
	}
	return []byte("contract " + t.ContractNumber), "application/pdf", nil
}

type recorder struct{ got []events.Event }

func (r *recorder) Publish(_ context.Context, e events.Event) { r.got = append(r.got, e) }

func (r *recorder) kinds() []events.Kind {
	var out []events.Kind
	for _, e := range r.got {
		out = append(out, e.Kind)
	}
	return out
}

// env is an in-memory application with at most one contract, shared by
// the mocks the same way rows are shared by a real transaction.
type env struct {
	app       *application.LoanApplication
	contracts []*contract.Contract
	apps      *applicationmock.Repo
	cons      *contractmock.Repo
	store     *storemock.Memory
	render    *fakeRenderer
	pub       *recorder
	uc        *Usecase
}

func newEnv(status application.Status) *env {
	e := &env{
		app: &application.LoanApplication{
			ID: 10, ApplicationID: "APP-10", UserID: borrower.UserID, Status: status,
			LoanType: &loantype.LoanType{ID: 1, Slug: "pret-personnel", Name: "Prêt personnel"},
		},
		store:  storemock.New(),
		render: &fakeRenderer{},
		pub:    &recorder{},
	}
	e.app.SetApplicant(application.Particular{MonthlyIncome: 3000, EmploymentStatus: "cdi"})
	e.apps = &applicationmock.Repo{
		GetByApplicationIDForUpdateFn: func(_ context.Context, id string) (*application.LoanApplication, error) {
			if id != e.app.ApplicationID {
				return nil, errors.New("record not found")
			}
			cp := *e.app
			return &cp, nil
		},
		SaveFn: func(_ context.Context, a *application.LoanApplication) error {
			cp := *a
			e.app = &cp
			return nil
		},
	}
	e.cons = &contractmock.Repo{
		GetByApplicationIDFn: func(_ context.Context, appID uint64) (*contract.Contract, error) {
			for _, c := range e.contracts {
				if c.ApplicationID == appID {
					return c, nil
				}
			}
			return (&contractmock.Repo{}).GetByApplicationID(context.Background(), appID)
		},
		CreateFn: func(_ context.Context, c *contract.Contract) error {
			for _, x := range e.contracts {
				if x.ApplicationID == c.ApplicationID {
					return contract.ErrDuplicate
				}
			}
			c.ID = uint64(len(e.contracts) + 1)
			e.contracts = append(e.contracts, c)
			return nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Applications: e.apps, Contracts: e.cons})
	e.uc = NewUsecase(tx, e.render, e.store, e.pub)
	return e
}

func TestApprove_CreatesExactlyOneContract(t *testing.T) {
	for _, from := range []application.Status{application.StatusPending, application.StatusUnderReview, application.StatusRejected} {
		t.Run(string(from), func(t *testing.T) {
			e := newEnv(from)
			e.app.StatusMessage = ptr("old reason")

			dto, err := e.uc.Approve(context.Background(), admin, "APP-10", "Bienvenue")
			if err != nil {
				t.Fatalf("Approve: %v", err)
			}
			if dto.Status != application.StatusApproved || dto.Contract == nil || dto.Contract.Status != contract.StatusGenerated {
				t.Fatalf("dto = %+v", dto)
			}
			if len(e.contracts) != 1 || e.app.ContractID == nil || *e.app.ContractID != e.contracts[0].ID {
				t.Fatalf("contract link broken: %+v / %+v", e.app, e.contracts)
			}
			if *e.app.StatusMessage != "Bienvenue" || *e.app.ReviewedBy != admin.UserID || e.app.ReviewedAt == nil {
				t.Fatalf("review metadata not recorded: %+v", e.app)
			}
			if e.store.Len() != 1 || e.contracts[0].FileURL == "" {
				t.Fatal("rendered contract not stored")
			}
			want := []events.Kind{events.ApplicationApproved, events.ContractGenerated}
			if got := e.pub.kinds(); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
				t.Fatalf("events = %v", got)
			}
		})
	}
}

func TestApprove_TwiceKeepsOneContract(t *testing.T) {
	e := newEnv(application.StatusPending)
	first, err := e.uc.Approve(context.Background(), admin, "APP-10", "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.uc.Approve(context.Background(), admin, "APP-10", "")
	if err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if len(e.contracts) != 1 || first.Contract.ContractID != second.Contract.ContractID {
		t.Fatalf("contracts = %d, ids %s / %s", len(e.contracts), first.Contract.ContractID, second.Contract.ContractID)
	}
	if e.render.calls != 1 {
		t.Fatalf("rendered %d times", e.render.calls)
	}
	if e.app.StatusMessage != nil {
		t.Fatalf("empty message must clear the status message, got %q", *e.app.StatusMessage)
	}
}

func TestApprove_LosesInsertRaceThenReusesWinner(t *testing.T) {
	e := newEnv(application.StatusPending)
	winner := &contract.Contract{ID: 77, ContractID: "WINNER", ApplicationID: 10, ContractNumber: "CTR-20250301-AAAAAAAA", Status: contract.StatusGenerated}

	lookups := 0
	inner := e.cons.GetByApplicationIDFn
	e.cons.GetByApplicationIDFn = func(ctx context.Context, appID uint64) (*contract.Contract, error) {
		lookups++
		if lookups == 1 {
			// the concurrent approve commits between our lookup and insert
			c, err := inner(ctx, appID)
			e.contracts = append(e.contracts, winner)
			return c, err
		}
		return inner(ctx, appID)
	}

	dto, err := e.uc.Approve(context.Background(), admin, "APP-10", "")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if dto.Contract.ContractID != "WINNER" || len(e.contracts) != 1 {
		t.Fatalf("dto = %+v, contracts = %d", dto.Contract, len(e.contracts))
	}
	if e.store.Len() != 0 || len(e.store.Deleted) != 1 {
		t.Fatalf("orphan render not cleaned up: left=%d deleted=%v", e.store.Len(), e.store.Deleted)
	}
	for _, k := range e.pub.kinds() {
		if k == events.ContractGenerated {
			t.Fatal("loser must not announce a generated contract")
		}
	}
}

func TestApprove_Guards(t *testing.T) {
	e := newEnv(application.StatusWithdrawn)
	if _, err := e.uc.Approve(context.Background(), borrower, "APP-10", ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("borrower: want Forbidden, got %v", err)
	}
	if _, err := e.uc.Approve(context.Background(), user.Principal{}, "APP-10", ""); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("anonymous: want Unauthenticated, got %v", err)
	}
	if _, err := e.uc.Approve(context.Background(), admin, "APP-10", ""); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("withdrawn: want Conflict, got %v", err)
	}
	if len(e.contracts) != 0 || len(e.pub.got) != 0 {
		t.Fatal("no side effects expected")
	}
}

func TestApprove_RenderFailureLeavesNothing(t *testing.T) {
	e := newEnv(application.StatusPending)
	e.render.err = errors.New("template broke")
	if _, err := e.uc.Approve(context.Background(), admin, "APP-10", ""); err == nil {
		t.Fatal("expected error")
	}
	if len(e.contracts) != 0 || e.app.Status != application.StatusPending {
		t.Fatalf("state changed: %+v", e.app)
	}
}

func TestReject(t *testing.T) {
	tests := []struct {
		name    string
		from    application.Status
		reason  string
		wantErr error
	}{
		{"pending", application.StatusPending, "Revenus insuffisants", nil},
		{"under review", application.StatusUnderReview, "Dossier incomplet", nil},
		{"empty reason", application.StatusPending, "   ", apperr.ErrValidation},
		{"already approved", application.StatusApproved, "trop tard", apperr.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(tt.from)
			dto, err := e.uc.Reject(context.Background(), admin, "APP-10", tt.reason)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				if e.app.Status != tt.from {
					t.Fatal("status changed on failure")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if dto.Status != application.StatusRejected || *e.app.StatusMessage != tt.reason {
				t.Fatalf("dto=%+v app=%+v", dto, e.app)
			}
			if len(e.pub.got) != 1 || e.pub.got[0].Kind != events.ApplicationRejected || e.pub.got[0].UserID != borrower.UserID {
				t.Fatalf("events = %+v", e.pub.got)
			}
		})
	}
}

func TestRequestInfo(t *testing.T) {
	e := newEnv(application.StatusPending)
	dto, err := e.uc.RequestInfo(context.Background(), admin, "APP-10", "Merci de fournir un RIB")
	if err != nil {
		t.Fatal(err)
	}
	if dto.Status != application.StatusUnderReview || *e.app.StatusMessage != "Merci de fournir un RIB" {
		t.Fatalf("dto = %+v", dto)
	}

	// a second request overwrites the message
	if _, err := e.uc.RequestInfo(context.Background(), admin, "APP-10", "Et un avis d'imposition"); err != nil {
		t.Fatal(err)
	}
	if *e.app.StatusMessage != "Et un avis d'imposition" {
		t.Fatalf("message = %q", *e.app.StatusMessage)
	}

	if _, err := e.uc.RequestInfo(context.Background(), admin, "APP-10", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("want Validation, got %v", err)
	}
	if _, err := e.uc.RequestInfo(context.Background(), borrower, "APP-10", "x"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("want Forbidden, got %v", err)
	}
}

func TestReview_UnknownApplication(t *testing.T) {
	e := newEnv(application.StatusPending)
	e.apps.GetByApplicationIDForUpdateFn = nil // mock default: record not found
	if _, err := e.uc.Reject(context.Background(), admin, "nope", "reason"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want NotFound, got %v", err)
	}
}

func ptr[T any](v T) *T { return &v }
