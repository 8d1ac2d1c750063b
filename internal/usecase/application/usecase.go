package application

import (
	"context"
	"time"

	"loan-origination/internal/domain/apperr"
	domain "loan-origination/internal/domain/application"
	"loan-origination/internal/domain/document"
	"loan-origination/internal/domain/loantype"
	"loan-origination/internal/domain/readmodel"
	"loan-origination/internal/domain/uow"
	"loan-origination/internal/domain/user"
	"loan-origination/internal/events"
	"loan-origination/internal/infrastructure/logger"
	"loan-origination/internal/simulation"
	"loan-origination/internal/wizard"
	"loan-origination/pkg/id"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Usecase struct {
	apps  domain.Repository
	types loantype.Repository
	tx    uow.UnitOfWork
	pub   events.Publisher

	cache     readmodel.Cache
	cacheTTL  time.Duration
	recompute bool
	now       func() time.Time
}

type Option func(*Usecase)

// WithRecomputeEstimates makes Create overwrite client estimates with the
// server's own simulation at the loan type's minimum rate.
func WithRecomputeEstimates(on bool) Option { return func(u *Usecase) { u.recompute = on } }

func WithCache(c readmodel.Cache, ttl time.Duration) Option {
	return func(u *Usecase) { u.cache, u.cacheTTL = c, ttl }
}

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func NewUsecase(apps domain.Repository, types loantype.Repository, tx uow.UnitOfWork, pub events.Publisher, opts ...Option) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	u := &Usecase{apps: apps, types: types, tx: tx, pub: pub, now: time.Now}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Create validates the payload against the loan type and persists it as
// pending. Bounds are always checked here regardless of what the wizard
// already checked. The caller's unscoped documents of the required types
// are attached to the new application.
func (u *Usecase) Create(ctx context.Context, caller user.Principal, in CreateInput) (*ApplicationDTO, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}

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
	if err := domain.ValidateApplicant(in.ApplicationType, in.Applicant, in.Purpose); err != nil {
		return nil, err
	}

	rate, payment := in.EstimatedRate, in.EstimatedMonthlyPayment
	if u.recompute {
		p, err := simulation.MonthlyPayment(in.Amount, in.DurationMonths, lt.MinRate)
		if err != nil {
			return nil, apperr.Validation("amount", "%s", err.Error())
		}
		rate, payment = lt.MinRate, p
	}

	a := &domain.LoanApplication{
		ApplicationID:           id.NewID32(),
		UserID:                  caller.UserID,
		LoanTypeID:              lt.ID,
		Amount:                  in.Amount,
		DurationMonths:          in.DurationMonths,
		Purpose:                 in.Purpose,
		EstimatedRate:           rate,
		EstimatedMonthlyPayment: payment,
		Status:                  domain.StatusPending,
		SubmittedAt:             u.now().UTC(),
	}
	a.SetApplicant(in.Applicant)

	// Wizard uploads happen before the application exists; they move onto it
	// in the same tx as the insert.
	var attached int64
	err = u.tx.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Applications.Create(ctx, a); err != nil {
			return err
		}
		n, err := r.Documents.Attach(ctx, caller.UserID, a.ID, document.RequiredTypes(a.ApplicationType))
		attached = n
		return err
	})
	if err != nil {
		return nil, err
	}
	a.LoanType = lt
	if attached > 0 {
		logger.Info(ctx, "applications: attached %d documents to %s", attached, a.ApplicationID)
	}

	ev := events.New(events.ApplicationSubmitted)
	ev.UserID, ev.ActorID, ev.ApplicationID = a.UserID, caller.UserID, a.ApplicationID
	u.pub.Publish(ctx, ev)

	dto := ToDTO(a)
	return &dto, nil
}

// List returns the caller's applications, newest submission first.
func (u *Usecase) List(ctx context.Context, caller user.Principal) ([]ApplicationDTO, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	key := readmodel.UserApplicationsKey(caller.UserID)
	if u.cache != nil {
		var cached []ApplicationDTO
		if ok, err := u.cache.Get(ctx, key, &cached); err != nil {
			logger.Warn(ctx, "applications: cache get %s: %v", key, err)
		} else if ok {
			return cached, nil
		}
	}

	rows, err := u.apps.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}

	if u.cache != nil {
		if err := u.cache.Set(ctx, key, out, u.cacheTTL); err != nil {
			logger.Warn(ctx, "applications: cache set %s: %v", key, err)
		}
	}
	return out, nil
}

// Get is owner-only; admins may read any application.
func (u *Usecase) Get(ctx context.Context, caller user.Principal, applicationID string) (*ApplicationDTO, error) {
	a, err := u.load(ctx, caller, applicationID)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(a)
	return &dto, nil
}

func (u *Usecase) load(ctx context.Context, caller user.Principal, applicationID string) (*domain.LoanApplication, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	a, err := u.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, apperr.FromLookup(err, "loan application %s not found", applicationID)
	}
	if !a.OwnedBy(caller.UserID) && !caller.IsAdmin() {
		return nil, apperr.Forbidden("loan application %s belongs to another user", applicationID)
	}
	return a, nil
}

// Withdraw lets the owner pull back a pending or under_review application.
func (u *Usecase) Withdraw(ctx context.Context, caller user.Principal, applicationID string) (*ApplicationDTO, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	var dto ApplicationDTO
	err := u.tx.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domain.LoanApplication) error {
		if !a.OwnedBy(caller.UserID) {
			return apperr.Forbidden("loan application %s belongs to another user", applicationID)
		}
		next, err := domain.Next(domain.ActionWithdraw, a.Status)
		if err != nil {
			return err
		}
		a.Status = next
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}
		dto = ToDTO(a)
		return nil
	})
	if err != nil {
		return nil, apperr.FromLookup(err, "loan application %s not found", applicationID)
	}

	ev := events.New(events.ApplicationWithdrawn)
	ev.UserID, ev.ActorID, ev.ApplicationID = dto.UserID, caller.UserID, dto.ApplicationID
	u.pub.Publish(ctx, ev)
	return &dto, nil
}

type AdminListInput struct {
	Status   string
	Page     int
	PageSize int
}

// AdminList pages through every application, newest first.
func (u *Usecase) AdminList(ctx context.Context, caller user.Principal, in AdminListInput) (*PageDTO, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	if !caller.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}
	f := domain.ListFilter{Status: domain.Status(in.Status), Page: in.Page, PageSize: in.PageSize}
	switch f.Status {
	case "", domain.StatusPending, domain.StatusUnderReview, domain.StatusApproved, domain.StatusRejected, domain.StatusWithdrawn:
	default:
		return nil, apperr.Validation("status", "unknown status %q", in.Status)
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}

	rows, total, err := u.apps.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]ApplicationDTO, 0, len(rows))
	for i := range rows {
		items = append(items, ToDTO(&rows[i]))
	}
	return &PageDTO{Items: items, Page: f.Page, PageSize: f.PageSize, Total: total}, nil
}

// Submitter adapts Create to the wizard's final step for one caller.
func (u *Usecase) Submitter(caller user.Principal) wizard.Submitter {
	return wizard.SubmitterFunc(func(ctx context.Context, p wizard.Payload) (string, error) {
		dto, err := u.Create(ctx, caller, CreateInput{
			LoanTypeID:              p.LoanTypeID,
			Applicant:               p.Applicant,
			ApplicationType:         p.ApplicationType,
			Amount:                  p.Amount,
			DurationMonths:          p.DurationMonths,
			Purpose:                 p.Purpose,
			EstimatedRate:           p.EstimatedRate,
			EstimatedMonthlyPayment: p.EstimatedMonthlyPayment,
		})
		if err != nil {
			return "", err
		}
		return dto.ApplicationID, nil
	})
}
