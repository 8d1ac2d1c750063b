package review

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/contract"
	"loan-origination/internal/domain/filestore"
	"loan-origination/internal/domain/uow"
	"loan-origination/internal/domain/user"
	"loan-origination/internal/events"
	"loan-origination/internal/infrastructure/logger"
	"loan-origination/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	tx       uow.UnitOfWork
	renderer contract.Renderer
	store    filestore.FileStore
	pub      events.Publisher
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, r contract.Renderer, store filestore.FileStore, pub events.Publisher) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Usecase{tx: tx, renderer: r, store: store, pub: pub, now: time.Now}
}

func guardAdmin(caller user.Principal) error {
	if !caller.Authenticated() {
		return apperr.Unauthenticated("authentication required")
	}
	if !caller.IsAdmin() {
		return apperr.Forbidden("admin role required")
	}
	return nil
}

// Approve moves the application to approved and guarantees a contract
// exists afterwards. Approving again keeps the existing contract. When a
// concurrent approve wins the insert race the whole transaction is retried
// once and then finds that contract.
func (u *Usecase) Approve(ctx context.Context, caller user.Principal, applicationID, message string) (*ReviewDTO, error) {
	if err := guardAdmin(caller); err != nil {
		return nil, err
	}
	dto, created, err := u.approveOnce(ctx, caller, applicationID, message)
	if errors.Is(err, contract.ErrDuplicate) {
		logger.Info(ctx, "review: contract race on %s, retrying", applicationID)
		dto, created, err = u.approveOnce(ctx, caller, applicationID, message)
	}
	if err != nil {
		return nil, apperr.FromLookup(err, "loan application %s not found", applicationID)
	}

	ev := events.New(events.ApplicationApproved)
	ev.UserID, ev.ActorID, ev.ApplicationID, ev.ContractID = dto.userID, caller.UserID, dto.ApplicationID, dto.Contract.ContractID
	ev.Message = message
	u.pub.Publish(ctx, ev)
	if created {
		ev := events.New(events.ContractGenerated)
		ev.UserID, ev.ActorID, ev.ApplicationID, ev.ContractID = dto.userID, caller.UserID, dto.ApplicationID, dto.Contract.ContractID
		u.pub.Publish(ctx, ev)
	}
	return &dto.ReviewDTO, nil
}

type approved struct {
	ReviewDTO
	userID string
}

func (u *Usecase) approveOnce(ctx context.Context, caller user.Principal, applicationID, message string) (approved, bool, error) {
	var (
		out      approved
		created  bool
		rendered string
	)
	err := u.tx.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *application.LoanApplication) error {
		next, err := application.Next(application.ActionApprove, a.Status)
		if err != nil {
			return err
		}

		c, err := r.Contracts.GetByApplicationID(ctx, a.ID)
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			now := u.now().UTC()
			c = &contract.Contract{
				ContractID:     id.NewID32(),
				ApplicationID:  a.ID,
				ContractNumber: id.NewContractNumber(now),
				Status:         contract.StatusGenerated,
			}
			loc, err := u.renderContract(ctx, r, a, c, message, now)
			if err != nil {
				return err
			}
			rendered = loc
			c.FileURL = loc
			if err := r.Contracts.Create(ctx, c); err != nil {
				return err
			}
			created = true
		default:
			return err
		}

		now := u.now().UTC()
		a.Status = next
		a.StatusMessage = nil
		if m := strings.TrimSpace(message); m != "" {
			a.StatusMessage = &m
		}
		a.ReviewedBy = &caller.UserID
		a.ReviewedAt = &now
		a.ContractID = &c.ID
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}

		out = approved{
			ReviewDTO: ReviewDTO{
				ApplicationID: a.ApplicationID,
				Status:        a.Status,
				StatusMessage: a.StatusMessage,
				ReviewedBy:    caller.UserID,
				ReviewedAt:    now,
				Contract:      &ContractRef{ContractID: c.ContractID, ContractNumber: c.ContractNumber, Status: c.Status},
			},
			userID: a.UserID,
		}
		return nil
	})
	if err != nil && rendered != "" {
		// the row never committed; drop the orphan file
		if derr := u.store.Delete(ctx, rendered); derr != nil {
			logger.Warn(ctx, "review: cleanup %s: %v", rendered, derr)
		}
	}
	return out, created, err
}

func (u *Usecase) renderContract(ctx context.Context, r uow.Repos, a *application.LoanApplication, c *contract.Contract, message string, now time.Time) (string, error) {
	ap, err := a.Applicant()
	if err != nil {
		return "", err
	}
	lt := a.LoanType
	if lt == nil {
		if lt, err = r.LoanTypes.GetByID(ctx, a.LoanTypeID); err != nil {
			return "", err
		}
	}
	// the borrower name falls back to the id when the profile is missing
	name := a.UserID
	if r.Users != nil {
		if usr, err := r.Users.GetByUserID(ctx, a.UserID); err == nil {
			if full := strings.TrimSpace(usr.FirstName + " " + usr.LastName); full != "" {
				name = full
			}
		}
	}

	body, contentType, err := u.renderer.Render(ctx, contract.Terms{
		ContractNumber: c.ContractNumber,
		Application:    a,
		LoanType:       lt,
		Applicant:      ap,
		BorrowerName:   name,
		Message:        message,
		IssuedAt:       now,
	})
	if err != nil {
		return "", err
	}
	return u.store.Put(ctx, "contracts/"+c.ContractNumber+extFor(contentType), bytes.NewReader(body), contentType)
}

func extFor(contentType string) string {
	switch contentType {
	case "application/pdf":
		return ".pdf"
	case "text/html; charset=utf-8", "text/html":
		return ".html"
	default:
		return ""
	}
}

// Reject requires a reason; it becomes the application's status message.
func (u *Usecase) Reject(ctx context.Context, caller user.Principal, applicationID, reason string) (*ReviewDTO, error) {
	if err := guardAdmin(caller); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("reason", "a rejection reason is required")
	}
	return u.transition(ctx, caller, applicationID, application.ActionReject, reason, events.ApplicationRejected)
}

// RequestInfo moves the application to under_review and overwrites its
// status message.
func (u *Usecase) RequestInfo(ctx context.Context, caller user.Principal, applicationID, message string) (*ReviewDTO, error) {
	if err := guardAdmin(caller); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.Validation("message", "a message is required")
	}
	return u.transition(ctx, caller, applicationID, application.ActionRequestInfo, message, events.InfoRequested)
}

func (u *Usecase) transition(ctx context.Context, caller user.Principal, applicationID string, action application.Action, message string, kind events.Kind) (*ReviewDTO, error) {
	var (
		dto    ReviewDTO
		userID string
	)
	err := u.tx.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *application.LoanApplication) error {
		next, err := application.Next(action, a.Status)
		if err != nil {
			return err
		}
		now := u.now().UTC()
		a.Status = next
		a.StatusMessage = &message
		a.ReviewedBy = &caller.UserID
		a.ReviewedAt = &now
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}
		userID = a.UserID
		dto = ReviewDTO{
			ApplicationID: a.ApplicationID,
			Status:        a.Status,
			StatusMessage: a.StatusMessage,
			ReviewedBy:    caller.UserID,
			ReviewedAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromLookup(err, "loan application %s not found", applicationID)
	}

	ev := events.New(kind)
	ev.UserID, ev.ActorID, ev.ApplicationID, ev.Message = userID, caller.UserID, dto.ApplicationID, message
	u.pub.Publish(ctx, ev)
	return &dto, nil
}
