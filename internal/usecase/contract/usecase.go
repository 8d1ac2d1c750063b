package contract

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/application"
	domain "loan-origination/internal/domain/contract"
	"loan-origination/internal/domain/document"
	"loan-origination/internal/domain/filestore"
	"loan-origination/internal/domain/uow"
	"loan-origination/internal/domain/user"
	"loan-origination/internal/events"
	"loan-origination/internal/infrastructure/logger"
	"loan-origination/pkg/id"

	"github.com/google/uuid"
)

const SignedContentType = "application/pdf"

type SignedUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type VerifyInput struct {
	ContractID string
	Decision   string // verified | rejected
	Reason     string
}

type Usecase struct {
	apps      application.Repository
	contracts domain.Repository
	tx        uow.UnitOfWork
	store     filestore.FileStore
	pub       events.Publisher
	maxBytes  int64
	now       func() time.Time
}

func NewUsecase(apps application.Repository, contracts domain.Repository, tx uow.UnitOfWork, store filestore.FileStore, pub events.Publisher, maxBytes int64) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Usecase{apps: apps, contracts: contracts, tx: tx, store: store, pub: pub, maxBytes: maxBytes, now: time.Now}
}

func authorize(caller user.Principal, a *application.LoanApplication) error {
	if !caller.Authenticated() {
		return apperr.Unauthenticated("authentication required")
	}
	if !a.OwnedBy(caller.UserID) && !caller.IsAdmin() {
		return apperr.Forbidden("contract belongs to another user")
	}
	return nil
}

// ForApplication returns the contract attached to an application.
func (u *Usecase) ForApplication(ctx context.Context, caller user.Principal, applicationID string) (*domain.Contract, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	a, err := u.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, apperr.FromLookup(err, "loan application %s not found", applicationID)
	}
	if err := authorize(caller, a); err != nil {
		return nil, err
	}
	c, err := u.contracts.GetByApplicationID(ctx, a.ID)
	if err != nil {
		return nil, apperr.FromLookup(err, "no contract for loan application %s", applicationID)
	}
	return c, nil
}

func (u *Usecase) Get(ctx context.Context, caller user.Principal, contractID string) (*domain.Contract, error) {
	c, _, err := u.load(ctx, caller, contractID)
	return c, err
}

func (u *Usecase) load(ctx context.Context, caller user.Principal, contractID string) (*domain.Contract, *application.LoanApplication, error) {
	if !caller.Authenticated() {
		return nil, nil, apperr.Unauthenticated("authentication required")
	}
	c, err := u.contracts.GetByContractID(ctx, contractID)
	if err != nil {
		return nil, nil, apperr.FromLookup(err, "contract %s not found", contractID)
	}
	a, err := u.apps.GetByID(ctx, c.ApplicationID)
	if err != nil {
		return nil, nil, apperr.FromLookup(err, "loan application of contract %s not found", contractID)
	}
	if err := authorize(caller, a); err != nil {
		return nil, nil, err
	}
	return c, a, nil
}

// Open streams the generated agreement. The caller closes the reader.
func (u *Usecase) Open(ctx context.Context, caller user.Principal, contractID string) (io.ReadCloser, *domain.Contract, error) {
	c, _, err := u.load(ctx, caller, contractID)
	if err != nil {
		return nil, nil, err
	}
	if c.FileURL == "" {
		return nil, nil, apperr.NotFound("contract %s has no file", contractID)
	}
	rc, err := u.store.Open(ctx, c.FileURL)
	if err != nil {
		return nil, nil, err
	}
	return rc, c, nil
}

// Send marks the contract as handed to the borrower.
func (u *Usecase) Send(ctx context.Context, caller user.Principal, contractID string) (*domain.Contract, error) {
	if err := guardAdmin(caller); err != nil {
		return nil, err
	}
	c, owner, err := u.mutate(ctx, contractID, func(_ uow.Repos, c *domain.Contract, _ *application.LoanApplication) error {
		next, err := domain.Next(domain.ActionSend, c.Status)
		if err != nil {
			return err
		}
		now := u.now().UTC()
		c.Status = next
		c.SentAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publish(ctx, events.ContractSent, c, owner, caller.UserID, "")
	return c, nil
}

// Sign records the signed copy's location. Only the borrower signs, and
// only from generated, sent or rejected.
func (u *Usecase) Sign(ctx context.Context, caller user.Principal, contractID, signedFileURL string) (*domain.Contract, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	signedFileURL = strings.TrimSpace(signedFileURL)
	if signedFileURL == "" {
		return nil, apperr.Validation("signed_file_url", "is required")
	}
	c, owner, err := u.sign(ctx, caller, contractID, signedFileURL, nil)
	if err != nil {
		return nil, err
	}
	u.publish(ctx, events.ContractSigned, c, owner, caller.UserID, "")
	return c, nil
}

func (u *Usecase) sign(ctx context.Context, caller user.Principal, contractID, loc string, doc *document.Document) (*domain.Contract, *application.LoanApplication, error) {
	return u.mutate(ctx, contractID, func(r uow.Repos, c *domain.Contract, a *application.LoanApplication) error {
		if !a.OwnedBy(caller.UserID) {
			return apperr.Forbidden("only the borrower can sign contract %s", contractID)
		}
		next, err := domain.Next(domain.ActionSign, c.Status)
		if err != nil {
			return err
		}
		now := u.now().UTC()
		c.Status = next
		c.SignedFileURL = &loc
		c.SignedAt = &now
		c.RejectionReason = nil
		if doc == nil {
			return nil
		}
		doc.ApplicationID = &a.ID
		prev, err := r.Documents.ListByScopeAndType(ctx, document.Scope{UserID: a.UserID, ApplicationID: &a.ID}, document.TypeSignedContract)
		if err != nil {
			return err
		}
		for i := range prev {
			if err := r.Documents.Delete(ctx, &prev[i]); err != nil {
				return err
			}
		}
		return r.Documents.Create(ctx, doc)
	})
}

// UploadSigned checks the file, stores it, then signs. Nothing changes
// state when the file is refused.
func (u *Usecase) UploadSigned(ctx context.Context, caller user.Principal, contractID string, in SignedUpload) (*domain.Contract, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	if in.ContentType != SignedContentType {
		return nil, apperr.Validation("file", "signed contract must be a PDF, got %q", in.ContentType)
	}
	if in.Size <= 0 {
		return nil, apperr.Validation("file", "file is empty")
	}
	if u.maxBytes > 0 && in.Size > u.maxBytes {
		return nil, apperr.Validation("file", "file is %d bytes, the limit is %d", in.Size, u.maxBytes)
	}

	// fail fast before storing anything
	c, a, err := u.load(ctx, caller, contractID)
	if err != nil {
		return nil, err
	}
	if !a.OwnedBy(caller.UserID) {
		return nil, apperr.Forbidden("only the borrower can sign contract %s", contractID)
	}
	if _, err := domain.Next(domain.ActionSign, c.Status); err != nil {
		return nil, err
	}

	key := path.Join("contracts", "signed", c.ContractNumber+"-"+uuid.NewString()+".pdf")
	loc, err := u.store.Put(ctx, key, in.Body, SignedContentType)
	if err != nil {
		return nil, err
	}
	doc := &document.Document{
		DocumentID:  id.NewID32(),
		UserID:      a.UserID,
		Type:        document.TypeSignedContract,
		FileName:    c.ContractNumber + "-signed.pdf",
		FileURL:     loc,
		ContentType: SignedContentType,
		Size:        in.Size,
		Status:      document.StatusPending,
	}
	signed, owner, err := u.sign(ctx, caller, contractID, loc, doc)
	if err != nil {
		if derr := u.store.Delete(ctx, loc); derr != nil {
			logger.Warn(ctx, "contracts: cleanup %s: %v", loc, derr)
		}
		return nil, err
	}
	u.publish(ctx, events.ContractSigned, signed, owner, caller.UserID, "")
	return signed, nil
}

// Verify is the admin decision on a signed contract. Rejecting requires a
// reason and reopens the contract for signing.
func (u *Usecase) Verify(ctx context.Context, caller user.Principal, in VerifyInput) (*domain.Contract, error) {
	if err := guardAdmin(caller); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	var (
		action domain.Action
		kind   events.Kind
	)
	switch in.Decision {
	case string(domain.StatusVerified):
		action, kind = domain.ActionVerify, events.ContractVerified
	case string(domain.StatusRejected):
		if reason == "" {
			return nil, apperr.Validation("reason", "a rejection reason is required")
		}
		action, kind = domain.ActionReject, events.ContractRejected
	default:
		return nil, apperr.Validation("decision", "must be one of verified, rejected")
	}

	c, owner, err := u.mutate(ctx, in.ContractID, func(_ uow.Repos, c *domain.Contract, _ *application.LoanApplication) error {
		next, err := domain.Next(action, c.Status)
		if err != nil {
			return err
		}
		now := u.now().UTC()
		c.Status = next
		c.VerifiedBy = &caller.UserID
		c.VerifiedAt = &now
		c.RejectionReason = nil
		if action == domain.ActionReject {
			c.RejectionReason = &reason
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publish(ctx, kind, c, owner, caller.UserID, reason)
	return c, nil
}

// mutate locks the contract, loads its application and saves the contract
// after fn.
func (u *Usecase) mutate(ctx context.Context, contractID string, fn func(r uow.Repos, c *domain.Contract, a *application.LoanApplication) error) (*domain.Contract, *application.LoanApplication, error) {
	var (
		out   *domain.Contract
		owner *application.LoanApplication
	)
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Contracts.GetByContractIDForUpdate(ctx, contractID)
		if err != nil {
			return apperr.FromLookup(err, "contract %s not found", contractID)
		}
		a, err := r.Applications.GetByID(ctx, c.ApplicationID)
		if err != nil {
			return apperr.FromLookup(err, "loan application of contract %s not found", contractID)
		}
		if err := fn(r, c, a); err != nil {
			return err
		}
		if err := r.Contracts.Save(ctx, c); err != nil {
			return err
		}
		out, owner = c, a
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, owner, nil
}

func (u *Usecase) publish(ctx context.Context, kind events.Kind, c *domain.Contract, a *application.LoanApplication, actorID, message string) {
	ev := events.New(kind)
	ev.UserID, ev.ActorID, ev.ApplicationID = a.UserID, actorID, a.ApplicationID
	ev.ContractID, ev.Message = c.ContractID, message
	u.pub.Publish(ctx, ev)
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
