package document

import (
	"context"
	"path"
	"strings"
	"time"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/application"
	domain "loan-origination/internal/domain/document"
	"loan-origination/internal/domain/filestore"
	"loan-origination/internal/domain/uow"
	"loan-origination/internal/domain/user"
	"loan-origination/internal/events"
	"loan-origination/internal/infrastructure/logger"
	"loan-origination/pkg/id"

	"github.com/google/uuid"
)

// Accepted upload types, keyed by content type with the extension used for
// the stored object.
var AllowedContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

type Usecase struct {
	apps     application.Repository
	docs     domain.Repository
	tx       uow.UnitOfWork
	store    filestore.FileStore
	pub      events.Publisher
	maxBytes int64
	now      func() time.Time
}

func NewUsecase(apps application.Repository, docs domain.Repository, tx uow.UnitOfWork, store filestore.FileStore, pub events.Publisher, maxBytes int64) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Usecase{apps: apps, docs: docs, tx: tx, store: store, pub: pub, maxBytes: maxBytes, now: time.Now}
}

// CheckFile enforces the type and size limits. It runs before anything is
// stored so a bad file never touches existing documents.
func CheckFile(contentType string, size, maxBytes int64) error {
	if size <= 0 {
		return apperr.Validation("file", "file is empty")
	}
	if maxBytes > 0 && size > maxBytes {
		return apperr.Validation("file", "file is %d bytes, the limit is %d", size, maxBytes)
	}
	if _, ok := AllowedContentTypes[contentType]; !ok {
		return apperr.Validation("file", "content type %q is not accepted", contentType)
	}
	return nil
}

func (u *Usecase) ownedApplication(ctx context.Context, caller user.Principal, applicationID string, allowAdmin bool) (*application.LoanApplication, error) {
	a, err := u.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, apperr.FromLookup(err, "loan application %s not found", applicationID)
	}
	if !a.OwnedBy(caller.UserID) && !(allowAdmin && caller.IsAdmin()) {
		return nil, apperr.Forbidden("loan application %s belongs to another user", applicationID)
	}
	return a, nil
}

// Upload stores the file then replaces, in one transaction, every document
// of the same type in the same scope.
func (u *Usecase) Upload(ctx context.Context, caller user.Principal, in UploadInput) (*domain.Document, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	if !in.Type.Valid() {
		return nil, apperr.Validation("type", "unknown document type %q", in.Type)
	}
	if err := CheckFile(in.ContentType, in.Size, u.maxBytes); err != nil {
		return nil, err
	}

	scope := domain.Scope{UserID: caller.UserID}
	var app *application.LoanApplication
	if in.ApplicationID != "" {
		a, err := u.ownedApplication(ctx, caller, in.ApplicationID, false)
		if err != nil {
			return nil, err
		}
		app = a
		scope.ApplicationID = &a.ID
	}

	key := path.Join("documents", caller.UserID, uuid.NewString()+AllowedContentTypes[in.ContentType])
	loc, err := u.store.Put(ctx, key, in.Body, in.ContentType)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		DocumentID:    id.NewID32(),
		UserID:        caller.UserID,
		ApplicationID: scope.ApplicationID,
		Type:          in.Type,
		FileName:      sanitizeName(in.FileName),
		FileURL:       loc,
		ContentType:   in.ContentType,
		Size:          in.Size,
		Status:        domain.StatusPending,
	}
	var replaced []domain.Document
	err = u.tx.WithinTx(ctx, func(r uow.Repos) error {
		prev, err := r.Documents.ListByScopeAndType(ctx, scope, in.Type)
		if err != nil {
			return err
		}
		for i := range prev {
			if err := r.Documents.Delete(ctx, &prev[i]); err != nil {
				return err
			}
		}
		replaced = prev
		return r.Documents.Create(ctx, doc)
	})
	if err != nil {
		u.dropFile(ctx, loc)
		return nil, err
	}
	for _, p := range replaced {
		u.dropFile(ctx, p.FileURL)
	}

	ev := events.New(events.DocumentUploaded)
	ev.UserID, ev.ActorID, ev.DocumentID = caller.UserID, caller.UserID, doc.DocumentID
	if app != nil {
		ev.ApplicationID = app.ApplicationID
	}
	u.pub.Publish(ctx, ev)
	return doc, nil
}

func (u *Usecase) dropFile(ctx context.Context, loc string) {
	if err := u.store.Delete(ctx, loc); err != nil {
		logger.Warn(ctx, "documents: delete %s: %v", loc, err)
	}
}

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "document"
	}
	return name
}

// Remove deletes one of the caller's documents.
func (u *Usecase) Remove(ctx context.Context, caller user.Principal, documentID string) error {
	if !caller.Authenticated() {
		return apperr.Unauthenticated("authentication required")
	}
	d, err := u.docs.GetByDocumentID(ctx, documentID)
	if err != nil {
		return apperr.FromLookup(err, "document %s not found", documentID)
	}
	if d.UserID != caller.UserID {
		return apperr.Forbidden("document %s belongs to another user", documentID)
	}
	if err := u.docs.Delete(ctx, d); err != nil {
		return err
	}
	u.dropFile(ctx, d.FileURL)

	ev := events.New(events.DocumentDeleted)
	ev.UserID, ev.ActorID, ev.DocumentID = d.UserID, caller.UserID, d.DocumentID
	u.pub.Publish(ctx, ev)
	return nil
}

// List returns the documents of one application, or the caller's
// user-level documents when applicationID is empty.
func (u *Usecase) List(ctx context.Context, caller user.Principal, applicationID string) ([]domain.Document, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	var (
		out []domain.Document
		err error
	)
	if applicationID == "" {
		out, err = u.docs.ListByScope(ctx, domain.Scope{UserID: caller.UserID})
	} else {
		a, lerr := u.ownedApplication(ctx, caller, applicationID, true)
		if lerr != nil {
			return nil, lerr
		}
		out, err = u.docs.ListByApplication(ctx, a.ID)
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Document{}
	}
	return out, nil
}

// Checklist is computed on read; nothing aggregate is stored.
func (u *Usecase) Checklist(ctx context.Context, caller user.Principal, applicationID string) (*ChecklistDTO, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	a, err := u.ownedApplication(ctx, caller, applicationID, true)
	if err != nil {
		return nil, err
	}
	docs, err := u.docs.ListByApplication(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	items := domain.Checklist(a.ApplicationType, docs)
	dto := &ChecklistDTO{ApplicationID: a.ApplicationID, Items: items, Complete: true, AllApproved: true}
	for _, it := range items {
		dto.Complete = dto.Complete && it.Uploaded
		dto.AllApproved = dto.AllApproved && it.Approved
	}
	return dto, nil
}

// Review sets a document's status independently of its application.
func (u *Usecase) Review(ctx context.Context, caller user.Principal, in ReviewInput) (*domain.Document, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("authentication required")
	}
	if !caller.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}
	reason := strings.TrimSpace(in.Reason)
	switch in.Status {
	case domain.StatusApproved:
	case domain.StatusRejected:
		if reason == "" {
			return nil, apperr.Validation("reason", "a rejection reason is required")
		}
	default:
		return nil, apperr.Validation("status", "must be one of approved, rejected")
	}

	d, err := u.docs.GetByDocumentID(ctx, in.DocumentID)
	if err != nil {
		return nil, apperr.FromLookup(err, "document %s not found", in.DocumentID)
	}
	now := u.now().UTC()
	d.Status = in.Status
	d.RejectionReason = nil
	if in.Status == domain.StatusRejected {
		d.RejectionReason = &reason
	}
	d.ReviewedBy = &caller.UserID
	d.ReviewedAt = &now
	if err := u.docs.Save(ctx, d); err != nil {
		return nil, err
	}

	ev := events.New(events.DocumentReviewed)
	ev.UserID, ev.ActorID, ev.DocumentID, ev.Message = d.UserID, caller.UserID, d.DocumentID, reason
	u.pub.Publish(ctx, ev)
	return d, nil
}
