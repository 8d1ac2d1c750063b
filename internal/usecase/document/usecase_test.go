package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/application"
	domain "loan-origination/internal/domain/document"
	"loan-origination/internal/domain/loantype"
	"loan-origination/internal/domain/uow"
	"loan-origination/internal/domain/user"
	"loan-origination/internal/events"
	"loan-origination/internal/testutil/applicationmock"
	"loan-origination/internal/testutil/documentmock"
	"loan-origination/internal/testutil/storemock"
	"loan-origination/internal/testutil/uowmock"
)

var (
	owner    = user.Principal{UserID: "u-owner", Role: user.RoleCustomer}
	stranger = user.Principal{UserID: "u-stranger", Role: user.RoleCustomer}
	admin    = user.Principal{UserID: "u-admin", Role: user.RoleAdmin}
)

const maxBytes = 1 << 20

type recorder struct{ got []events.Event }

func (r *recorder) Publish(_ context.Context, e events.Event) { r.got = append(r.got, e) }

// table is a tiny in-memory documents table behind documentmock.
type table struct {
	rows    []domain.Document
	failing bool
}

func sameScope(d domain.Document, s domain.Scope) bool {
	if d.UserID != s.UserID {
		return false
	}
	if s.ApplicationID == nil {
		return d.ApplicationID == nil
	}
	return d.ApplicationID != nil && *d.ApplicationID == *s.ApplicationID
}

func (tb *table) repo() *documentmock.Repo {
	return &documentmock.Repo{
		CreateFn: func(_ context.Context, d *domain.Document) error {
			if tb.failing {
				return errors.New("insert failed")
			}
			tb.rows = append(tb.rows, *d)
			return nil
		},
		SaveFn: func(_ context.Context, d *domain.Document) error {
			for i := range tb.rows {
				if tb.rows[i].DocumentID == d.DocumentID {
					tb.rows[i] = *d
				}
			}
			return nil
		},
		DeleteFn: func(_ context.Context, d *domain.Document) error {
			out := tb.rows[:0]
			for _, r := range tb.rows {
				if r.DocumentID != d.DocumentID {
					out = append(out, r)
				}
			}
			tb.rows = out
			return nil
		},
		GetByDocumentIDFn: func(ctx context.Context, id string) (*domain.Document, error) {
			for _, r := range tb.rows {
				if r.DocumentID == id {
					cp := r
					return &cp, nil
				}
			}
			return (&documentmock.Repo{}).GetByDocumentID(ctx, id)
		},
		ListByScopeFn: func(_ context.Context, s domain.Scope) ([]domain.Document, error) {
			var out []domain.Document
			for _, r := range tb.rows {
				if sameScope(r, s) {
					out = append(out, r)
				}
			}
			return out, nil
		},
		ListByScopeAndTypeFn: func(_ context.Context, s domain.Scope, t domain.Type) ([]domain.Document, error) {
			var out []domain.Document
			for _, r := range tb.rows {
				if sameScope(r, s) && r.Type == t {
					out = append(out, r)
				}
			}
			return out, nil
		},
		ListByApplicationFn: func(_ context.Context, appID uint64) ([]domain.Document, error) {
			var out []domain.Document
			for _, r := range tb.rows {
				if r.ApplicationID != nil && *r.ApplicationID == appID {
					out = append(out, r)
				}
			}
			return out, nil
		},
	}
}

type env struct {
	tb    *table
	store *storemock.Memory
	pub   *recorder
	uc    *Usecase
}

func newEnv() *env {
	app := &application.LoanApplication{ID: 5, ApplicationID: "APP-5", UserID: owner.UserID, ApplicationType: loantype.CategoryParticular}
	apps := &applicationmock.Repo{
		GetByApplicationIDFn: func(ctx context.Context, id string) (*application.LoanApplication, error) {
			if id == app.ApplicationID {
				cp := *app
				return &cp, nil
			}
			return (&applicationmock.Repo{}).GetByApplicationID(ctx, id)
		},
	}
	e := &env{tb: &table{}, store: storemock.New(), pub: &recorder{}}
	docs := e.tb.repo()
	tx := uowmock.Passthrough(uow.Repos{Applications: apps, Documents: docs})
	e.uc = NewUsecase(apps, docs, tx, e.store, e.pub, maxBytes)
	return e
}

func pdf(t domain.Type, body string) UploadInput {
	return UploadInput{
		Type: t, FileName: "scan.pdf", ContentType: "application/pdf",
		Size: int64(len(body)), Body: strings.NewReader(body), ApplicationID: "APP-5",
	}
}

func TestUpload_ReplacesSameTypeInScope(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	first, err := e.uc.Upload(ctx, owner, pdf(domain.TypeIdentity, "v1"))
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if _, err := e.uc.Upload(ctx, owner, pdf(domain.TypeIncomeProof, "payslip")); err != nil {
		t.Fatal(err)
	}
	second, err := e.uc.Upload(ctx, owner, pdf(domain.TypeIdentity, "v2"))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	docs, err := e.uc.List(ctx, owner, "APP-5")
	if err != nil {
		t.Fatal(err)
	}
	identities := 0
	for _, d := range docs {
		if d.Type == domain.TypeIdentity {
			identities++
			if d.DocumentID != second.DocumentID {
				t.Fatalf("stale identity document kept: %s", d.DocumentID)
			}
		}
	}
	if identities != 1 || len(docs) != 2 {
		t.Fatalf("identities=%d total=%d", identities, len(docs))
	}
	if _, err := e.store.Open(ctx, first.FileURL); err == nil {
		t.Fatal("replaced file still stored")
	}
	if e.store.Len() != 2 {
		t.Fatalf("stored objects = %d", e.store.Len())
	}
}

func TestUpload_UserScopeIsSeparate(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	if _, err := e.uc.Upload(ctx, owner, pdf(domain.TypeIdentity, "app")); err != nil {
		t.Fatal(err)
	}
	in := pdf(domain.TypeIdentity, "user")
	in.ApplicationID = ""
	if _, err := e.uc.Upload(ctx, owner, in); err != nil {
		t.Fatal(err)
	}
	if len(e.tb.rows) != 2 {
		t.Fatalf("scopes collapsed: %d rows", len(e.tb.rows))
	}
	userDocs, _ := e.uc.List(ctx, owner, "")
	if len(userDocs) != 1 || userDocs[0].ApplicationID != nil {
		t.Fatalf("user docs = %+v", userDocs)
	}
}

func TestUpload_RejectedFileTouchesNothing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UploadInput)
	}{
		{"too large", func(in *UploadInput) { in.Size = maxBytes + 1 }},
		{"empty", func(in *UploadInput) { in.Size = 0 }},
		{"wrong type", func(in *UploadInput) { in.ContentType = "application/x-msdownload" }},
		{"unknown document type", func(in *UploadInput) { in.Type = "selfie" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			ctx := context.Background()
			orig, err := e.uc.Upload(ctx, owner, pdf(domain.TypeIdentity, "keep me"))
			if err != nil {
				t.Fatal(err)
			}

			in := pdf(domain.TypeIdentity, "bad")
			tt.mutate(&in)
			if _, err := e.uc.Upload(ctx, owner, in); !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("want Validation, got %v", err)
			}
			if len(e.tb.rows) != 1 || e.tb.rows[0].DocumentID != orig.DocumentID || e.store.Len() != 1 {
				t.Fatal("existing document disturbed")
			}
		})
	}
}

func TestUpload_DBFailureDropsStoredFile(t *testing.T) {
	e := newEnv()
	e.tb.failing = true
	if _, err := e.uc.Upload(context.Background(), owner, pdf(domain.TypeIdentity, "x")); err == nil {
		t.Fatal("expected error")
	}
	if e.store.Len() != 0 {
		t.Fatal("orphan file left in store")
	}
	if len(e.pub.got) != 0 {
		t.Fatal("no event on failure")
	}
}

func TestUpload_Ownership(t *testing.T) {
	e := newEnv()
	if _, err := e.uc.Upload(context.Background(), stranger, pdf(domain.TypeIdentity, "x")); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("want Forbidden, got %v", err)
	}
	in := pdf(domain.TypeIdentity, "x")
	in.ApplicationID = "APP-404"
	if _, err := e.uc.Upload(context.Background(), owner, in); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want NotFound, got %v", err)
	}
	if e.store.Len() != 0 {
		t.Fatal("file stored despite rejection")
	}
}

func TestRemove(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	d, err := e.uc.Upload(ctx, owner, pdf(domain.TypeProofOfAddress, "bill"))
	if err != nil {
		t.Fatal(err)
	}

	if err := e.uc.Remove(ctx, stranger, d.DocumentID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("stranger: want Forbidden, got %v", err)
	}
	if err := e.uc.Remove(ctx, owner, d.DocumentID); err != nil {
		t.Fatal(err)
	}
	if len(e.tb.rows) != 0 || e.store.Len() != 0 {
		t.Fatal("document not removed")
	}
	if err := e.uc.Remove(ctx, owner, d.DocumentID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second remove: want NotFound, got %v", err)
	}
	last := e.pub.got[len(e.pub.got)-1]
	if last.Kind != events.DocumentDeleted || !last.Touches(events.ReadDocuments) {
		t.Fatalf("event = %+v", last)
	}
}

func TestChecklistAndReview(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	var ids []string
	for _, dt := range domain.RequiredTypes(loantype.CategoryParticular) {
		d, err := e.uc.Upload(ctx, owner, pdf(dt, string(dt)))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, d.DocumentID)
	}

	cl, err := e.uc.Checklist(ctx, owner, "APP-5")
	if err != nil {
		t.Fatal(err)
	}
	if !cl.Complete || cl.AllApproved || len(cl.Items) != 3 {
		t.Fatalf("checklist = %+v", cl)
	}

	if _, err := e.uc.Review(ctx, owner, ReviewInput{DocumentID: ids[0], Status: domain.StatusApproved}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("borrower review: want Forbidden, got %v", err)
	}
	if _, err := e.uc.Review(ctx, admin, ReviewInput{DocumentID: ids[0], Status: domain.StatusRejected}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("reject without reason: want Validation, got %v", err)
	}
	if _, err := e.uc.Review(ctx, admin, ReviewInput{DocumentID: ids[0], Status: "maybe"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("bad status: want Validation, got %v", err)
	}

	rejected, err := e.uc.Review(ctx, admin, ReviewInput{DocumentID: ids[0], Status: domain.StatusRejected, Reason: "illisible"})
	if err != nil || rejected.RejectionReason == nil || *rejected.RejectionReason != "illisible" {
		t.Fatalf("reject: %v %+v", err, rejected)
	}
	for _, id := range ids {
		if _, err := e.uc.Review(ctx, admin, ReviewInput{DocumentID: id, Status: domain.StatusApproved}); err != nil {
			t.Fatal(err)
		}
	}

	cl, err = e.uc.Checklist(ctx, admin, "APP-5")
	if err != nil || !cl.AllApproved {
		t.Fatalf("after approvals: %v %+v", err, cl)
	}
	for _, r := range e.tb.rows {
		if r.RejectionReason != nil {
			t.Fatal("approval must clear the earlier rejection reason")
		}
	}

	if _, err := e.uc.Checklist(ctx, stranger, "APP-5"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("stranger checklist: want Forbidden, got %v", err)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"scan.pdf":             "scan.pdf",
		"../../etc/passwd":     "passwd",
		`C:\Users\me\scan.pdf`: "scan.pdf",
		"":                     "document",
	}
	for in, want := range cases {
		if got := sanitizeName(in); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
