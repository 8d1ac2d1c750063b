package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"loan-origination/internal/domain/application"
	"loan-origination/internal/domain/loantype"
	"loan-origination/internal/domain/notification"
	"loan-origination/internal/testutil/dbtest"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Open(t, Models()...)
}

func seedCatalog(t *testing.T, db *gorm.DB) map[string]loantype.LoanType {
	t.Helper()
	if err := NewLoanTypeRepository(db).Upsert(context.Background(), loantype.DefaultCatalog()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	var all []loantype.LoanType
	if err := db.Find(&all).Error; err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	out := make(map[string]loantype.LoanType, len(all))
	for _, lt := range all {
		out[lt.Slug] = lt
	}
	return out
}

func makeApplication(appID, userID string, lt loantype.LoanType, submitted time.Time) *application.LoanApplication {
	a := &application.LoanApplication{
		ApplicationID:  appID,
		UserID:         userID,
		LoanTypeID:     lt.ID,
		Amount:         10000,
		DurationMonths: 36,
		Purpose:        "Achat d'un véhicule d'occasion pour le travail",
		EstimatedRate:  lt.MinRate,
		Status:         application.StatusPending,
		SubmittedAt:    submitted.UTC(),
	}
	a.SetApplicant(application.Particular{MonthlyIncome: 3200, EmploymentStatus: "cdi"})
	return a
}

func TestLoanTypeRepository_ListActive(t *testing.T) {
	db := openTestDB(t)
	types := seedCatalog(t, db)
	ctx := context.Background()
	repo := NewLoanTypeRepository(db)

	// deactivate one product
	if err := db.Model(&loantype.LoanType{}).Where("slug = ?", "pret-auto").Update("active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	all, err := repo.ListActive(ctx, "")
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(all) != len(types)-1 {
		t.Fatalf("want %d active types, got %d", len(types)-1, len(all))
	}
	for _, lt := range all {
		if lt.Slug == "pret-auto" {
			t.Fatalf("inactive type listed")
		}
	}

	pro, err := repo.ListActive(ctx, loantype.CategoryProfessional)
	if err != nil {
		t.Fatalf("ListActive(professional): %v", err)
	}
	if len(pro) == 0 {
		t.Fatalf("expected professional types")
	}
	for _, lt := range pro {
		if lt.Category != loantype.CategoryProfessional {
			t.Fatalf("category filter leaked %s", lt.Slug)
		}
	}

	// slug lookup ignores the active flag
	got, err := repo.GetBySlug(ctx, "pret-auto")
	if err != nil || got.Active {
		t.Fatalf("GetBySlug inactive: got=%+v err=%v", got, err)
	}
	if len(got.Features) == 0 {
		t.Fatalf("features not decoded")
	}
	if _, err := repo.GetBySlug(ctx, "nope"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoanTypeRepository_UpsertIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()
	repo := NewLoanTypeRepository(db)

	changed := loantype.DefaultCatalog()
	changed[0].Name = "Prêt perso"
	if err := repo.Upsert(ctx, changed); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	var n int64
	db.Model(&loantype.LoanType{}).Count(&n)
	if int(n) != len(changed) {
		t.Fatalf("upsert duplicated rows: %d", n)
	}
	got, _ := repo.GetBySlug(ctx, changed[0].Slug)
	if got.Name != "Prêt perso" {
		t.Fatalf("name not updated: %s", got.Name)
	}
}

func TestApplicationRepository_CreateAndRead(t *testing.T) {
	db := openTestDB(t)
	types := seedCatalog(t, db)
	ctx := context.Background()
	repo := NewApplicationRepository(db)

	a := makeApplication("a1", "u1", types["pret-personnel"], time.Now())
	a.LoanType = &loantype.LoanType{Slug: "should-not-be-written"}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == 0 {
		t.Fatalf("auto id not set")
	}

	got, err := repo.GetByApplicationID(ctx, "a1")
	if err != nil {
		t.Fatalf("GetByApplicationID: %v", err)
	}
	if got.LoanType == nil || got.LoanType.Slug != "pret-personnel" {
		t.Fatalf("loan type not preloaded: %+v", got.LoanType)
	}
	ap, err := got.Applicant()
	if err != nil {
		t.Fatalf("Applicant: %v", err)
	}
	if p, ok := ap.(application.Particular); !ok || p.MonthlyIncome != 3200 {
		t.Fatalf("applicant round trip: %#v", ap)
	}

	var n int64
	db.Model(&loantype.LoanType{}).Where("slug = ?", "should-not-be-written").Count(&n)
	if n != 0 {
		t.Fatalf("association was upserted")
	}

	locked, err := repo.GetByApplicationIDForUpdate(ctx, "a1")
	if err != nil || locked.LoanType == nil {
		t.Fatalf("ForUpdate: %+v %v", locked, err)
	}
}

func TestApplicationRepository_ListByUserNewestFirst(t *testing.T) {
	db := openTestDB(t)
	types := seedCatalog(t, db)
	ctx := context.Background()
	repo := NewApplicationRepository(db)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if err := repo.Create(ctx, makeApplication(id, "u1", types["pret-auto"], base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if err := repo.Create(ctx, makeApplication("other", "u2", types["pret-auto"], base)); err != nil {
		t.Fatalf("create other: %v", err)
	}

	list, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 3 || list[0].ApplicationID != "new" || list[2].ApplicationID != "old" {
		t.Fatalf("unexpected order: %v", ids(list))
	}
}

func TestApplicationRepository_ListPaginates(t *testing.T) {
	db := openTestDB(t)
	types := seedCatalog(t, db)
	ctx := context.Background()
	repo := NewApplicationRepository(db)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		a := makeApplication(string(rune('a'+i)), "u1", types["pret-personnel"], base.Add(time.Duration(i)*time.Minute))
		if i%2 == 0 {
			a.Status = application.StatusUnderReview
		}
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, total, err := repo.List(ctx, application.ListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 || len(page) != 2 || page[0].ApplicationID != "c" {
		t.Fatalf("page 2: total=%d ids=%v", total, ids(page))
	}

	reviewing, total, err := repo.List(ctx, application.ListFilter{Status: application.StatusUnderReview, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List(status): %v", err)
	}
	if total != 3 || len(reviewing) != 3 {
		t.Fatalf("status filter: total=%d ids=%v", total, ids(reviewing))
	}
}

func ids(list []application.LoanApplication) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ApplicationID
	}
	return out
}

func notificationFor(userID, title string) *notification.Notification {
	return &notification.Notification{UserID: userID, Kind: "test", Title: title}
}
