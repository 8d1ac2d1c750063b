// Package app wires repositories, usecases and event subscribers into the
// HTTP handler set. cmd/api and the end-to-end tests build the service
// through it.
package app

import (
	"time"

	httpadp "loan-origination/internal/adapter/http"
	"loan-origination/internal/adapter/notify"
	"loan-origination/internal/adapter/repository/mysql"
	"loan-origination/internal/domain/contract"
	"loan-origination/internal/domain/filestore"
	"loan-origination/internal/domain/readmodel"
	"loan-origination/internal/events"
	"loan-origination/internal/usecase/application"
	"loan-origination/internal/usecase/catalog"
	contractuc "loan-origination/internal/usecase/contract"
	"loan-origination/internal/usecase/document"
	"loan-origination/internal/usecase/notification"
	"loan-origination/internal/usecase/review"
	"loan-origination/internal/usecase/simulator"

	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	Store    filestore.FileStore
	Renderer contract.Renderer
	// Cache may be nil; reads then always hit the database.
	Cache    readmodel.Cache
	CacheTTL time.Duration
	// Mailer may be nil when SMTP is not configured.
	Mailer         *notify.Mailer
	MaxUploadBytes int64

	RecomputeEstimates bool
}

type App struct {
	Bus      *events.Bus
	Handlers httpadp.Handlers
}

func New(d Deps) *App {
	repos := mysql.Repos(d.DB)
	tx := mysql.NewGormUoW(d.DB)

	bus := events.NewBus()
	if d.Cache != nil {
		bus.Subscribe("cache", notify.InvalidateCache(d.Cache))
	}
	bus.Subscribe("inbox", notify.Inbox(repos.Notifications))
	if d.Mailer != nil {
		bus.Subscribe("mail", d.Mailer.Handle)
	}

	cat := catalog.NewUsecase(repos.LoanTypes, d.Cache, d.CacheTTL)
	opts := []application.Option{application.WithRecomputeEstimates(d.RecomputeEstimates)}
	if d.Cache != nil {
		opts = append(opts, application.WithCache(d.Cache, d.CacheTTL))
	}
	apps := application.NewUsecase(repos.Applications, repos.LoanTypes, tx, bus, opts...)

	return &App{
		Bus: bus,
		Handlers: httpadp.Handlers{
			Health:        httpadp.NewHandler(),
			Catalog:       httpadp.NewCatalogHandler(cat, simulator.NewUsecase(repos.LoanTypes)),
			Applications:  httpadp.NewApplicationHandler(apps, cat),
			Documents:     httpadp.NewDocumentHandler(document.NewUsecase(repos.Applications, repos.Documents, tx, d.Store, bus, d.MaxUploadBytes)),
			Reviews:       httpadp.NewReviewHandler(review.NewUsecase(tx, d.Renderer, d.Store, bus)),
			Contracts:     httpadp.NewContractHandler(contractuc.NewUsecase(repos.Applications, repos.Contracts, tx, d.Store, bus, d.MaxUploadBytes)),
			Notifications: httpadp.NewNotificationHandler(notification.NewUsecase(repos.Notifications)),
		},
	}
}
