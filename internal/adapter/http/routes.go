package http

import (
	"strconv"

	"loan-origination/internal/adapter/middleware"
	"loan-origination/internal/domain/user"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlers bundles every route group. Nil groups are not mounted.
type Handlers struct {
	Health        *Handler
	Catalog       *CatalogHandler
	Applications  *ApplicationHandler
	Documents     *DocumentHandler
	Reviews       *ReviewHandler
	Contracts     *ContractHandler
	Notifications *NotificationHandler
}

type RouteConfig struct {
	JWTSecret []byte
	// Idempotency guards loan application creation; nil disables it.
	Idempotency echo.MiddlewareFunc
	// MaxUploadBytes bounds multipart bodies; the usecases check the file
	// size again.
	MaxUploadBytes int64
}

func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.AccessLog())
	return e
}

func Register(e *echo.Echo, h Handlers, cfg RouteConfig) {
	if h.Health != nil {
		e.GET("/health", h.Health.Health)
	}

	v1 := e.Group("/api/v1")
	if h.Catalog != nil {
		v1.GET("/loan-types", h.Catalog.ListLoanTypes)
		v1.GET("/loan-types/:id", h.Catalog.GetLoanType)
		v1.POST("/loan-simulator", h.Catalog.Simulate)
	}

	auth := middleware.Auth(cfg.JWTSecret)
	admin := middleware.RequireRole(user.RoleAdmin)
	upload := echomw.BodyLimit(bodyLimit(cfg.MaxUploadBytes))
	idem := cfg.Idempotency
	if idem == nil {
		idem = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	api := v1.Group("", auth)
	if h.Applications != nil {
		api.POST("/loan-applications", h.Applications.Create, idem)
		api.GET("/loan-applications", h.Applications.List)
		api.POST("/loan-applications/wizard/validate", h.Applications.ValidateStep)
		api.GET("/loan-applications/:id", h.Applications.Get)
		api.POST("/loan-applications/:id/withdraw", h.Applications.Withdraw)
		api.GET("/admin/loan-applications", h.Applications.AdminList, admin)
	}
	if h.Reviews != nil {
		api.POST("/admin/loan-applications/:id/approve", h.Reviews.Approve, admin)
		api.POST("/admin/loan-applications/:id/reject", h.Reviews.Reject, admin)
		api.POST("/admin/loan-applications/:id/request-info", h.Reviews.RequestInfo, admin)
	}
	if h.Documents != nil {
		api.POST("/documents/upload", h.Documents.Upload, upload)
		api.GET("/documents", h.Documents.List)
		api.DELETE("/documents/:id", h.Documents.Delete)
		api.GET("/loan-applications/:id/documents/checklist", h.Documents.Checklist)
		api.POST("/admin/documents/:id/review", h.Documents.Review, admin)
	}
	if h.Contracts != nil {
		api.GET("/loan-applications/:id/contract", h.Contracts.ForApplication)
		api.GET("/contracts/:id", h.Contracts.Get)
		api.GET("/contracts/:id/pdf", h.Contracts.Document)
		api.POST("/contracts/:id/sign", h.Contracts.Sign)
		api.POST("/contracts/:id/signed-upload", h.Contracts.SignedUpload, upload)
		api.POST("/admin/contracts/:id/send", h.Contracts.Send, admin)
		api.POST("/admin/contracts/:id/verify", h.Contracts.Verify, admin)
	}
	if h.Notifications != nil {
		api.GET("/notifications", h.Notifications.List)
	}
}

// bodyLimit leaves room for the multipart envelope around the file.
func bodyLimit(maxUpload int64) string {
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	kb := (maxUpload + 64<<10) >> 10
	return strconv.FormatInt(kb, 10) + "K"
}
