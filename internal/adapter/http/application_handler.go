package http

import (
	"net/http"
	"strconv"

	"loan-origination/internal/domain/apperr"
	domain "loan-origination/internal/domain/application"
	"loan-origination/internal/domain/loantype"
	"loan-origination/internal/usecase/application"
	"loan-origination/internal/usecase/catalog"
	"loan-origination/internal/wizard"

	"github.com/labstack/echo/v4"
)

type ApplicationHandler struct {
	uc      *application.Usecase
	catalog *catalog.Usecase
}

func NewApplicationHandler(uc *application.Usecase, cat *catalog.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, catalog: cat}
}

type particularReq struct {
	MonthlyIncome    float64 `json:"monthly_income"    validate:"dec2"`
	EmploymentStatus string  `json:"employment_status"`
}

type professionalReq struct {
	CompanyName   string  `json:"company_name"`
	Siret         string  `json:"siret"`
	AnnualRevenue float64 `json:"annual_revenue" validate:"dec2"`
}

// Exactly one of Particular/Professional must be sent, matching
// ApplicationType. Field-level rules live in the domain.
type createApplicationReq struct {
	LoanTypeID              string           `json:"loan_type_id"              validate:"required"`
	ApplicationType         string           `json:"application_type"          validate:"required,category"`
	Amount                  float64          `json:"amount"                    validate:"gt=0,dec2"`
	DurationMonths          int              `json:"duration_months"           validate:"gt=0"`
	Purpose                 string           `json:"purpose"`
	EstimatedRate           float64          `json:"estimated_rate"            validate:"gte=0"`
	EstimatedMonthlyPayment float64          `json:"estimated_monthly_payment" validate:"gte=0,dec2"`
	Particular              *particularReq   `json:"particular"`
	Professional            *professionalReq `json:"professional"`
}

func (r createApplicationReq) applicant() (domain.Applicant, error) {
	if r.Particular != nil && r.Professional != nil {
		return nil, apperr.Validation("application_type", "send either particular or professional details, not both")
	}
	switch loantype.Category(r.ApplicationType) {
	case loantype.CategoryParticular:
		if r.Particular == nil {
			return nil, apperr.Validation("particular", "is required")
		}
		return domain.Particular(*r.Particular), nil
	case loantype.CategoryProfessional:
		if r.Professional == nil {
			return nil, apperr.Validation("professional", "is required")
		}
		return domain.Professional(*r.Professional), nil
	default:
		return nil, apperr.Validation("application_type", "must be one of particular, professional")
	}
}

func (h *ApplicationHandler) Create(c echo.Context) error {
	var req createApplicationReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	ap, err := req.applicant()
	if err != nil {
		return fail(c, err)
	}
	dto, err := h.uc.Create(c.Request().Context(), caller(c), application.CreateInput{
		LoanTypeID:              req.LoanTypeID,
		Applicant:               ap,
		ApplicationType:         loantype.Category(req.ApplicationType),
		Amount:                  req.Amount,
		DurationMonths:          req.DurationMonths,
		Purpose:                 req.Purpose,
		EstimatedRate:           req.EstimatedRate,
		EstimatedMonthlyPayment: req.EstimatedMonthlyPayment,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ApplicationHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), caller(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	dto, err := h.uc.Get(c.Request().Context(), caller(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) Withdraw(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badPathID(c, "id")
	}
	dto, err := h.uc.Withdraw(c.Request().Context(), caller(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) AdminList(c echo.Context) error {
	in := application.AdminListInput{Status: c.QueryParam("status")}
	for name, dst := range map[string]*int{"page": &in.Page, "page_size": &in.PageSize} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fail(c, apperr.Validation(name, "must be a positive integer"))
		}
		*dst = n
	}
	out, err := h.uc.AdminList(c.Request().Context(), caller(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type validateStepReq struct {
	Step int         `json:"step" validate:"gte=1,lte=5"`
	Form wizard.Form `json:"form"`
}

type validateStepResp struct {
	Step                    int      `json:"step"`
	Valid                   bool     `json:"valid"`
	EstimatedRate           *float64 `json:"estimated_rate,omitempty"`
	EstimatedMonthlyPayment *float64 `json:"estimated_monthly_payment,omitempty"`
}

// ValidateStep runs one wizard step's rule server-side. Estimates are
// recomputed from the catalog when the loan type resolves.
func (h *ApplicationHandler) ValidateStep(c echo.Context) error {
	var req validateStepReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	f := &req.Form
	if f.LoanTypeID != "" {
		lt, err := h.catalog.Get(c.Request().Context(), f.LoanTypeID)
		if err != nil {
			return fail(c, err)
		}
		f.SelectLoanType(lt)
		if wizard.Step(req.Step) == wizard.StepSimulation {
			if err := lt.CheckAmount(f.Amount); err != nil {
				return fail(c, err)
			}
			if err := lt.CheckDuration(f.DurationMonths); err != nil {
				return fail(c, err)
			}
		}
	}
	if err := wizard.ValidateStep(c.Request().Context(), wizard.Step(req.Step), f); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, validateStepResp{
		Step:                    req.Step,
		Valid:                   true,
		EstimatedRate:           f.EstimatedRate,
		EstimatedMonthlyPayment: f.EstimatedMonthlyPayment,
	})
}
