package http

import (
	"net/http"

	"loan-origination/internal/usecase/catalog"
	"loan-origination/internal/usecase/simulator"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalog *catalog.Usecase
	sim     *simulator.Usecase
}

func NewCatalogHandler(c *catalog.Usecase, s *simulator.Usecase) *CatalogHandler {
	return &CatalogHandler{catalog: c, sim: s}
}

func (h *CatalogHandler) ListLoanTypes(c echo.Context) error {
	out, err := h.catalog.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetLoanType(c echo.Context) error {
	out, err := h.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type simulateReq struct {
	LoanTypeID     string  `json:"loan_type_id"    validate:"required"`
	Amount         float64 `json:"amount"          validate:"gt=0,dec2"`
	DurationMonths int     `json:"duration_months" validate:"gt=0"`
}

func (h *CatalogHandler) Simulate(c echo.Context) error {
	var req simulateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.sim.Simulate(c.Request().Context(), simulator.SimulateInput(req))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
