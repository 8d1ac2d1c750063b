package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/filestore"

	"github.com/labstack/echo/v4"
)

func TestFail_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validation("amount", "must be between %d and %d", 500, 75000), http.StatusBadRequest},
		{"not found", apperr.NotFound("loan type %s not found", "x"), http.StatusNotFound},
		{"missing file", fmt.Errorf("open: %w", filestore.ErrNotFound), http.StatusNotFound},
		{"forbidden", apperr.Forbidden("nope"), http.StatusForbidden},
		{"unauthenticated", apperr.Unauthenticated("who are you"), http.StatusUnauthorized},
		{"conflict", apperr.Conflict("cannot approve"), http.StatusConflict},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError},
	}
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			if err := fail(c, tc.err); err != nil {
				t.Fatalf("fail returned %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Error == "" {
				t.Fatalf("empty error message")
			}
			if tc.want == http.StatusInternalServerError && strings.Contains(body.Error, "exploded") {
				t.Fatalf("internal error leaked: %q", body.Error)
			}
		})
	}
}

func TestFail_ValidationCarriesField(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	_ = fail(c, apperr.Validation("siret", "must be exactly 14 digits"))

	var body ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.Details) != 1 || body.Details[0].Field != "siret" {
		t.Fatalf("expected siret detail, got %+v", body)
	}
}

func TestBindAndValidate(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	run := func(body string) (*httptest.ResponseRecorder, bool) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		var in simulateReq
		ok, err := bindAndValidate(e.NewContext(req, rec), &in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return rec, ok
	}

	if _, ok := run(`{"loan_type_id":"pret-personnel","amount":10000,"duration_months":36}`); !ok {
		t.Fatalf("expected valid body to pass")
	}
	if rec, ok := run(`{"loan_type_id":`); ok || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
	rec, ok := run(`{"loan_type_id":"pret-personnel","amount":10000.123,"duration_months":0}`)
	if ok || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a shape violation, got %d", rec.Code)
	}
	var body ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if !containsFieldMsg(body.Details, "amount", "2 decimal places") || !containsFieldMsg(body.Details, "duration_months", "greater than 0") {
		t.Fatalf("unexpected details: %+v", body.Details)
	}
}

func TestHTTPErrorHandler_UsesEnvelope(t *testing.T) {
	e := NewEcho()
	e.GET("/only-get", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestPathIDRejectsNonHex(t *testing.T) {
	e := NewEcho()
	e.GET("/things/:id", func(c echo.Context) error {
		if _, ok := pathID(c, "id"); !ok {
			return badPathID(c, "id")
		}
		return c.NoContent(http.StatusNoContent)
	})

	for path, want := range map[string]int{
		"/things/" + strings.Repeat("a", 32): http.StatusNoContent,
		"/things/" + strings.Repeat("A", 32): http.StatusBadRequest,
		"/things/42":                         http.StatusBadRequest,
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", path, want, rec.Code)
		}
	}
}

func TestBodyLimit(t *testing.T) {
	if got := bodyLimit(0); got != "10304K" {
		t.Fatalf("default limit: got %s", got)
	}
	if got := bodyLimit(1 << 20); got != "1088K" {
		t.Fatalf("1MiB limit: got %s", got)
	}
}
