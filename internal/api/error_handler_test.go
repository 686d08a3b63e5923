package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/verityai/kyc-platform/internal/core/domain"
)

func serveWithError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/boom", func(c echo.Context) error { return err })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return rec, body
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{domain.ErrCaseNotFound, http.StatusNotFound, "case not found"},
		{domain.ErrDocumentNotFound, http.StatusNotFound, "document not found"},
		{domain.ErrAPIKeyNotFound, http.StatusNotFound, "api key not found"},
	}

	for _, tc := range cases {
		rec, body := serveWithError(t, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if body["error"] != tc.msg {
			t.Fatalf("%v: unexpected message %q", tc.err, body["error"])
		}
	}
}

func TestHTTPErrorHandler_InvalidTransition(t *testing.T) {
	rec, body := serveWithError(t, domain.ErrInvalidTransition)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if body["error"] == "" {
		t.Fatalf("expected transition message in envelope")
	}
}

func TestHTTPErrorHandler_UnknownError(t *testing.T) {
	rec, body := serveWithError(t, errors.New("db exploded"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	// Internal details never leak to the client.
	if body["error"] != "internal server error" {
		t.Fatalf("unexpected message %q", body["error"])
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	rec, body := serveWithError(t, echo.NewHTTPError(http.StatusTeapot, "kettle"))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
	if body["error"] != "kettle" {
		t.Fatalf("unexpected message %q", body["error"])
	}
}
