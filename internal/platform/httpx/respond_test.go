package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOKAlwaysEmitsData(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, []string{})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"success\":true,\"data\":[]}\n" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestFailOmitsData(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, http.StatusBadRequest, "startDate is required")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"success\":false,\"message\":\"startDate is required\"}\n" {
		t.Fatalf("unexpected body %q", got)
	}
}
