package statshttp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/comptoir-pos/comptoir-pos/internal/catalog"
	"github.com/comptoir-pos/comptoir-pos/internal/stats"
)

type stubService struct {
	summary     stats.ProductStatsSummary
	summaryErr  error
	report      stats.DetailedSalesReport
	reportErr   error
	categories  []string
	products    []catalog.Product
	lastFilter  stats.StatsFilter
	searchTerms []string
}

func (s *stubService) ProductSummary(ctx context.Context, f stats.StatsFilter) (stats.ProductStatsSummary, error) {
	s.lastFilter = f
	return s.summary, s.summaryErr
}

func (s *stubService) DetailedReport(ctx context.Context, f stats.StatsFilter) (stats.DetailedSalesReport, error) {
	s.lastFilter = f
	return s.report, s.reportErr
}

func (s *stubService) Categories(ctx context.Context) ([]string, error) {
	return s.categories, nil
}

func (s *stubService) Suggestions(ctx context.Context, search string) ([]catalog.Product, error) {
	s.searchTerms = append(s.searchTerms, search)
	if len(strings.TrimSpace(search)) < 2 {
		return []catalog.Product{}, nil
	}
	return s.products, nil
}

func (s *stubService) Listing(ctx context.Context) ([]catalog.Product, []string, error) {
	return s.products, s.categories, nil
}

type stubPDF struct {
	data []byte
	err  error
}

func (s *stubPDF) RenderSalesReport(ctx context.Context, report stats.DetailedSalesReport) ([]byte, error) {
	if s.data == nil {
		s.data = []byte("%PDF-1.4\nstub")
	}
	return s.data, s.err
}

func newTestRouter(t *testing.T, svc StatsService, pdf PDFService) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	handler := NewHandler(logger, svc, pdf)
	r := chi.NewRouter()
	r.Route("/stats", handler.MountRoutes)
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestProductSummaryEndpoint(t *testing.T) {
	svc := &stubService{summary: stats.ProductStatsSummary{TotalRevenue: 350, TotalProfit: 120.5, TotalCost: 229.5}}
	router := newTestRouter(t, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats/products?startDate=2025-03-15", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	if string(body["success"]) != "true" {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	var data stats.ProductStatsSummary
	if err := json.Unmarshal(body["data"], &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.TotalRevenue != 350 {
		t.Fatalf("unexpected revenue %v", data.TotalRevenue)
	}
	if !svc.lastFilter.SingleDay {
		t.Fatal("expected single-day filter passed to service")
	}
}

func TestProductSummaryMissingStartDate(t *testing.T) {
	router := newTestRouter(t, &stubService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if string(body["success"]) != "false" {
		t.Fatalf("expected failure envelope, got %s", rec.Body.String())
	}
	if !strings.Contains(string(body["message"]), "startDate") {
		t.Fatalf("expected startDate message, got %s", body["message"])
	}
}

func TestProductSummaryMalformedDate(t *testing.T) {
	router := newTestRouter(t, &stubService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats/products?startDate=15-03-2025", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestProductSummaryMalformedCashierID(t *testing.T) {
	router := newTestRouter(t, &stubService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats/products?startDate=2025-03-15&cashierId=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	if !strings.Contains(string(body["message"]), "cashierId") {
		t.Fatalf("expected cashierId message, got %s", body["message"])
	}
}

func TestDetailedReportEndpoint(t *testing.T) {
	svc := &stubService{report: stats.DetailedSalesReport{
		Products: []stats.ProductBreakdownRow{{ProductID: 7, ProductName: "Perrier 33cl"}},
		Period:   stats.Period{StartDate: "2025-03-15", EndDate: "2025-03-15", IsSingleDay: true},
		Filter:   stats.AppliedFilter{All: true},
	}}
	router := newTestRouter(t, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats/detailed-report?startDate=2025-03-15&cashierId=42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastFilter.CashierID == nil || *svc.lastFilter.CashierID != 42 {
		t.Fatalf("expected cashier filter, got %v", svc.lastFilter.CashierID)
	}
	// The cashier field must be present even when null.
	if !strings.Contains(rec.Body.String(), "\"cashier\":null") {
		t.Fatalf("expected explicit null cashier, got %s", rec.Body.String())
	}
}

func TestDetailedReportServiceError(t *testing.T) {
	svc := &stubService{reportErr: errors.New("boom")}
	router := newTestRouter(t, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats/detailed-report?startDate=2025-03-15", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if string(body["success"]) != "false" {
		t.Fatalf("expected failure envelope, got %s", rec.Body.String())
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubService{categories: []string{"Boissons", "Boulangerie"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats/categories", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	var data []string
	if err := json.Unmarshal(body["data"], &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("expected 2 categories, got %v", data)
	}
}

func TestSuggestionsShortTerm(t *testing.T) {
	svc := &stubService{products: []catalog.Product{{ID: 1, Name: "Perrier 33cl"}}}
	router := newTestRouter(t, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats/suggestions?search=a", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if string(body["data"]) != "[]" {
		t.Fatalf("expected empty data array, got %s", body["data"])
	}
}

func TestListingEndpointFlattened(t *testing.T) {
	svc := &stubService{
		products:   []catalog.Product{{ID: 1, Name: "Baguette"}},
		categories: []string{"Boulangerie"},
	}
	router := newTestRouter(t, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats/all-products-categories", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if _, ok := body["data"]; ok {
		t.Fatalf("listing must not nest under data: %s", rec.Body.String())
	}
	if _, ok := body["products"]; !ok {
		t.Fatalf("expected top-level products: %s", rec.Body.String())
	}
	if _, ok := body["categories"]; !ok {
		t.Fatalf("expected top-level categories: %s", rec.Body.String())
	}
}

func TestExportCSVEndpoint(t *testing.T) {
	svc := &stubService{report: stats.DetailedSalesReport{
		Products: []stats.ProductBreakdownRow{{ProductName: "Perrier 33cl", ProductCategory: "Boissons", TotalRevenue: 13.5}},
		Period:   stats.Period{StartDate: "2025-03-15", EndDate: "2025-03-15", IsSingleDay: true},
	}}
	router := newTestRouter(t, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats/detailed-report/export.csv?startDate=2025-03-15", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if rec.Header().Get("X-Report-ID") == "" {
		t.Fatal("expected report id header")
	}
	if !strings.Contains(rec.Body.String(), "Perrier 33cl") {
		t.Fatalf("expected breakdown row in csv: %s", rec.Body.String())
	}
}

func TestExportPDFEndpoint(t *testing.T) {
	svc := &stubService{report: stats.DetailedSalesReport{
		Period: stats.Period{StartDate: "2025-03-15", EndDate: "2025-03-16"},
	}}
	router := newTestRouter(t, svc, &stubPDF{})

	req := httptest.NewRequest(http.MethodGet, "/stats/detailed-report/export.pdf?startDate=2025-03-15&endDate=2025-03-16", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("expected pdf payload, got %q", rec.Body.String())
	}
}

func TestExportPDFRendererError(t *testing.T) {
	router := newTestRouter(t, &stubService{}, &stubPDF{err: errors.New("gotenberg down")})

	req := httptest.NewRequest(http.MethodGet, "/stats/detailed-report/export.pdf?startDate=2025-03-15", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestTopProductsChartEndpoint(t *testing.T) {
	svc := &stubService{report: stats.DetailedSalesReport{
		Products: []stats.ProductBreakdownRow{{ProductName: "Perrier 33cl", TotalRevenue: 540, TotalProfit: 180}},
		Period:   stats.Period{StartDate: "2025-03-15", EndDate: "2025-03-15", IsSingleDay: true},
	}}
	router := newTestRouter(t, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats/top-products.svg?startDate=2025-03-15", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Fatalf("expected svg payload, got %q", rec.Body.String())
	}
}
