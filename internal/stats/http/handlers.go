// Package statshttp exposes the statistics endpoints.
package statshttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/comptoir-pos/comptoir-pos/internal/catalog"
	"github.com/comptoir-pos/comptoir-pos/internal/platform/httpx"
	"github.com/comptoir-pos/comptoir-pos/internal/stats"
	"github.com/comptoir-pos/comptoir-pos/internal/stats/export"
	"github.com/comptoir-pos/comptoir-pos/internal/stats/svg"
)

const requestTimeout = 5 * time.Second

// StatsService defines the report data contract used by the handler.
type StatsService interface {
	ProductSummary(ctx context.Context, f stats.StatsFilter) (stats.ProductStatsSummary, error)
	DetailedReport(ctx context.Context, f stats.StatsFilter) (stats.DetailedSalesReport, error)
	Categories(ctx context.Context) ([]string, error)
	Suggestions(ctx context.Context, search string) ([]catalog.Product, error)
	Listing(ctx context.Context) ([]catalog.Product, []string, error)
}

// PDFService renders a detailed report to PDF bytes.
type PDFService interface {
	RenderSalesReport(ctx context.Context, report stats.DetailedSalesReport) ([]byte, error)
}

// Handler coordinates HTTP requests for sales statistics.
type Handler struct {
	logger   *slog.Logger
	service  StatsService
	pdf      PDFService
	validate *validator.Validate
	csvPool  sync.Pool
}

// NewHandler constructs the statistics HTTP handler.
func NewHandler(logger *slog.Logger, service StatsService, pdf PDFService) *Handler {
	h := &Handler{
		logger:   logger,
		service:  service,
		pdf:      pdf,
		validate: validator.New(),
	}
	h.csvPool.New = func() any { return new(bytes.Buffer) }
	return h
}

// reportQuery carries the raw filter values. Dates are format-checked
// here; cashierId is left to the normalizer, which owns its parsing and
// error message.
type reportQuery struct {
	StartDate   string `validate:"required,datetime=2006-01-02"`
	EndDate     string `validate:"omitempty,datetime=2006-01-02"`
	Category    string
	ProductName string
	CashierID   string
}

func (h *Handler) parseFilter(r *http.Request) (stats.StatsFilter, error) {
	q := r.URL.Query()
	form := reportQuery{
		StartDate:   strings.TrimSpace(q.Get("startDate")),
		EndDate:     strings.TrimSpace(q.Get("endDate")),
		Category:    q.Get("category"),
		ProductName: q.Get("productName"),
		CashierID:   strings.TrimSpace(q.Get("cashierId")),
	}
	if err := h.validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return stats.StatsFilter{}, fieldValidationError(fieldErrs[0])
		}
		return stats.StatsFilter{}, err
	}
	return stats.NormalizeFilter(stats.FilterInput{
		StartDate:   form.StartDate,
		EndDate:     form.EndDate,
		Category:    form.Category,
		ProductName: form.ProductName,
		CashierID:   form.CashierID,
	})
}

func fieldValidationError(fe validator.FieldError) stats.ValidationError {
	field := queryName(fe.Field())
	if fe.Tag() == "required" {
		return stats.ValidationError{Field: field}
	}
	return stats.ValidationError{Field: field, Reason: "malformed value"}
}

func queryName(structField string) string {
	switch structField {
	case "StartDate":
		return "startDate"
	case "EndDate":
		return "endDate"
	default:
		return structField
	}
}

func (h *Handler) handleProductSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.respondFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	summary, err := h.service.ProductSummary(ctx, filter)
	if err != nil {
		h.respondAggregationError(w, "compute product summary", err)
		return
	}
	httpx.OK(w, summary)
}

func (h *Handler) handleDetailedReport(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.respondFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.DetailedReport(ctx, filter)
	if err != nil {
		h.respondAggregationError(w, "compute detailed report", err)
		return
	}
	httpx.OK(w, report)
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	categories, err := h.service.Categories(ctx)
	if err != nil {
		h.respondAggregationError(w, "list categories", err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	httpx.OK(w, categories)
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	products, err := h.service.Suggestions(ctx, r.URL.Query().Get("search"))
	if err != nil {
		h.respondAggregationError(w, "search suggestions", err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	httpx.OK(w, products)
}

// listingResponse keeps the historical flattened shape of the
// all-products-categories endpoint: products and categories sit beside
// success rather than under data.
type listingResponse struct {
	Success    bool              `json:"success"`
	Products   []catalog.Product `json:"products"`
	Categories []string          `json:"categories"`
}

func (h *Handler) handleListing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	products, categories, err := h.service.Listing(ctx)
	if err != nil {
		h.respondAggregationError(w, "list products and categories", err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	if categories == nil {
		categories = []string{}
	}
	httpx.JSON(w, http.StatusOK, listingResponse{Success: true, Products: products, Categories: categories})
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.respondFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.DetailedReport(ctx, filter)
	if err != nil {
		h.respondAggregationError(w, "export report csv", err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteSummaryCSV(buf, report.Summary, report.Period); err != nil {
		h.respondAggregationError(w, "write summary csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteBreakdownCSV(buf, report.Products); err != nil {
		h.respondAggregationError(w, "write breakdown csv", err)
		return
	}

	filename := fmt.Sprintf("ventes-%s-%s.csv", report.Period.StartDate, report.Period.EndDate)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Report-ID", uuid.NewString())
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		h.respondAggregationError(w, "pdf exporter", errors.New("pdf exporter not configured"))
		return
	}
	filter, err := h.parseFilter(r)
	if err != nil {
		h.respondFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.DetailedReport(ctx, filter)
	if err != nil {
		h.respondAggregationError(w, "export report pdf", err)
		return
	}

	pdfBytes, err := h.pdf.RenderSalesReport(ctx, report)
	if err != nil {
		h.respondAggregationError(w, "render pdf", err)
		return
	}

	filename := fmt.Sprintf("ventes-%s-%s.pdf", report.Period.StartDate, report.Period.EndDate)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Report-ID", uuid.NewString())
	if _, err := w.Write(pdfBytes); err != nil {
		h.logError("stream pdf", err)
	}
}

func (h *Handler) handleTopProductsChart(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.respondFilterError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.DetailedReport(ctx, filter)
	if err != nil {
		h.respondAggregationError(w, "render chart", err)
		return
	}

	chart, err := svg.TopProducts(svg.DefaultWidth, svg.DefaultHeight, report.Products, svg.Opts{
		Title:       "Meilleures ventes",
		Description: "Chiffre d'affaires et bénéfice par produit",
	})
	if err != nil {
		h.respondAggregationError(w, "render chart", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := w.Write([]byte(chart)); err != nil {
		h.logError("stream chart", err)
	}
}

func (h *Handler) respondFilterError(w http.ResponseWriter, err error) {
	var vErr stats.ValidationError
	if errors.As(err, &vErr) {
		httpx.Fail(w, http.StatusBadRequest, vErr.Error())
		return
	}
	h.respondAggregationError(w, "parse filters", err)
}

func (h *Handler) respondAggregationError(w http.ResponseWriter, op string, err error) {
	h.logError(op, err)
	httpx.Fail(w, http.StatusInternalServerError, fmt.Sprintf("failed to %s: %v", op, err))
}

func (h *Handler) logError(op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err))
	}
}
