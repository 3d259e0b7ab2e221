package statshttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers the statistics endpoints onto the router. Export
// routes carry a tighter rate limit because each render hits the database
// and, for PDF, an external converter.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	exportLimiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/products", h.handleProductSummary)
	r.Get("/detailed-report", h.handleDetailedReport)
	r.Get("/categories", h.handleCategories)
	r.Get("/suggestions", h.handleSuggestions)
	r.Get("/all-products-categories", h.handleListing)
	r.Get("/top-products.svg", h.handleTopProductsChart)

	r.Group(func(gr chi.Router) {
		gr.Use(exportLimiter)
		gr.Get("/detailed-report/export.csv", h.handleExportCSV)
		gr.Get("/detailed-report/export.pdf", h.handleExportPDF)
	})
}
