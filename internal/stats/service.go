package stats

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/comptoir-pos/comptoir-pos/internal/catalog"
)

const (
	// minSuggestionLength is the shortest search term that triggers a
	// datastore query; anything shorter short-circuits to an empty list.
	minSuggestionLength = 2
	suggestionCap       = 20
)

// CatalogReader is the product/user read model consumed by the service.
type CatalogReader interface {
	FindCashier(ctx context.Context, id int64) (*catalog.Cashier, error)
	SearchProducts(ctx context.Context, term string, limit int) ([]catalog.Product, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// Service coordinates aggregation queries, shaping and the cache layer.
type Service struct {
	repo    Repository
	catalog CatalogReader
	cache   *Cache
}

// NewService wires a Repository and CatalogReader with a Cache helper.
func NewService(repo Repository, cat CatalogReader, cache *Cache) *Service {
	return &Service{repo: repo, catalog: cat, cache: cache}
}

// ProductSummary resolves the aggregate totals for the filter scope.
// Zero matching rows yield the all-zero summary, never an error.
func (s *Service) ProductSummary(ctx context.Context, f StatsFilter) (ProductStatsSummary, error) {
	loader := func(ctx context.Context) (any, error) {
		rows, err := s.repo.SummarizeSales(ctx, f)
		if err != nil {
			return ProductStatsSummary{}, err
		}
		return ShapeSummary(rows), nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return ProductStatsSummary{}, err
		}
		return value.(ProductStatsSummary), nil
	}

	key, err := s.cache.BuildKey(ctx, keySummary(f)...)
	if err != nil {
		return ProductStatsSummary{}, err
	}
	var summary ProductStatsSummary
	if err := s.cache.FetchJSON(ctx, key, &summary, loader); err != nil {
		return ProductStatsSummary{}, err
	}
	return summary, nil
}

// DetailedReport composes the per-product breakdown, the extended summary
// and the optional cashier identity into one payload. The sub-queries run
// concurrently; no transaction spans them, so a report may observe rows
// written between the two aggregations.
func (s *Service) DetailedReport(ctx context.Context, f StatsFilter) (DetailedSalesReport, error) {
	loader := func(ctx context.Context) (any, error) {
		report := DetailedSalesReport{
			Period: f.PeriodEcho(),
			Filter: f.Applied(),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			rows, err := s.repo.SummarizeSales(gctx, f)
			if err != nil {
				return err
			}
			report.Summary = ShapeDetailedSummary(rows)
			return nil
		})
		g.Go(func() error {
			rows, err := s.repo.BreakdownByProduct(gctx, f)
			if err != nil {
				return err
			}
			report.Products = ShapeBreakdown(rows)
			return nil
		})
		if f.CashierID != nil {
			id := *f.CashierID
			g.Go(func() error {
				cashier, err := s.catalog.FindCashier(gctx, id)
				if err != nil {
					return err
				}
				report.Cashier = cashier
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return DetailedSalesReport{}, err
		}
		return report, nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return DetailedSalesReport{}, err
		}
		return value.(DetailedSalesReport), nil
	}

	key, err := s.cache.BuildKey(ctx, keyDetailed(f)...)
	if err != nil {
		return DetailedSalesReport{}, err
	}
	var report DetailedSalesReport
	if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
		return DetailedSalesReport{}, err
	}
	if report.Products == nil {
		report.Products = make([]ProductBreakdownRow, 0)
	}
	return report, nil
}

// Categories lists the distinct non-empty categories of active products.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.catalog.ListCategories(ctx)
}

// Suggestions returns product-name completions for the search term.
// Terms shorter than two characters return an empty list without touching
// the datastore.
func (s *Service) Suggestions(ctx context.Context, search string) ([]catalog.Product, error) {
	term := strings.TrimSpace(search)
	if utf8.RuneCountInString(term) < minSuggestionLength {
		return []catalog.Product{}, nil
	}
	products, err := s.catalog.SearchProducts(ctx, term, suggestionCap)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Listing returns the full product list alongside the category list for
// filter UI population.
func (s *Service) Listing(ctx context.Context) ([]catalog.Product, []string, error) {
	var (
		products   []catalog.Product
		categories []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.catalog.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.catalog.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return products, categories, nil
}

// Cache exposes the cache helper so checkout flows can bump the version.
func (s *Service) Cache() *Cache {
	return s.cache
}

func keySummary(f StatsFilter) []string {
	return append([]string{"stats", "summary"}, filterTokens(f)...)
}

func keyDetailed(f StatsFilter) []string {
	return append([]string{"stats", "detailed"}, filterTokens(f)...)
}

func filterTokens(f StatsFilter) []string {
	return []string{
		f.StartDate.Format(DateLayout),
		f.EndDate.Format(DateLayout),
		f.Category,
		f.ProductName,
		cashierToken(f.CashierID),
	}
}

func cashierToken(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}
