// Package stats implements the sales statistics and reporting engine:
// filter normalization, SQL aggregation over order lines, numeric shaping
// of raw rows and composition of the report payloads.
package stats

import (
	"github.com/comptoir-pos/comptoir-pos/internal/catalog"
)

// ProductStatsSummary carries the aggregate totals for a filter scope.
// TotalCost is always derived as revenue minus profit, never queried.
type ProductStatsSummary struct {
	TotalQuantitySold float64 `json:"totalQuantitySold"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalProfit       float64 `json:"totalProfit"`
	TotalCost         float64 `json:"totalCost"`
	TotalOrders       int64   `json:"totalOrders"`
}

// ProductBreakdownRow is one product's contribution within the filter scope.
type ProductBreakdownRow struct {
	ProductID       int64   `json:"productId"`
	ProductName     string  `json:"productName"`
	ProductCategory string  `json:"productCategory"`
	ProductBarcode  string  `json:"productBarcode"`
	TotalQuantity   float64 `json:"totalQuantity"`
	TotalRevenue    float64 `json:"totalRevenue"`
	AvgPrice        float64 `json:"avgPrice"`
	TotalProfit     float64 `json:"totalProfit"`
}

// DetailedSummary extends the plain summary with the distinct cashier count.
type DetailedSummary struct {
	ProductStatsSummary
	UniqueCashiers int64 `json:"uniqueCashiers"`
}

// Period echoes the requested date range. IsSingleDay reflects the raw
// input dates, not the widened query boundary.
type Period struct {
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	IsSingleDay bool   `json:"isSingleDay"`
}

// AppliedFilter reports which product scope was effectively applied.
// Category and ProductName are mutually exclusive; All marks an unscoped
// report.
type AppliedFilter struct {
	Category    string `json:"category,omitempty"`
	ProductName string `json:"productName,omitempty"`
	All         bool   `json:"all,omitempty"`
}

// DetailedSalesReport is the full report payload. Cashier is null when no
// cashier was requested or when the requested id does not resolve.
type DetailedSalesReport struct {
	Products []ProductBreakdownRow `json:"products"`
	Summary  DetailedSummary       `json:"summary"`
	Period   Period                `json:"period"`
	Cashier  *catalog.Cashier      `json:"cashier"`
	Filter   AppliedFilter         `json:"filter"`
}

// RawSummaryRow holds aggregate values exactly as the driver returned
// them. Depending on the storage engine the numeric columns may surface as
// strings; the shaper owns the coercion.
type RawSummaryRow struct {
	Quantity any
	Revenue  any
	Profit   any
	Orders   any
	Cashiers any
}

// RawBreakdownRow is the unshaped per-product aggregation row.
type RawBreakdownRow struct {
	ProductID int64
	Name      string
	Category  string
	Barcode   string
	Quantity  any
	Revenue   any
	AvgPrice  any
	Profit    any
}
