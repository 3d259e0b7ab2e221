package stats

import (
	"math"
	"strconv"
)

// toFloat64 is the single numeric coercion boundary for aggregation rows.
// The storage layer may hand back sums as strings or nulls; anything that
// does not coerce to a finite number becomes 0.
func toFloat64(v any) float64 {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int64:
		f = float64(val)
	case int32:
		f = float64(val)
	case int:
		f = float64(val)
	case uint64:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0
		}
		f = parsed
	case []byte:
		parsed, err := strconv.ParseFloat(string(val), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func toInt64(v any) int64 {
	return int64(toFloat64(v))
}

// ShapeSummary converts raw aggregation output into a strictly numeric
// summary. Rows are an ordered sequence, possibly empty; the first row
// wins and an empty set degrades to the all-zero summary. TotalCost is
// derived after coercion.
func ShapeSummary(rows []RawSummaryRow) ProductStatsSummary {
	var raw RawSummaryRow
	if len(rows) > 0 {
		raw = rows[0]
	}
	s := ProductStatsSummary{
		TotalQuantitySold: toFloat64(raw.Quantity),
		TotalRevenue:      toFloat64(raw.Revenue),
		TotalProfit:       toFloat64(raw.Profit),
		TotalOrders:       toInt64(raw.Orders),
	}
	s.TotalCost = s.TotalRevenue - s.TotalProfit
	return s
}

// ShapeDetailedSummary also carries the distinct cashier count.
func ShapeDetailedSummary(rows []RawSummaryRow) DetailedSummary {
	d := DetailedSummary{ProductStatsSummary: ShapeSummary(rows)}
	if len(rows) > 0 {
		d.UniqueCashiers = toInt64(rows[0].Cashiers)
	}
	return d
}

// ShapeBreakdown coerces per-product rows, preserving the query order.
func ShapeBreakdown(rows []RawBreakdownRow) []ProductBreakdownRow {
	shaped := make([]ProductBreakdownRow, 0, len(rows))
	for _, raw := range rows {
		shaped = append(shaped, ProductBreakdownRow{
			ProductID:       raw.ProductID,
			ProductName:     raw.Name,
			ProductCategory: raw.Category,
			ProductBarcode:  raw.Barcode,
			TotalQuantity:   toFloat64(raw.Quantity),
			TotalRevenue:    toFloat64(raw.Revenue),
			AvgPrice:        toFloat64(raw.AvgPrice),
			TotalProfit:     toFloat64(raw.Profit),
		})
	}
	return shaped
}
