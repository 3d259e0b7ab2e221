package stats

import (
	"math"
	"testing"
)

func TestToFloat64Coercions(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"nil", nil, 0},
		{"float64", 12.5, 12.5},
		{"int64", int64(7), 7},
		{"numeric string", "123.45", 123.45},
		{"bytes", []byte("9.5"), 9.5},
		{"garbage string", "abc", 0},
		{"nan", math.NaN(), 0},
		{"positive inf", math.Inf(1), 0},
		{"unsupported type", struct{}{}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := toFloat64(tc.input); got != tc.want {
				t.Fatalf("toFloat64(%v) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestShapeSummaryEmptyRows(t *testing.T) {
	summary := ShapeSummary(nil)
	if summary.TotalQuantitySold != 0 || summary.TotalRevenue != 0 ||
		summary.TotalProfit != 0 || summary.TotalCost != 0 || summary.TotalOrders != 0 {
		t.Fatalf("empty rows must shape to the all-zero summary, got %+v", summary)
	}
}

func TestShapeSummaryDerivesCost(t *testing.T) {
	rows := []RawSummaryRow{{
		Quantity: "14",
		Revenue:  "350.00",
		Profit:   "120.50",
		Orders:   int64(6),
		Cashiers: int64(2),
	}}
	summary := ShapeSummary(rows)
	if summary.TotalRevenue != 350 {
		t.Fatalf("expected revenue 350, got %v", summary.TotalRevenue)
	}
	if summary.TotalCost != 350-120.5 {
		t.Fatalf("totalCost must be revenue minus profit, got %v", summary.TotalCost)
	}
	if summary.TotalOrders != 6 {
		t.Fatalf("expected 6 orders, got %d", summary.TotalOrders)
	}
}

func TestShapeSummaryFirstRowWins(t *testing.T) {
	rows := []RawSummaryRow{
		{Revenue: 100.0, Profit: 40.0},
		{Revenue: 999.0, Profit: 999.0},
	}
	if got := ShapeSummary(rows).TotalRevenue; got != 100 {
		t.Fatalf("first row should win, got revenue %v", got)
	}
}

func TestShapeDetailedSummaryCashiers(t *testing.T) {
	rows := []RawSummaryRow{{Cashiers: "3"}}
	if got := ShapeDetailedSummary(rows).UniqueCashiers; got != 3 {
		t.Fatalf("expected 3 cashiers, got %d", got)
	}
	if got := ShapeDetailedSummary(nil).UniqueCashiers; got != 0 {
		t.Fatalf("empty rows must yield 0 cashiers, got %d", got)
	}
}

func TestShapeBreakdownPreservesOrder(t *testing.T) {
	rows := []RawBreakdownRow{
		{ProductID: 2, Name: "Perrier 33cl", Category: "Boissons", Quantity: "9", Revenue: "13.5", AvgPrice: "1.5", Profit: "4.5"},
		{ProductID: 1, Name: "Baguette", Quantity: int64(4), Revenue: 4.8, AvgPrice: 1.2, Profit: math.NaN()},
	}
	shaped := ShapeBreakdown(rows)
	if len(shaped) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(shaped))
	}
	if shaped[0].ProductID != 2 || shaped[1].ProductID != 1 {
		t.Fatalf("query order must be preserved: %+v", shaped)
	}
	if shaped[0].TotalRevenue != 13.5 || shaped[0].TotalQuantity != 9 {
		t.Fatalf("unexpected coercion on first row: %+v", shaped[0])
	}
	if shaped[1].TotalProfit != 0 {
		t.Fatalf("NaN profit must shape to 0, got %v", shaped[1].TotalProfit)
	}
}

func TestShapeBreakdownEmpty(t *testing.T) {
	shaped := ShapeBreakdown(nil)
	if shaped == nil || len(shaped) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", shaped)
	}
}
