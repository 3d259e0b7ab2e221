package stats

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeFilterRequiresStartDate(t *testing.T) {
	_, err := NormalizeFilter(FilterInput{})
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Field != "startDate" {
		t.Fatalf("expected startDate error, got %q", vErr.Field)
	}
	if vErr.Error() != "startDate is required" {
		t.Fatalf("unexpected message %q", vErr.Error())
	}
}

func TestNormalizeFilterDefaultsEndDate(t *testing.T) {
	f, err := NormalizeFilter(FilterInput{StartDate: "2025-03-15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.EndDate.Equal(f.StartDate) {
		t.Fatalf("endDate should default to startDate, got %v", f.EndDate)
	}
	if !f.SingleDay {
		t.Fatal("defaulted endDate should mark a single-day filter")
	}
}

func TestNormalizeFilterWidensSingleDayBoundary(t *testing.T) {
	f, err := NormalizeFilter(FilterInput{StartDate: "2025-03-15", EndDate: "2025-03-15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 3, 15, 23, 59, 59, 999_000_000, time.UTC)
	if !f.EndBound.Equal(want) {
		t.Fatalf("expected widened boundary %v, got %v", want, f.EndBound)
	}
}

func TestNormalizeFilterMultiDayBoundaryUntouched(t *testing.T) {
	f, err := NormalizeFilter(FilterInput{StartDate: "2025-03-15", EndDate: "2025-03-16"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.SingleDay {
		t.Fatal("distinct dates must not mark single-day")
	}
	if !f.EndBound.Equal(f.EndDate) {
		t.Fatalf("multi-day boundary must stay at endDate midnight, got %v", f.EndBound)
	}
}

func TestNormalizeFilterCategoryWinsOverProductName(t *testing.T) {
	f, err := NormalizeFilter(FilterInput{
		StartDate:   "2025-03-15",
		Category:    "Boissons",
		ProductName: "Perrier",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Category != "Boissons" || f.ProductName != "" {
		t.Fatalf("category must drop productName: %+v", f)
	}
	applied := f.Applied()
	if applied.Category != "Boissons" || applied.ProductName != "" || applied.All {
		t.Fatalf("unexpected applied filter %+v", applied)
	}
}

func TestNormalizeFilterCashierID(t *testing.T) {
	f, err := NormalizeFilter(FilterInput{StartDate: "2025-03-15", CashierID: "42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.CashierID == nil || *f.CashierID != 42 {
		t.Fatalf("expected cashier 42, got %v", f.CashierID)
	}

	if _, err := NormalizeFilter(FilterInput{StartDate: "2025-03-15", CashierID: "abc"}); err == nil {
		t.Fatal("expected error for non-numeric cashierId")
	}
}

func TestNormalizeFilterRejectsBadDates(t *testing.T) {
	if _, err := NormalizeFilter(FilterInput{StartDate: "15/03/2025"}); err == nil {
		t.Fatal("expected error for malformed startDate")
	}
	if _, err := NormalizeFilter(FilterInput{StartDate: "2025-03-15", EndDate: "soon"}); err == nil {
		t.Fatal("expected error for malformed endDate")
	}
}

func TestAppliedFilterAllScope(t *testing.T) {
	f, err := NormalizeFilter(FilterInput{StartDate: "2025-03-15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied := f.Applied(); !applied.All {
		t.Fatalf("unscoped filter must report all=true, got %+v", applied)
	}
}

func TestPeriodEchoReflectsRawDates(t *testing.T) {
	f, err := NormalizeFilter(FilterInput{StartDate: "2025-03-15", EndDate: "2025-03-15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	period := f.PeriodEcho()
	if period.StartDate != "2025-03-15" || period.EndDate != "2025-03-15" {
		t.Fatalf("unexpected period echo %+v", period)
	}
	if !period.IsSingleDay {
		t.Fatal("period echo must reflect the raw single-day input")
	}
}
