package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format accepted by all report filters.
const DateLayout = "2006-01-02"

// ValidationError marks a rejected filter input. Handlers map it to a 400
// response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// FilterInput carries the raw query values before normalization.
type FilterInput struct {
	StartDate   string
	EndDate     string
	Category    string
	ProductName string
	CashierID   string
}

// StatsFilter is the normalized report scope.
//
// EndBound is the effective upper boundary used by queries: when the raw
// start and end dates name the same calendar day it is widened to the last
// millisecond of that day, so a single-day query covers the whole day.
// SingleDay records whether the raw inputs were equal, independent of the
// widening.
type StatsFilter struct {
	StartDate   time.Time
	EndDate     time.Time
	EndBound    time.Time
	Category    string
	ProductName string
	CashierID   *int64
	SingleDay   bool
}

// NormalizeFilter validates and defaults the raw input.
//
// startDate is mandatory. endDate defaults to startDate. When both
// category and productName are supplied, category wins and productName is
// dropped. cashierId combines with the product scope via AND.
func NormalizeFilter(in FilterInput) (StatsFilter, error) {
	startRaw := strings.TrimSpace(in.StartDate)
	if startRaw == "" {
		return StatsFilter{}, ValidationError{Field: "startDate"}
	}
	start, err := time.Parse(DateLayout, startRaw)
	if err != nil {
		return StatsFilter{}, ValidationError{Field: "startDate", Reason: "expected " + DateLayout}
	}

	endRaw := strings.TrimSpace(in.EndDate)
	if endRaw == "" {
		endRaw = startRaw
	}
	end, err := time.Parse(DateLayout, endRaw)
	if err != nil {
		return StatsFilter{}, ValidationError{Field: "endDate", Reason: "expected " + DateLayout}
	}

	f := StatsFilter{
		StartDate: start,
		EndDate:   end,
		EndBound:  end,
		SingleDay: start.Equal(end),
	}
	if f.SingleDay {
		f.EndBound = endOfDay(end)
	}

	f.Category = strings.TrimSpace(in.Category)
	if f.Category == "" {
		f.ProductName = strings.TrimSpace(in.ProductName)
	}

	if cashierRaw := strings.TrimSpace(in.CashierID); cashierRaw != "" {
		id, err := strconv.ParseInt(cashierRaw, 10, 64)
		if err != nil {
			return StatsFilter{}, ValidationError{Field: "cashierId", Reason: "expected an integer"}
		}
		f.CashierID = &id
	}

	return f, nil
}

// Applied reports which product scope the filter effectively carries.
func (f StatsFilter) Applied() AppliedFilter {
	switch {
	case f.Category != "":
		return AppliedFilter{Category: f.Category}
	case f.ProductName != "":
		return AppliedFilter{ProductName: f.ProductName}
	default:
		return AppliedFilter{All: true}
	}
}

// PeriodEcho builds the period section of a report from the raw dates.
func (f StatsFilter) PeriodEcho() Period {
	return Period{
		StartDate:   f.StartDate.Format(DateLayout),
		EndDate:     f.EndDate.Format(DateLayout),
		IsSingleDay: f.SingleDay,
	}
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999_000_000, day.Location())
}
