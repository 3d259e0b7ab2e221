package stats

import (
	"strings"
	"testing"
)

// The profit rule treats a missing cost price as zero; both aggregation
// queries must carry it.
func TestAggregationQueriesTreatNullCostAsZero(t *testing.T) {
	const profitExpr = "(oi.unit_price - COALESCE(p.cost_price, 0)) * oi.quantity"
	if !strings.Contains(summarySQL, profitExpr) {
		t.Fatalf("summary query lost the null-safe profit expression:\n%s", summarySQL)
	}
	if !strings.Contains(breakdownSQL, profitExpr) {
		t.Fatalf("breakdown query lost the null-safe profit expression:\n%s", breakdownSQL)
	}
}

func TestSummaryQueryShape(t *testing.T) {
	// Orphaned order lines still count toward the totals, so products may
	// only be LEFT JOINed here.
	if !strings.Contains(summarySQL, "LEFT JOIN products p") {
		t.Fatalf("summary query must left-join products:\n%s", summarySQL)
	}
	for _, aggregate := range []string{
		"COALESCE(SUM(oi.quantity), 0)",
		"COALESCE(SUM(oi.total), 0)",
		"COUNT(DISTINCT o.id)",
		"COUNT(DISTINCT o.user_id)",
	} {
		if !strings.Contains(summarySQL, aggregate) {
			t.Fatalf("summary query missing %q:\n%s", aggregate, summarySQL)
		}
	}
}

func TestBreakdownQueryShape(t *testing.T) {
	if strings.Contains(breakdownSQL, "LEFT JOIN products") {
		t.Fatalf("breakdown rows carry product identity and must inner-join products:\n%s", breakdownSQL)
	}
	if !strings.Contains(breakdownSQL, "ORDER BY SUM(oi.total) DESC, p.id ASC") {
		t.Fatalf("breakdown query lost its revenue ordering with id tiebreak:\n%s", breakdownSQL)
	}
}

func TestSalesFilterClauseIsNullTolerant(t *testing.T) {
	for _, clause := range []string{
		"o.created_at >= $1 AND o.created_at <= $2",
		"($3::text = '' OR p.category = $3)",
		"($4::text = '' OR p.name ILIKE '%' || $4 || '%')",
		"($5::bigint IS NULL OR o.user_id = $5)",
	} {
		if !strings.Contains(salesFilterClause, clause) {
			t.Fatalf("filter clause missing %q:\n%s", clause, salesFilterClause)
		}
	}
}
