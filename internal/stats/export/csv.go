// Package export renders detailed sales reports to downloadable formats.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/comptoir-pos/comptoir-pos/internal/stats"
)

// WriteSummaryCSV serialises the aggregate totals of a report to CSV.
func WriteSummaryCSV(w io.Writer, summary stats.DetailedSummary, period stats.Period) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Indicateur", "Valeur"}); err != nil {
		return err
	}
	periodLabel := period.StartDate
	if period.EndDate != period.StartDate {
		periodLabel += " / " + period.EndDate
	}
	records := [][]string{
		{"Periode", periodLabel},
		{"Quantite vendue", formatFloat(summary.TotalQuantitySold)},
		{"Chiffre d'affaires", formatFloat(summary.TotalRevenue)},
		{"Cout total", formatFloat(summary.TotalCost)},
		{"Benefice", formatFloat(summary.TotalProfit)},
		{"Commandes", strconv.FormatInt(summary.TotalOrders, 10)},
		{"Caissiers distincts", strconv.FormatInt(summary.UniqueCashiers, 10)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteBreakdownCSV emits the per-product rows of a report as CSV.
func WriteBreakdownCSV(w io.Writer, rows []stats.ProductBreakdownRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Produit", "Categorie", "Code-barres", "Quantite", "Chiffre d'affaires", "Prix moyen", "Benefice"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.ProductName,
			row.ProductCategory,
			row.ProductBarcode,
			formatFloat(row.TotalQuantity),
			formatFloat(row.TotalRevenue),
			formatFloat(row.AvgPrice),
			formatFloat(row.TotalProfit),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
