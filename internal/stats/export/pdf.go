package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/comptoir-pos/comptoir-pos/internal/stats"
)

// PDFExporter wraps Gotenberg interactions for report downloads.
type PDFExporter struct {
	Endpoint string
	Client   *http.Client
}

// RenderSalesReport sends the report as HTML to Gotenberg and returns the
// PDF bytes.
func (p *PDFExporter) RenderSalesReport(ctx context.Context, report stats.DetailedSalesReport) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	endpoint := strings.TrimRight(p.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("gotenberg endpoint required")
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	html := buildReportHTML(report)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "rapport-ventes.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, err
	}
	if err := writer.WriteField("waitDelay", "500"); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("gotenberg response %d: %s", resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}

func buildReportHTML(report stats.DetailedSalesReport) string {
	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;}h1{font-size:20px;}table{width:100%;border-collapse:collapse;margin-bottom:16px;}th,td{border:1px solid #ddd;padding:6px;text-align:right;}th{text-align:left;background:#f5f5f5;}section{margin-bottom:24px;} .label{text-align:left;}")
	b.WriteString("</style></head><body>")

	title := "Rapport des ventes – " + report.Period.StartDate
	if report.Period.EndDate != report.Period.StartDate {
		title += " / " + report.Period.EndDate
	}
	b.WriteString("<h1>" + templateEscape(title) + "</h1>")

	b.WriteString("<section>")
	writeScopeLine(&b, report)
	b.WriteString("</section>")

	b.WriteString("<section><h2>Totaux</h2><table><tbody>")
	writeValueRow(&b, "Quantite vendue", formatFloat(report.Summary.TotalQuantitySold))
	writeValueRow(&b, "Chiffre d'affaires", formatFloat(report.Summary.TotalRevenue))
	writeValueRow(&b, "Cout total", formatFloat(report.Summary.TotalCost))
	writeValueRow(&b, "Benefice", formatFloat(report.Summary.TotalProfit))
	writeValueRow(&b, "Commandes", strconv.FormatInt(report.Summary.TotalOrders, 10))
	writeValueRow(&b, "Caissiers distincts", strconv.FormatInt(report.Summary.UniqueCashiers, 10))
	b.WriteString("</tbody></table></section>")

	if len(report.Products) > 0 {
		b.WriteString("<section><h2>Par produit</h2><table><thead><tr><th>Produit</th><th>Categorie</th><th>Quantite</th><th>Chiffre d'affaires</th><th>Prix moyen</th><th>Benefice</th></tr></thead><tbody>")
		for _, row := range report.Products {
			b.WriteString("<tr><td class=\"label\">")
			b.WriteString(templateEscape(row.ProductName))
			b.WriteString("</td><td class=\"label\">")
			b.WriteString(templateEscape(row.ProductCategory))
			b.WriteString("</td><td>")
			b.WriteString(formatFloat(row.TotalQuantity))
			b.WriteString("</td><td>")
			b.WriteString(formatFloat(row.TotalRevenue))
			b.WriteString("</td><td>")
			b.WriteString(formatFloat(row.AvgPrice))
			b.WriteString("</td><td>")
			b.WriteString(formatFloat(row.TotalProfit))
			b.WriteString("</td></tr>")
		}
		b.WriteString("</tbody></table></section>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

func writeScopeLine(b *strings.Builder, report stats.DetailedSalesReport) {
	var parts []string
	switch {
	case report.Filter.Category != "":
		parts = append(parts, "Categorie: "+templateEscape(report.Filter.Category))
	case report.Filter.ProductName != "":
		parts = append(parts, "Produit: "+templateEscape(report.Filter.ProductName))
	default:
		parts = append(parts, "Tous les produits")
	}
	if report.Cashier != nil {
		parts = append(parts, "Caissier: "+templateEscape(report.Cashier.Name))
	}
	b.WriteString("<p>" + strings.Join(parts, " · ") + "</p>")
}

func writeValueRow(b *strings.Builder, label, value string) {
	b.WriteString("<tr><td class=\"label\">")
	b.WriteString(templateEscape(label))
	b.WriteString("</td><td>")
	b.WriteString(value)
	b.WriteString("</td></tr>")
}

func templateEscape(v string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(v)
}
