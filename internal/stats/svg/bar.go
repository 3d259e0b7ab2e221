package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/comptoir-pos/comptoir-pos/internal/stats"
)

// TopProducts renders a grouped bar chart comparing revenue and profit per
// product. Rows beyond opts.MaxProducts are dropped; rows are expected in
// revenue order already.
func TopProducts(width, height int, rows []stats.ProductBreakdownRow, opts Opts) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}
	maxProducts := opts.MaxProducts
	if maxProducts <= 0 {
		maxProducts = DefaultMaxProducts
	}
	if len(rows) > maxProducts {
		rows = rows[:maxProducts]
	}

	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")
	revenueColor := fallback(opts.RevenueColor, "#0ea5e9")
	profitColor := fallback(opts.ProfitColor, "#16a34a")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	minVal, maxVal := 0.0, 0.0
	for _, row := range rows {
		minVal = math.Min(minVal, math.Min(row.TotalRevenue, row.TotalProfit))
		maxVal = math.Max(maxVal, math.Max(row.TotalRevenue, row.TotalProfit))
	}
	if almostEqual(maxVal, minVal) {
		maxVal = minVal + 1
	}
	scale := chartHeight / (maxVal - minVal)
	zeroY := padding + chartHeight - (0-minVal)*scale

	groups := len(rows)
	if groups == 0 {
		groups = 1
	}
	groupWidth := chartWidth / float64(groups)
	barWidth := groupWidth / 3

	titleID := makeID(opts.Title, "stats-title")
	descID := makeID(opts.Title, "stats-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Meilleures ventes"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Chiffre d'affaires et bénéfice par produit"))))

	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		value := minVal + (maxVal-minVal)*ratio
		y := padding + chartHeight - ratio*chartHeight
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", padding, y, padding+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding-6, y+4, axisColor, template.HTMLEscapeString(formatTick(value))))
	}

	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", axisColor))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding, padding, padding+chartHeight))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, zeroY, padding+chartWidth, zeroY))
	b.WriteString("</g>")

	chartBottom := padding + chartHeight
	for i, row := range rows {
		baseX := padding + float64(i)*groupWidth
		label := axisLabel(row.ProductName)

		y, h := barGeometry(row.TotalRevenue, scale, zeroY, padding, chartBottom)
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"CA %s\"></rect>", baseX+barWidth*0.3, y, barWidth, h, revenueColor, template.HTMLEscapeString(row.ProductName)))

		y, h = barGeometry(row.TotalProfit, scale, zeroY, padding, chartBottom)
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"Bénéfice %s\"></rect>", baseX+barWidth*1.4, y, barWidth, h, profitColor, template.HTMLEscapeString(row.ProductName)))

		center := baseX + groupWidth/2
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", center, padding+chartHeight+14, axisColor, template.HTMLEscapeString(label)))
	}

	legendY := padding - 12
	if legendY < 12 {
		legendY = 12
	}
	legendX := padding
	b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", legendX, legendY-8, revenueColor))
	b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">Chiffre d'affaires</text>", legendX+14, legendY, axisColor))
	legendX += 120
	b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", legendX, legendY-8, profitColor))
	b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">Bénéfice</text>", legendX+14, legendY, axisColor))

	b.WriteString("</svg>")
	return b.String(), nil
}

func barGeometry(value, scale, zeroY, top, bottom float64) (float64, float64) {
	if value >= 0 {
		height := value * scale
		y := zeroY - height
		if y < top {
			height -= top - y
			y = top
		}
		return y, height
	}
	height := -value * scale
	if zeroY+height > bottom {
		height = bottom - zeroY
	}
	return zeroY, height
}

func axisLabel(name string) string {
	const maxLabel = 14
	runes := []rune(name)
	if len(runes) <= maxLabel {
		return name
	}
	return string(runes[:maxLabel-1]) + "…"
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func formatTick(value float64) string {
	abs := math.Abs(value)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", value/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", value/1_000)
	default:
		return fmt.Sprintf("%.0f", value)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(seed, suffix string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(seed) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return suffix
	}
	return b.String() + "-" + suffix
}
