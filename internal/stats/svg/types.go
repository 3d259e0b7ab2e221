// Package svg renders the top-products chart as a standalone SVG document.
package svg

// Opts customises the grouped revenue/profit chart.
type Opts struct {
	Title        string
	Description  string
	RevenueColor string
	ProfitColor  string
	AxisColor    string
	GridColor    string
	Padding      float64
	TickCount    int
	MaxProducts  int
}

// Defaults for the statistics charts.
const (
	DefaultWidth       = 720
	DefaultHeight      = 280
	DefaultPadding     = 32.0
	DefaultTicks       = 5
	DefaultMaxProducts = 8
)
