package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// UnassignedLine labels records whose Product Line is empty.
const UnassignedLine = "Unassigned"

// currencySymbol prefixes every rendered SRP amount.
const currencySymbol = "₱"

// Metric names exactly as shown on the dashboard.
const (
	MetricTotalProducts  = "Total Products"
	MetricActiveProducts = "Active Products"
	MetricDiscontinued   = "Discontinued"
	MetricAvgSRP         = "Avg SRP"
	MetricTopProductLine = "Top Product Line"
)

// metricNames fixes the dashboard display order.
var metricNames = []string{
	MetricTotalProducts,
	MetricActiveProducts,
	MetricDiscontinued,
	MetricAvgSRP,
	MetricTopProductLine,
}

// MetricNames returns the dashboard metric names in display order.
func MetricNames() []string {
	names := make([]string, len(metricNames))
	copy(names, metricNames)
	return names
}

// printer renders grouped decimal numbers (1,234.50).
var printer = message.NewPrinter(language.English)

// FormatCurrency renders an amount with the peso sign, thousands separators
// and two decimals.
func FormatCurrency(v float64) string {
	return currencySymbol + printer.Sprintf("%.2f", v)
}

// LineCount pairs a product line with its record count.
type LineCount struct {
	Line  string `json:"line"`
	Count int    `json:"count"`
}

// Summary holds the aggregates computed over one snapshot of the catalog.
type Summary struct {
	TotalProducts  int         `json:"total_products"`
	ActiveProducts int         `json:"active_products"`
	Discontinued   int         `json:"discontinued"`
	TotalSRP       float64     `json:"total_srp"`
	AvgSRP         float64     `json:"avg_srp"`
	TopProductLine string      `json:"top_product_line"`
	TopLineCount   int         `json:"top_line_count"`
	ProductLines   []LineCount `json:"product_lines"`
}

// Analyze computes summary metrics over records in a single pass. Status
// matching is case-insensitive so legacy rows with "ACTIVE" or "active" still
// count. Records without a product line are grouped under UnassignedLine.
// ProductLines keeps first-seen order, and when two lines tie on count the
// earlier one wins the top spot, which keeps the result independent of map
// iteration order.
func Analyze(records []Record) Summary {
	summary := Summary{TotalProducts: len(records)}
	if len(records) == 0 {
		return summary
	}

	counts := make(map[string]int, 8)
	order := make([]string, 0, 8)
	for _, rec := range records {
		switch strings.ToLower(rec.Status) {
		case "active":
			summary.ActiveProducts++
		case "discontinued":
			summary.Discontinued++
		}
		summary.TotalSRP += rec.SRP

		line := rec.ProductLine
		if line == "" {
			line = UnassignedLine
		}
		if _, seen := counts[line]; !seen {
			order = append(order, line)
		}
		counts[line]++
	}
	summary.AvgSRP = summary.TotalSRP / float64(summary.TotalProducts)

	summary.ProductLines = make([]LineCount, 0, len(order))
	for _, line := range order {
		count := counts[line]
		summary.ProductLines = append(summary.ProductLines, LineCount{Line: line, Count: count})
		if count > summary.TopLineCount {
			summary.TopProductLine = line
			summary.TopLineCount = count
		}
	}
	return summary
}

// Metrics renders the five dashboard values as display strings. An empty
// catalog yields fixed placeholders rather than an error, so the dashboard
// always has something to show.
func (s Summary) Metrics() map[string]string {
	if s.TotalProducts == 0 {
		return map[string]string{
			MetricTotalProducts:  "0",
			MetricActiveProducts: "0",
			MetricDiscontinued:   "0",
			MetricAvgSRP:         "N/A",
			MetricTopProductLine: "N/A",
		}
	}
	return map[string]string{
		MetricTotalProducts:  strconv.Itoa(s.TotalProducts),
		MetricActiveProducts: strconv.Itoa(s.ActiveProducts),
		MetricDiscontinued:   strconv.Itoa(s.Discontinued),
		MetricAvgSRP:         FormatCurrency(s.AvgSRP),
		MetricTopProductLine: fmt.Sprintf("%s (%d)", s.TopProductLine, s.TopLineCount),
	}
}
