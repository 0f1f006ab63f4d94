package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusRecord(status, line string, srp string) Record {
	return NewRecord(map[string]string{
		FieldSKUCode:     "SKU",
		FieldSKUName:     "Product",
		FieldStatus:      status,
		FieldProductLine: line,
		FieldSRP:         srp,
	})
}

func TestAnalyzeEmptyCatalog(t *testing.T) {
	summary := Analyze(nil)

	assert.Zero(t, summary.TotalProducts)
	assert.Equal(t, map[string]string{
		"Total Products":   "0",
		"Active Products":  "0",
		"Discontinued":     "0",
		"Avg SRP":          "N/A",
		"Top Product Line": "N/A",
	}, summary.Metrics())
}

func TestAnalyzeCountsAndAverage(t *testing.T) {
	records := []Record{
		statusRecord("Active", "Skincare", "10.00"),
		statusRecord("active", "Skincare", "20.00"),
		statusRecord("Discontinued", "Makeup", "30.00"),
	}

	summary := Analyze(records)

	assert.Equal(t, 3, summary.TotalProducts)
	assert.Equal(t, 2, summary.ActiveProducts)
	assert.Equal(t, 1, summary.Discontinued)
	assert.Equal(t, 60.0, summary.TotalSRP)
	assert.Equal(t, 20.0, summary.AvgSRP)

	metrics := summary.Metrics()
	assert.Equal(t, "3", metrics[MetricTotalProducts])
	assert.Equal(t, "2", metrics[MetricActiveProducts])
	assert.Equal(t, "1", metrics[MetricDiscontinued])
	assert.Equal(t, "₱20.00", metrics[MetricAvgSRP])
}

func TestAnalyzeGroupsEmptyProductLineAsUnassigned(t *testing.T) {
	records := []Record{
		statusRecord("Active", "A", "1"),
		statusRecord("Active", "A", "1"),
		statusRecord("Active", "B", "1"),
		statusRecord("Active", "", "1"),
	}

	summary := Analyze(records)

	assert.Equal(t, []LineCount{
		{Line: "A", Count: 2},
		{Line: "B", Count: 1},
		{Line: UnassignedLine, Count: 1},
	}, summary.ProductLines)
	assert.Equal(t, "A", summary.TopProductLine)
	assert.Equal(t, "A (2)", summary.Metrics()[MetricTopProductLine])
}

func TestAnalyzeTopLineTieGoesToEarliestLine(t *testing.T) {
	// "Makeup" and "Skincare" both reach two records; Makeup appeared first,
	// so it wins regardless of map iteration order.
	records := []Record{
		statusRecord("Active", "Makeup", "1"),
		statusRecord("Active", "Skincare", "1"),
		statusRecord("Active", "Skincare", "1"),
		statusRecord("Active", "Makeup", "1"),
	}

	for i := 0; i < 50; i++ {
		summary := Analyze(records)
		require.Equal(t, "Makeup", summary.TopProductLine)
		require.Equal(t, 2, summary.TopLineCount)
	}
}

func TestAnalyzeStatusMatchingIsExactWordOnly(t *testing.T) {
	records := []Record{
		statusRecord("ACTIVE", "A", "1"),
		statusRecord("Active ", "A", "1"),
		statusRecord("Pending", "A", "1"),
	}

	summary := Analyze(records)

	// "Active " with a trailing space is a different status value; only the
	// casing is forgiven.
	assert.Equal(t, 1, summary.ActiveProducts)
	assert.Equal(t, 0, summary.Discontinued)
	assert.Equal(t, 3, summary.TotalProducts)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₱0.00", FormatCurrency(0))
	assert.Equal(t, "₱20.00", FormatCurrency(20))
	assert.Equal(t, "₱1,234.50", FormatCurrency(1234.5))
	assert.Equal(t, "₱1,234,567.89", FormatCurrency(1234567.891))
}

func TestMetricNamesOrder(t *testing.T) {
	assert.Equal(t, []string{
		"Total Products", "Active Products", "Discontinued", "Avg SRP", "Top Product Line",
	}, MetricNames())
}
