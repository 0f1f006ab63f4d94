package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/skubase/skubase/internal/catalog"
)

// ValidateOptions defines available flags for the catalog validate command.
type ValidateOptions struct {
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// ValidateSummary describes the JSON response for catalog validate.
type ValidateSummary struct {
	OK       bool                `json:"ok"`
	Records  int                 `json:"records"`
	Findings []ValidationFinding `json:"findings"`
	Lines    []catalog.LineCount `json:"lines"`
}

// ValidationFinding captures a single data quality problem in the file.
type ValidationFinding struct {
	Row     int    `json:"row"`
	SKUCode string `json:"sku_code,omitempty"`
	Problem string `json:"problem"`
}

// ValidateCommand checks the data file for duplicate codes, blank identity
// fields and implausible values, then prints the outcome.
func (c *CatalogOpsCLI) ValidateCommand(ctx context.Context, opts ValidateOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if c == nil || c.store == nil {
		_, _ = fmt.Fprintln(opts.Stderr, "catalog validate: store not configured")
		return 1
	}
	if err := ctx.Err(); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "catalog validate: %v\n", err)
		return 1
	}
	records, err := c.store.Load()
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "catalog validate: %v\n", err)
		return 1
	}
	summary := buildValidateSummary(records)
	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(summary); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "catalog validate: encode json: %v\n", err)
			return 1
		}
	} else {
		renderValidateHuman(opts.Stdout, summary)
	}
	if !summary.OK {
		return 10
	}
	return 0
}

func buildValidateSummary(records []catalog.Record) ValidateSummary {
	findings := make([]ValidationFinding, 0)
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		// Data rows start after the header row.
		row := i + 2
		code := strings.TrimSpace(rec.SKUCode)
		if code == "" {
			findings = append(findings, ValidationFinding{Row: row, Problem: "missing SKU code"})
		} else if firstRow, ok := seen[code]; ok {
			findings = append(findings, ValidationFinding{
				Row:     row,
				SKUCode: code,
				Problem: fmt.Sprintf("duplicate SKU code (first seen at row %d)", firstRow),
			})
		} else {
			seen[code] = row
		}
		if strings.TrimSpace(rec.SKUName) == "" {
			findings = append(findings, ValidationFinding{Row: row, SKUCode: code, Problem: "missing SKU name"})
		}
		switch strings.ToLower(strings.TrimSpace(rec.Status)) {
		case "active", "discontinued", "pending", "":
		default:
			findings = append(findings, ValidationFinding{
				Row:     row,
				SKUCode: code,
				Problem: fmt.Sprintf("unrecognized status %q", rec.Status),
			})
		}
		if rec.SRP < 0 {
			findings = append(findings, ValidationFinding{Row: row, SKUCode: code, Problem: "negative SRP"})
		}
		if rec.ShelflifeMonths < 0 {
			findings = append(findings, ValidationFinding{Row: row, SKUCode: code, Problem: "negative shelflife"})
		}
	}
	sort.SliceStable(findings, func(i, j int) bool { return findings[i].Row < findings[j].Row })
	summary := catalog.Analyze(records)
	return ValidateSummary{
		OK:       len(findings) == 0,
		Records:  len(records),
		Findings: findings,
		Lines:    summary.ProductLines,
	}
}

func renderValidateHuman(out io.Writer, summary ValidateSummary) {
	_, _ = fmt.Fprintf(out, "Catalog validation: %d record(s)\n", summary.Records)
	if summary.OK {
		_, _ = fmt.Fprintln(out, "No problems detected.")
	} else {
		_, _ = fmt.Fprintf(out, "%d problem(s) detected:\n", len(summary.Findings))
		for _, finding := range summary.Findings {
			if finding.SKUCode != "" {
				_, _ = fmt.Fprintf(out, " - row %d (%s): %s\n", finding.Row, finding.SKUCode, finding.Problem)
				continue
			}
			_, _ = fmt.Fprintf(out, " - row %d: %s\n", finding.Row, finding.Problem)
		}
	}
	if len(summary.Lines) > 0 {
		_, _ = fmt.Fprintln(out, "Product lines:")
		for _, line := range summary.Lines {
			_, _ = fmt.Fprintf(out, " - %s (%d)\n", line.Line, line.Count)
		}
	}
}
