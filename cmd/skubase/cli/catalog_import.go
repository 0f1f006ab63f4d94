package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/skubase/skubase/internal/catalog"
	"github.com/skubase/skubase/internal/storage"
)

// ImportMode enumerates supported execution strategies.
type ImportMode string

const (
	// ImportModeDry previews the merge without touching the data file.
	ImportModeDry ImportMode = "dry"
	// ImportModeApply persists the merged catalog after confirmation.
	ImportModeApply ImportMode = "apply"
)

// ImportOptions configures the import command execution.
type ImportOptions struct {
	Source       string
	SourceReader io.Reader
	Mode         ImportMode
	JSONOutput   bool
	Stdout       io.Writer
	Stderr       io.Writer
	Stdin        io.Reader
	Confirm      func(io.Reader, io.Writer) (bool, error)
}

// ImportSummary captures the structured reporting outcome.
type ImportSummary struct {
	Mode     ImportMode `json:"mode"`
	Source   string     `json:"source"`
	Existing int        `json:"existing"`
	Added    []string   `json:"added"`
	Replaced []string   `json:"replaced"`
	Skipped  []string   `json:"skipped,omitempty"`
	Applied  bool       `json:"applied"`
}

// ImportCommand merges a spreadsheet into the data file. Rows with a SKU code
// already present replace the stored record, new codes are appended, and rows
// failing validation are reported and left out. Unlike the workbench upload
// this is an upsert, which makes it the right tool for bulk corrections.
func (c *CatalogOpsCLI) ImportCommand(ctx context.Context, opts ImportOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Mode == "" {
		opts.Mode = ImportModeDry
	}
	mode := ImportMode(strings.ToLower(string(opts.Mode)))
	switch mode {
	case ImportModeDry, ImportModeApply:
	default:
		_, _ = fmt.Fprintf(opts.Stderr, "catalog import: invalid mode %q (expected dry or apply)\n", opts.Mode)
		return 1
	}
	if c == nil || c.store == nil {
		_, _ = fmt.Fprintln(opts.Stderr, "catalog import: store not configured")
		return 1
	}

	rows, err := loadImportRows(opts)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "catalog import: %v\n", err)
		return 1
	}

	existing, err := c.store.Load()
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "catalog import: %v\n", err)
		return 1
	}

	merged, summary := mergeImportRows(existing, rows)
	summary.Mode = mode
	summary.Source = opts.Source

	if mode == ImportModeDry || (len(summary.Added) == 0 && len(summary.Replaced) == 0) {
		if err := writeImportOutput(opts, summary); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "catalog import: %v\n", err)
			return 1
		}
		if len(summary.Skipped) > 0 {
			return 10
		}
		return 0
	}

	confirm := opts.Confirm
	if confirm == nil {
		confirm = defaultImportConfirm
	}
	ok, err := confirm(opts.Stdin, opts.Stdout)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "catalog import: confirmation failed: %v\n", err)
		return 1
	}
	if !ok {
		_, _ = fmt.Fprintln(opts.Stderr, "catalog import: cancelled by user")
		return 1
	}
	if err := c.store.Save(merged); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "catalog import: apply failed: %v\n", err)
		return 1
	}
	summary.Applied = true
	if err := writeImportOutput(opts, summary); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "catalog import: %v\n", err)
		return 1
	}
	if len(summary.Skipped) > 0 {
		return 10
	}
	return 0
}

func loadImportRows(opts ImportOptions) ([]map[string]string, error) {
	var reader io.Reader
	switch {
	case opts.SourceReader != nil:
		reader = opts.SourceReader
	case strings.TrimSpace(opts.Source) == "":
		return nil, errors.New("--source is required")
	default:
		f, err := os.Open(opts.Source)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		reader = f
	}
	return storage.ReadXLSX(reader)
}

func mergeImportRows(existing []catalog.Record, rows []map[string]string) ([]catalog.Record, ImportSummary) {
	summary := ImportSummary{
		Existing: len(existing),
		Added:    make([]string, 0),
		Replaced: make([]string, 0),
	}
	merged := make([]catalog.Record, len(existing))
	copy(merged, existing)
	index := make(map[string]int, len(existing))
	for i, rec := range existing {
		index[rec.SKUCode] = i
	}
	for i, raw := range rows {
		rec := catalog.NewRecord(raw)
		if err := rec.Validate(); err != nil {
			summary.Skipped = append(summary.Skipped, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if pos, ok := index[rec.SKUCode]; ok {
			merged[pos] = rec
			summary.Replaced = append(summary.Replaced, rec.SKUCode)
			continue
		}
		index[rec.SKUCode] = len(merged)
		merged = append(merged, rec)
		summary.Added = append(summary.Added, rec.SKUCode)
	}
	sort.Strings(summary.Added)
	sort.Strings(summary.Replaced)
	return merged, summary
}

func writeImportOutput(opts ImportOptions, summary ImportSummary) error {
	if opts.JSONOutput {
		return json.NewEncoder(opts.Stdout).Encode(summary)
	}
	renderImportHuman(opts.Stdout, summary)
	return nil
}

func renderImportHuman(out io.Writer, summary ImportSummary) {
	_, _ = fmt.Fprintf(out, "Catalog import (%s) from %s\n", summary.Mode, summary.Source)
	_, _ = fmt.Fprintf(out, "Existing records: %d\n", summary.Existing)
	if len(summary.Added) > 0 {
		_, _ = fmt.Fprintf(out, "New: %s\n", strings.Join(summary.Added, ", "))
	}
	if len(summary.Replaced) > 0 {
		_, _ = fmt.Fprintf(out, "Replaced: %s\n", strings.Join(summary.Replaced, ", "))
	}
	if len(summary.Skipped) > 0 {
		_, _ = fmt.Fprintf(out, "%d row(s) skipped:\n", len(summary.Skipped))
		for _, reason := range summary.Skipped {
			_, _ = fmt.Fprintf(out, " - %s\n", reason)
		}
	}
	if summary.Applied {
		_, _ = fmt.Fprintln(out, "Changes written to the data file.")
	} else if len(summary.Added) > 0 || len(summary.Replaced) > 0 {
		_, _ = fmt.Fprintln(out, "Dry run, nothing written.")
	} else {
		_, _ = fmt.Fprintln(out, "Nothing to import.")
	}
}

func defaultImportConfirm(r io.Reader, w io.Writer) (bool, error) {
	_, _ = fmt.Fprint(w, "Apply catalog import? Type YES to confirm: ")
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response := strings.TrimSpace(line)
	return strings.EqualFold(response, "YES"), nil
}
