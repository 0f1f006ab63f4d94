package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/skubase/skubase/internal/catalog"
)

const (
	csvBufferSize = 32 * 1024
	flushEvery    = 200
)

// CSVStore persists catalog snapshots as a single delimited text file with a
// fixed header row. The file is the system of record; everything else is
// derived from it.
type CSVStore struct {
	path string
}

// NewCSVStore points the store at the data file.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the data file location.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads every record from the data file. A missing file yields an empty
// catalog, not an error: first boot simply starts from nothing.
func (s *CSVStore) Load() ([]catalog.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: open data file: %w", err)
	}
	defer func() { _ = f.Close() }()
	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", filepath.Base(s.path), err)
	}
	return records, nil
}

// Save writes the full snapshot through a temp file in the same directory,
// then renames it over the previous one, so a failed write never truncates
// existing data.
func (s *CSVStore) Save(records []catalog.Record) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if err := WriteRecords(tmp, records); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: write %s: %w", filepath.Base(s.path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: replace data file: %w", err)
	}
	return nil
}

// Backup writes a timestamped copy of records under dir and returns the file
// path.
func (s *CSVStore) Backup(records []catalog.Record, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create backup dir: %w", err)
	}
	name := fmt.Sprintf("catalog-%s.csv", time.Now().UTC().Format("20060102T150405Z"))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("storage: create backup: %w", err)
	}
	if err := WriteRecords(f, records); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("storage: write backup: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("storage: close backup: %w", err)
	}
	return path, nil
}

// ReadRecords decodes catalog records from CSV content. Columns are matched
// by header name, so column order in the file does not matter; unknown
// columns are ignored and missing ones default to empty. An empty reader
// yields an empty catalog.
func ReadRecords(r io.Reader) ([]catalog.Record, error) {
	reader := csv.NewReader(bufio.NewReaderSize(r, csvBufferSize))
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	var records []catalog.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		raw := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				raw[name] = row[i]
			}
		}
		records = append(records, catalog.NewRecord(raw))
	}
	return records, nil
}

// WriteRecords encodes records as a CSV table: the header row first, then one
// row per record in storage field order.
func WriteRecords(w io.Writer, records []catalog.Record) error {
	return writeTable(w, records, false)
}

// ExportCSV writes the same table with CRLF line endings for download
// clients, spreadsheet tools on Windows expect them.
func ExportCSV(w io.Writer, records []catalog.Record) error {
	return writeTable(w, records, true)
}

func writeTable(w io.Writer, records []catalog.Record, crlf bool) error {
	buffered := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buffered)
	writer.UseCRLF = crlf
	if err := writer.Write(catalog.FieldNames()); err != nil {
		return err
	}
	pending := 0
	for _, rec := range records {
		if err := writer.Write(rec.StorageRow()); err != nil {
			return err
		}
		pending++
		if pending >= flushEvery {
			writer.Flush()
			if err := writer.Error(); err != nil {
				return err
			}
			pending = 0
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return buffered.Flush()
}
