package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skubase/skubase/internal/catalog"
)

func sampleRecord(code, name string) catalog.Record {
	return catalog.NewRecord(map[string]string{
		catalog.FieldSKUCode:     code,
		catalog.FieldSKUName:     name,
		catalog.FieldStatus:      "Active",
		catalog.FieldProductLine: "Skincare",
		catalog.FieldSRP:         "499.5",
	})
}

func TestCSVStoreMissingFileIsEmptyCatalog(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "absent.csv"))

	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCSVStoreSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	store := NewCSVStore(path)

	want := []catalog.Record{
		sampleRecord("SKU-001", "Rose Lip Tint"),
		sampleRecord("SKU-002", `Aloe "Fresh" Gel, 200ml`),
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCSVStoreSaveWritesHeaderInFieldOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	store := NewCSVStore(path)
	require.NoError(t, store.Save(nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, strings.Join(catalog.FieldNames(), ","), lines[0])
}

func TestCSVStoreSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.csv")
	store := NewCSVStore(path)

	require.NoError(t, store.Save([]catalog.Record{sampleRecord("SKU-001", "First")}))
	require.NoError(t, store.Save([]catalog.Record{sampleRecord("SKU-002", "Second")}))

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SKU-002", records[0].SKUCode)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "catalog.csv", entries[0].Name())
}

func TestReadRecordsMapsColumnsByHeaderName(t *testing.T) {
	// Column order differs from the canonical one and an unknown column is
	// present; loading still lands every value in the right field.
	input := "SKU Name,SKU Code,SRP,Legacy Notes\n" +
		"Rose Lip Tint,SKU-001,349.75,ignore me\n"

	records, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SKU-001", records[0].SKUCode)
	assert.Equal(t, "Rose Lip Tint", records[0].SKUName)
	assert.Equal(t, 349.75, records[0].SRP)
	assert.Empty(t, records[0].Status)
}

func TestReadRecordsEmptyInput(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadRecordsShortRow(t *testing.T) {
	input := "Status,SKU Code,SKU Name\nActive,SKU-001\n"

	records, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SKU-001", records[0].SKUCode)
	assert.Empty(t, records[0].SKUName)
}

func TestExportCSVUsesCRLF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, []catalog.Record{sampleRecord("SKU-001", "Toner")}))

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\r\n"))
	assert.Equal(t, 2, strings.Count(out, "\r\n"))
}

func TestWriteRecordsQuotesDelimiters(t *testing.T) {
	var buf bytes.Buffer
	rec := sampleRecord("SKU-001", "Tint, Ruby Edition")
	require.NoError(t, WriteRecords(&buf, []catalog.Record{rec}))

	assert.Contains(t, buf.String(), `"Tint, Ruby Edition"`)

	records, err := ReadRecords(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Tint, Ruby Edition", records[0].SKUName)
}

func TestCSVStoreBackupWritesTimestampedCopy(t *testing.T) {
	dir := t.TempDir()
	store := NewCSVStore(filepath.Join(dir, "catalog.csv"))
	backupDir := filepath.Join(dir, "backups")

	path, err := store.Backup([]catalog.Record{sampleRecord("SKU-001", "Toner")}, backupDir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "catalog-"))
	assert.True(t, strings.HasSuffix(path, ".csv"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "SKU-001")
}
