package cli

import (
	"errors"

	"github.com/skubase/skubase/internal/catalog"
)

// CatalogStore abstracts the data file for the ops commands so tests can run
// against in-memory stubs.
type CatalogStore interface {
	Load() ([]catalog.Record, error)
	Save(records []catalog.Record) error
}

// CatalogOpsCLI offers operational helpers for inspecting and repairing the
// catalog data file without going through the workbench.
type CatalogOpsCLI struct {
	store CatalogStore
}

// NewCatalogOpsCLI constructs the helper around a catalog store.
func NewCatalogOpsCLI(store CatalogStore) (*CatalogOpsCLI, error) {
	if store == nil {
		return nil, errors.New("catalog cli: store is required")
	}
	return &CatalogOpsCLI{store: store}, nil
}
