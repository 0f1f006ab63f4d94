package perf

import (
	"context"
	"fmt"
	"testing"

	"github.com/skubase/skubase/internal/catalog"
)

func buildCatalog(n int) []catalog.Record {
	statuses := []string{"Active", "Discontinued", "Pending"}
	lines := []string{"Skincare", "Makeup", "Haircare", ""}
	records := make([]catalog.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, catalog.NewRecord(map[string]string{
			catalog.FieldSKUCode:     fmt.Sprintf("SKU-%05d", i),
			catalog.FieldSKUName:     fmt.Sprintf("Product %d", i),
			catalog.FieldStatus:      statuses[i%len(statuses)],
			catalog.FieldProductLine: lines[i%len(lines)],
			catalog.FieldSRP:         fmt.Sprintf("%d.50", 100+i%900),
		}))
	}
	return records
}

func BenchmarkAnalyze(b *testing.B) {
	for _, size := range []int{100, 1000, 10000} {
		records := buildCatalog(size)
		b.Run(fmt.Sprintf("records_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = catalog.Analyze(records)
			}
		})
	}
}

func BenchmarkServiceList(b *testing.B) {
	svc := catalog.NewService(catalog.NewCollection(), nopStore{}, nil, nil)
	ctx := context.Background()
	for _, raw := range buildCatalog(1000) {
		_, _ = svc.Add(ctx, raw.StorageMap())
	}

	b.Run("unfiltered", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = svc.List(ctx, catalog.ListFilters{Limit: 20})
		}
	})
	b.Run("search", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = svc.List(ctx, catalog.ListFilters{Search: "product 5", Limit: 20})
		}
	})
}

type nopStore struct{}

func (nopStore) Load() ([]catalog.Record, error) { return nil, nil }
func (nopStore) Save([]catalog.Record) error { return nil }
