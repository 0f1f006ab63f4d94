package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/skubase/skubase/internal/catalog"
	"github.com/skubase/skubase/internal/storage"
)

// Seeds the data file with a small demo catalog so a fresh install has
// something to browse. Refuses to overwrite an existing file.
func main() {
	path := getenv("DATA_FILE", "product_master_data.csv")
	if _, err := os.Stat(path); err == nil {
		log.Fatalf("%s already exists, move it aside before seeding", path)
	}

	records := demoRecords()
	store := storage.NewCSVStore(path)
	if err := store.Save(records); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	fmt.Printf("seeded %d products into %s\n", len(records), path)
}

func demoRecords() []catalog.Record {
	specs := []struct {
		status, code, name, line, category, srp string
		shelflife                               int
		storageType                             string
	}{
		{"Active", "SKU-0001", "Hydrating Toner 150ml", "Skincare", "Toner", "499.00", 24, "Room Temperature"},
		{"Active", "SKU-0002", "Vitamin C Serum 30ml", "Skincare", "Serum", "1299.50", 12, "Cool and Dry"},
		{"Active", "SKU-0003", "Matte Lip Tint 4g", "Makeup", "Lip", "349.75", 18, "Room Temperature"},
		{"Pending", "SKU-0004", "Sunscreen SPF50 50ml", "Skincare", "Sun Care", "899.00", 24, "Cool and Dry"},
		{"Discontinued", "SKU-0005", "Glitter Eyeshadow Palette", "Makeup", "Eye", "1599.00", 36, "Room Temperature"},
		{"Active", "SKU-0006", "Scalp Care Shampoo 400ml", "Haircare", "Shampoo", "649.25", 30, "Room Temperature"},
	}

	records := make([]catalog.Record, 0, len(specs))
	for _, spec := range specs {
		raw := map[string]string{
			catalog.FieldStatus:          spec.status,
			catalog.FieldSKUCode:         spec.code,
			catalog.FieldSKUName:         spec.name,
			catalog.FieldProductLine:     spec.line,
			catalog.FieldCategory:        spec.category,
			catalog.FieldSRP:             spec.srp,
			catalog.FieldShelflifeMonths: strconv.Itoa(spec.shelflife),
			catalog.FieldStorageType:     spec.storageType,
			catalog.FieldExpiryItem:      catalog.ValueYes,
			catalog.FieldSellingBan:      catalog.ValueNo,
			catalog.FieldTesterProduct:   catalog.ValueNo,
		}
		records = append(records, catalog.NewRecord(raw))
	}
	return records
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
