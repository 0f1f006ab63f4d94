package catalog

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrSKUCodeRequired rejects records without a SKU code.
	ErrSKUCodeRequired = errors.New("catalog: sku code is required")
	// ErrSKUNameRequired rejects records without a SKU name.
	ErrSKUNameRequired = errors.New("catalog: sku name is required")
	// ErrRecordNotFound indicates no record carries the requested SKU code.
	ErrRecordNotFound = errors.New("catalog: record not found")
)

// Record is one SKU's master data entry. Fields mirror the storage columns
// one to one; string fields hold whatever the source supplied, numeric fields
// are coerced on construction. Records are built through NewRecord and never
// mutated afterwards, replacing a product means appending or reloading.
type Record struct {
	Status             string  `json:"status"`
	SKUCode            string  `json:"sku_code"`
	SKUName            string  `json:"sku_name"`
	ProductLine        string  `json:"product_line"`
	Category           string  `json:"category"`
	SubCategory        string  `json:"sub_category"`
	MFUPC              string  `json:"mfupc"`
	SRP                float64 `json:"srp"`
	PcsPerInnerBox     int     `json:"pcs_per_inner_box"`
	PcsPerMasterBox    int     `json:"pcs_per_master_box"`
	ShelflifeMonths    int     `json:"shelflife_months"`
	PeriodAfterOpening int     `json:"period_after_opening_months"`
	CBM                float64 `json:"cbm"`
	HeightCm           float64 `json:"height_cm"`
	WidthCm            float64 `json:"width_cm"`
	LengthCm           float64 `json:"length_cm"`
	WeightG            float64 `json:"weight_g"`
	ExpiryItem         string  `json:"expiry_item"`
	SellingBan         string  `json:"selling_ban"`
	StorageType        string  `json:"storage_type"`
	TesterProduct      string  `json:"tester_product"`
	ImageURL           string  `json:"image_url"`
}

// NewRecord builds a Record from raw values keyed by storage field name.
// Missing keys default to the zero value. Numeric fields follow the
// permissive intake rule: empty or unparsable input becomes zero instead of
// an error, so a half filled import row still produces a usable record.
// String fields are taken verbatim, including surrounding whitespace.
func NewRecord(raw map[string]string) Record {
	return Record{
		Status:             raw[FieldStatus],
		SKUCode:            raw[FieldSKUCode],
		SKUName:            raw[FieldSKUName],
		ProductLine:        raw[FieldProductLine],
		Category:           raw[FieldCategory],
		SubCategory:        raw[FieldSubCategory],
		MFUPC:              raw[FieldMFUPC],
		SRP:                coerceFloat(raw[FieldSRP]),
		PcsPerInnerBox:     coerceInt(raw[FieldPcsPerInnerBox]),
		PcsPerMasterBox:    coerceInt(raw[FieldPcsPerMasterBox]),
		ShelflifeMonths:    coerceInt(raw[FieldShelflifeMonths]),
		PeriodAfterOpening: coerceInt(raw[FieldPeriodAfterOpening]),
		CBM:                coerceFloat(raw[FieldCBM]),
		HeightCm:           coerceFloat(raw[FieldHeightCm]),
		WidthCm:            coerceFloat(raw[FieldWidthCm]),
		LengthCm:           coerceFloat(raw[FieldLengthCm]),
		WeightG:            coerceFloat(raw[FieldWeightG]),
		ExpiryItem:         raw[FieldExpiryItem],
		SellingBan:         raw[FieldSellingBan],
		StorageType:        raw[FieldStorageType],
		TesterProduct:      raw[FieldTesterProduct],
		ImageURL:           raw[FieldImageURL],
	}
}

// Validate reports whether the record carries the two mandatory identifiers.
// Everything else may stay empty.
func (r Record) Validate() error {
	if strings.TrimSpace(r.SKUCode) == "" {
		return ErrSKUCodeRequired
	}
	if strings.TrimSpace(r.SKUName) == "" {
		return ErrSKUNameRequired
	}
	return nil
}

// DisplayRow returns the eight list view columns in order: SKU code, SKU
// name, status, product line, category, formatted SRP, shelf life and
// storage type.
func (r Record) DisplayRow() []string {
	return []string{
		r.SKUCode,
		r.SKUName,
		r.Status,
		r.ProductLine,
		r.Category,
		FormatCurrency(r.SRP),
		strconv.Itoa(r.ShelflifeMonths) + " months",
		r.StorageType,
	}
}

// StorageMap renders every field back to its storage string form. Numbers use
// the shortest exact notation, so NewRecord(r.StorageMap()) reproduces r.
func (r Record) StorageMap() map[string]string {
	return map[string]string{
		FieldStatus:             r.Status,
		FieldSKUCode:            r.SKUCode,
		FieldSKUName:            r.SKUName,
		FieldProductLine:        r.ProductLine,
		FieldCategory:           r.Category,
		FieldSubCategory:        r.SubCategory,
		FieldMFUPC:              r.MFUPC,
		FieldSRP:                formatFloat(r.SRP),
		FieldPcsPerInnerBox:     strconv.Itoa(r.PcsPerInnerBox),
		FieldPcsPerMasterBox:    strconv.Itoa(r.PcsPerMasterBox),
		FieldShelflifeMonths:    strconv.Itoa(r.ShelflifeMonths),
		FieldPeriodAfterOpening: strconv.Itoa(r.PeriodAfterOpening),
		FieldCBM:                formatFloat(r.CBM),
		FieldHeightCm:           formatFloat(r.HeightCm),
		FieldWidthCm:            formatFloat(r.WidthCm),
		FieldLengthCm:           formatFloat(r.LengthCm),
		FieldWeightG:            formatFloat(r.WeightG),
		FieldExpiryItem:         r.ExpiryItem,
		FieldSellingBan:         r.SellingBan,
		FieldStorageType:        r.StorageType,
		FieldTesterProduct:      r.TesterProduct,
		FieldImageURL:           r.ImageURL,
	}
}

// StorageRow returns the storage values in FieldNames order, ready to be
// written as one CSV row.
func (r Record) StorageRow() []string {
	values := r.StorageMap()
	row := make([]string, 0, len(fieldNames))
	for _, name := range fieldNames {
		row = append(row, values[name])
	}
	return row
}

// coerceFloat parses v as float64. Leading and trailing whitespace is
// tolerated; empty or malformed input degrades to zero.
func coerceFloat(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// coerceInt parses v as int with the same degradation rule as coerceFloat.
func coerceInt(v string) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// formatFloat renders a float in its shortest round-trippable decimal form.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
