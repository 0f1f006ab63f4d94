package catalog

// Field names exactly as they appear in the storage header. Handlers, the
// CSV and XLSX codecs, and the import path all address record values through
// these names, so the strings here are the single source of truth for the
// file format.
const (
	FieldStatus             = "Status"
	FieldSKUCode            = "SKU Code"
	FieldSKUName            = "SKU Name"
	FieldProductLine        = "Product Line"
	FieldCategory           = "Category"
	FieldSubCategory        = "Sub-Category"
	FieldMFUPC              = "MFUPC"
	FieldSRP                = "SRP"
	FieldPcsPerInnerBox     = "PCS per Inner Box"
	FieldPcsPerMasterBox    = "PCS per Master Box"
	FieldShelflifeMonths    = "Shelflife (Months)"
	FieldPeriodAfterOpening = "Period After Opening (Months)"
	FieldCBM                = "CBM"
	FieldHeightCm           = "Height(cm)"
	FieldWidthCm            = "Width(cm)"
	FieldLengthCm           = "Length(cm)"
	FieldWeightG            = "Weight(g)"
	FieldExpiryItem         = "Expiry Item"
	FieldSellingBan         = "Selling Ban"
	FieldStorageType        = "Storage Type"
	FieldTesterProduct      = "Tester product"
	FieldImageURL           = "Image URL"
)

// Status values the workbench offers. Status stays free-form on the record;
// the aggregator matches "active" and "discontinued" case-insensitively.
const (
	StatusActive       = "Active"
	StatusDiscontinued = "Discontinued"
	StatusPending      = "Pending"
)

// Values used by the Yes/No flag fields (Expiry Item, Selling Ban, Tester
// product).
const (
	ValueYes = "Yes"
	ValueNo  = "No"
)

// fieldNames fixes the storage column order.
var fieldNames = []string{
	FieldStatus,
	FieldSKUCode,
	FieldSKUName,
	FieldProductLine,
	FieldCategory,
	FieldSubCategory,
	FieldMFUPC,
	FieldSRP,
	FieldPcsPerInnerBox,
	FieldPcsPerMasterBox,
	FieldShelflifeMonths,
	FieldPeriodAfterOpening,
	FieldCBM,
	FieldHeightCm,
	FieldWidthCm,
	FieldLengthCm,
	FieldWeightG,
	FieldExpiryItem,
	FieldSellingBan,
	FieldStorageType,
	FieldTesterProduct,
	FieldImageURL,
}

// FieldNames returns every recognized field name in storage column order.
// Callers receive a copy and may reorder it freely.
func FieldNames() []string {
	names := make([]string, len(fieldNames))
	copy(names, fieldNames)
	return names
}
