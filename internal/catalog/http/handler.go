package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/skubase/skubase/internal/catalog"
	"github.com/skubase/skubase/internal/platform/httpx"
	"github.com/skubase/skubase/internal/shared"
	"github.com/skubase/skubase/internal/storage"
	"github.com/skubase/skubase/internal/view"
	"github.com/skubase/skubase/report"
)

const importMaxBytes = 10 << 20

// displayColumns heads the product list table, one per DisplayRow element.
var displayColumns = []string{
	"SKU Code", "SKU Name", "Status", "Product Line", "Category",
	"SRP", "Shelflife", "Storage Type",
}

// Handler serves the product workbench pages.
type Handler struct {
	logger    *slog.Logger
	service   *catalog.Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	sessions  *shared.SessionManager
	validate  *validator.Validate
	pdf       *report.Client
	dataPath  string
}

// NewHandler wires the handler. pdf may be nil, which hides the PDF export.
func NewHandler(
	logger *slog.Logger,
	service *catalog.Service,
	templates *view.Engine,
	csrf *shared.CSRFManager,
	sessions *shared.SessionManager,
	pdf *report.Client,
	dataPath string,
) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
		sessions:  sessions,
		validate:  validator.New(),
		pdf:       pdf,
		dataPath:  dataPath,
	}
}

// MountRoutes registers the workbench routes on the root router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/new", h.Form)
	r.Post("/products", h.Create)
	r.Get("/products/view", h.Show)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/dashboard.json", h.DashboardJSON)
	r.Post("/save", h.Save)
	r.Post("/reload", h.Reload)
	r.Get("/export/csv", h.ExportCSV)
	r.Get("/export/xlsx", h.ExportXLSX)
	r.Get("/export/pdf", h.ExportPDF)
	r.Post("/import/xlsx", h.ImportXLSX)
}

type productForm struct {
	SKUCode string `validate:"required"`
	SKUName string `validate:"required"`
}

type productListData struct {
	Rows       [][]string
	Columns    []string
	Search     string
	Pagination shared.Pagination
	Total      int
	Dirty      bool
	PDFEnabled bool
}

type productFormData struct {
	Values map[string]string
	Errors map[string]string
}

type fieldValue struct {
	Name  string
	Value string
}

type productDetailData struct {
	Record catalog.Record
	Fields []fieldValue
}

type metricView struct {
	Name  string
	Value string
}

type dashboardData struct {
	Metrics     []metricView
	Lines       []catalog.LineCount
	Total       int
	GeneratedAt time.Time
}

type catalogSheetData struct {
	Columns     []string
	Rows        [][]string
	Total       int
	GeneratedAt time.Time
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	search := r.URL.Query().Get("q")

	records, total := h.service.List(r.Context(), catalog.ListFilters{Search: search, Page: page, Limit: limit})
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.DisplayRow())
	}

	h.render(w, r, "products.html", "Products", productListData{
		Rows:       rows,
		Columns:    displayColumns,
		Search:     search,
		Pagination: shared.NewPagination(page, limit, total),
		Total:      total,
		Dirty:      h.service.Dirty(),
		PDFEnabled: h.pdf != nil,
	}, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "product_form.html", "Add Product", productFormData{
		Values: defaultFormValues(),
		Errors: map[string]string{},
	}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	raw := formValues(r)

	form := productForm{
		SKUCode: strings.TrimSpace(raw[catalog.FieldSKUCode]),
		SKUName: strings.TrimSpace(raw[catalog.FieldSKUName]),
	}
	if err := h.validate.Struct(form); err != nil {
		fieldErrors := map[string]string{}
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			for _, fe := range invalid {
				switch fe.Field() {
				case "SKUCode":
					fieldErrors[catalog.FieldSKUCode] = "SKU Code is required"
				case "SKUName":
					fieldErrors[catalog.FieldSKUName] = "SKU Name is required"
				}
			}
		}
		h.render(w, r, "product_form.html", "Add Product", productFormData{
			Values: raw,
			Errors: fieldErrors,
		}, http.StatusBadRequest)
		return
	}

	rec, err := h.service.Add(r.Context(), raw)
	if err != nil {
		h.render(w, r, "product_form.html", "Add Product", productFormData{
			Values: raw,
			Errors: map[string]string{"general": err.Error()},
		}, http.StatusBadRequest)
		return
	}

	h.redirectWithFlash(w, r, "/products", "success", fmt.Sprintf("Product '%s' added successfully", rec.SKUName))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing product code", http.StatusBadRequest)
		return
	}
	rec, err := h.service.Get(r.Context(), code)
	if err != nil {
		if errors.Is(err, catalog.ErrRecordNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		h.logger.Error("get product failed", "error", err, "code", code)
		http.Error(w, "Failed to load product", http.StatusInternalServerError)
		return
	}

	values := rec.StorageMap()
	names := catalog.FieldNames()
	fields := make([]fieldValue, 0, len(names))
	for _, name := range names {
		fields = append(fields, fieldValue{Name: name, Value: values[name]})
	}
	h.render(w, r, "product_detail.html", rec.SKUName, productDetailData{
		Record: rec,
		Fields: fields,
	}, http.StatusOK)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("summarize catalog failed", "error", err)
		http.Error(w, "Failed to analyze products", http.StatusInternalServerError)
		return
	}
	metrics := summary.Metrics()
	names := catalog.MetricNames()
	views := make([]metricView, 0, len(names))
	for _, name := range names {
		views = append(views, metricView{Name: name, Value: metrics[name]})
	}
	h.render(w, r, "dashboard.html", "Dashboard", dashboardData{
		Metrics:     views,
		Lines:       summary.ProductLines,
		Total:       summary.TotalProducts,
		GeneratedAt: time.Now(),
	}, http.StatusOK)
}

func (h *Handler) DashboardJSON(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		httpx.Problem(w, http.StatusInternalServerError, "Summary failed", "The catalog summary could not be computed.")
		return
	}
	httpx.JSON(w, http.StatusOK, summary.Metrics())
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Save(r.Context()); err != nil {
		h.logger.Error("save products failed", "error", err)
		h.redirectWithFlash(w, r, "/products", "error", fmt.Sprintf("Failed to save products: %v", err))
		return
	}
	h.redirectWithFlash(w, r, "/products", "success", fmt.Sprintf("Products saved to %s", filepath.Base(h.dataPath)))
}

func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reload(r.Context()); err != nil {
		h.logger.Error("reload products failed", "error", err)
		h.redirectWithFlash(w, r, "/products", "error", fmt.Sprintf("Failed to load products: %v", err))
		return
	}
	h.redirectWithFlash(w, r, "/products", "success", "Products reloaded from file")
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	records := h.service.Records()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="product_master_data.csv"`)
	if err := storage.ExportCSV(w, records); err != nil {
		h.logger.Error("export csv failed", "error", err)
	}
}

func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	records := h.service.Records()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="product_master_data.xlsx"`)
	if err := storage.WriteXLSX(w, records); err != nil {
		h.logger.Error("export xlsx failed", "error", err)
	}
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		h.redirectWithFlash(w, r, "/products", "warning", "PDF export is not configured")
		return
	}
	records := h.service.Records()
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.DisplayRow())
	}
	var html bytes.Buffer
	err := h.templates.Execute(&html, "catalog_sheet.html", view.TemplateData{
		Title: "Product Catalog",
		Data: catalogSheetData{
			Columns:     displayColumns,
			Rows:        rows,
			Total:       len(records),
			GeneratedAt: time.Now(),
		},
	})
	if err != nil {
		h.logger.Error("render catalog sheet", "error", err)
		h.redirectWithFlash(w, r, "/products", "error", "Failed to render catalog sheet")
		return
	}
	pdf, err := h.pdf.RenderHTML(r.Context(), html.String())
	if err != nil {
		h.logger.Error("convert catalog sheet", "error", err)
		h.redirectWithFlash(w, r, "/products", "error", "PDF converter is unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="product_catalog.pdf"`)
	_, _ = w.Write(pdf)
}

func (h *Handler) ImportXLSX(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(importMaxBytes); err != nil {
		h.redirectWithFlash(w, r, "/products", "error", "Upload too large or malformed")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.redirectWithFlash(w, r, "/products", "error", "Choose a workbook to import")
		return
	}
	defer func() { _ = file.Close() }()
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		h.redirectWithFlash(w, r, "/products", "error", "Only .xlsx workbooks are supported")
		return
	}

	rows, err := storage.ReadXLSX(file)
	if err != nil {
		h.logger.Error("read workbook failed", "error", err, "filename", header.Filename)
		h.redirectWithFlash(w, r, "/products", "error", "Could not read the workbook")
		return
	}
	result := h.service.Import(r.Context(), rows)
	if len(result.Skipped) > 0 {
		h.logger.Warn("import skipped rows", "filename", header.Filename, "skipped", len(result.Skipped), slog.Any("reasons", result.Skipped))
		h.redirectWithFlash(w, r, "/products", "warning", fmt.Sprintf("Imported %d products, skipped %d rows", result.Added, len(result.Skipped)))
		return
	}
	h.redirectWithFlash(w, r, "/products", "success", fmt.Sprintf("Imported %d products", result.Added))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logger.Error("render template", "error", err, "template", template)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// formValues collects every recognized field from the submitted form,
// preserving values verbatim.
func formValues(r *http.Request) map[string]string {
	names := catalog.FieldNames()
	raw := make(map[string]string, len(names))
	for _, name := range names {
		raw[name] = r.PostFormValue(name)
	}
	return raw
}

// defaultFormValues seeds the add form with the usual defaults.
func defaultFormValues() map[string]string {
	values := make(map[string]string, len(catalog.FieldNames()))
	for _, name := range catalog.FieldNames() {
		values[name] = ""
	}
	values[catalog.FieldStatus] = catalog.StatusActive
	values[catalog.FieldExpiryItem] = catalog.ValueNo
	values[catalog.FieldSellingBan] = catalog.ValueNo
	values[catalog.FieldTesterProduct] = catalog.ValueNo
	return values
}
