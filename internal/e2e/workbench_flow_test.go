package e2e

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skubase/skubase/internal/app"
	"github.com/skubase/skubase/internal/catalog"
	cataloghttp "github.com/skubase/skubase/internal/catalog/http"
	"github.com/skubase/skubase/internal/observability"
	"github.com/skubase/skubase/internal/shared"
	"github.com/skubase/skubase/internal/storage"
	"github.com/skubase/skubase/internal/view"
	_ "github.com/skubase/skubase/internal/testing/guard"
)

var csrfInputPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// workbench runs the full router against a real CSV file in a temp dir, the
// same wiring the binary uses minus Redis and the worker.
type workbench struct {
	server  *httptest.Server
	service *catalog.Service
	client  *http.Client
}

func newWorkbench(t *testing.T, dataFile string) *workbench {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	templates, err := view.NewEngine()
	require.NoError(t, err)

	store := storage.NewCSVStore(dataFile)
	service := catalog.NewService(catalog.NewCollection(), store, nil, nil)
	sessions := shared.NewSessionManager(shared.NewMemorySessionStore(), "skubase_session", "secret", 0, false)
	csrf := shared.NewCSRFManager("csrf-secret")

	handler := cataloghttp.NewHandler(logger, service, templates, csrf, sessions, nil, dataFile)
	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Templates:      templates,
		SessionManager: sessions,
		CSRFManager:    csrf,
		CatalogHandler: handler,
		Metrics:        observability.NewMetrics(),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar := newCookieJar(t)
	return &workbench{
		server:  server,
		service: service,
		client:  &http.Client{Jar: jar},
	}
}

func (w *workbench) get(t *testing.T, path string) string {
	t.Helper()
	resp, err := w.client.Get(w.server.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode, "GET %s", path)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (w *workbench) post(t *testing.T, path string, form url.Values) string {
	t.Helper()
	resp, err := w.client.PostForm(w.server.URL+path, form)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode, "POST %s", path)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (w *workbench) csrfToken(t *testing.T) string {
	t.Helper()
	body := w.get(t, "/products/new")
	match := csrfInputPattern.FindStringSubmatch(body)
	require.NotNil(t, match, "form should carry a csrf token")
	return match[1]
}

func TestWorkbenchAddSaveDashboardFlow(t *testing.T) {
	dataFile := t.TempDir() + "/catalog.csv"
	w := newWorkbench(t, dataFile)

	token := w.csrfToken(t)

	form := url.Values{}
	form.Set("csrf_token", token)
	form.Set("SKU Code", "SKU-001")
	form.Set("SKU Name", "Rose Lip Tint")
	form.Set("Status", "Active")
	form.Set("Product Line", "Makeup")
	form.Set("SRP", "349.75")
	body := w.post(t, "/products", form)
	assert.Contains(t, body, "Rose Lip Tint")
	assert.Contains(t, body, "added successfully")

	form = url.Values{}
	form.Set("csrf_token", token)
	body = w.post(t, "/save", form)
	assert.Contains(t, body, "saved")

	// The save reached the file on disk.
	records, err := storage.NewCSVStore(dataFile).Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SKU-001", records[0].SKUCode)

	body = w.get(t, "/dashboard")
	assert.Contains(t, body, "Total Products")
	assert.Contains(t, body, "Makeup")

	body = w.get(t, "/dashboard.json")
	assert.Contains(t, body, `"Total Products":"1"`)
	assert.Contains(t, body, `"Avg SRP":"₱349.75"`)
}

func TestWorkbenchRejectsPostWithoutCSRFToken(t *testing.T) {
	w := newWorkbench(t, t.TempDir()+"/catalog.csv")

	form := url.Values{}
	form.Set("SKU Code", "SKU-001")
	form.Set("SKU Name", "Rose Lip Tint")

	resp, err := w.client.PostForm(w.server.URL+"/products", form)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, w.service.Records())
}

func TestWorkbenchHealthAndMetricsEndpoints(t *testing.T) {
	w := newWorkbench(t, t.TempDir()+"/catalog.csv")

	body := w.get(t, "/healthz")
	assert.Contains(t, body, `"status":"ok"`)

	body = w.get(t, "/metrics")
	assert.Contains(t, body, "skubase_build_info 1")
}

func TestWorkbenchRootRedirectsToProducts(t *testing.T) {
	w := newWorkbench(t, t.TempDir()+"/catalog.csv")

	body := w.get(t, "/")
	assert.Contains(t, body, "Products")
}

func newCookieJar(t *testing.T) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return jar
}
