package adminapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kundix7-sys/product-testing-app/config"
	"github.com/kundix7-sys/product-testing-app/internal/app"
	"github.com/kundix7-sys/product-testing-app/internal/domain"
	"github.com/kundix7-sys/product-testing-app/internal/mailer"
	"github.com/kundix7-sys/product-testing-app/internal/report"
	"github.com/kundix7-sys/product-testing-app/internal/snapshot"
	"github.com/kundix7-sys/product-testing-app/internal/store"
)

// stubAppContext wires real collaborators over an in-memory database,
// with no network and no SMTP.
type stubAppContext struct {
	db       *gorm.DB
	cfg      *config.AppConfig
	recStore store.RecordStore
	builder  *report.Builder
	mail     *mailer.Mailer
	bus      EventBus.Bus
	settings map[string]string
}

func newStubAppContext(t *testing.T) *stubAppContext {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	cfg := new(config.AppConfig)
	*cfg = *config.DefaultAppConfig
	return &stubAppContext{
		db:       db,
		cfg:      cfg,
		recStore: store.NewGormRecordStore(db),
		builder: &report.Builder{
			Now: func() time.Time { return time.Date(2026, 8, 25, 10, 15, 0, 0, time.UTC) },
		},
		mail:     mailer.New(cfg.Smtp),
		bus:      EventBus.New(),
		settings: map[string]string{},
	}
}

func (s *stubAppContext) DB() *gorm.DB                     { return s.db }
func (s *stubAppContext) Config() *config.AppConfig        { return s.cfg }
func (s *stubAppContext) Scheduler() *cron.Cron            { return nil }
func (s *stubAppContext) Store() store.RecordStore         { return s.recStore }
func (s *stubAppContext) ReportBuilder() *report.Builder   { return s.builder }
func (s *stubAppContext) Renderer() snapshot.Renderer      { return snapshot.NullRenderer{} }
func (s *stubAppContext) Mailer() *mailer.Mailer           { return s.mail }
func (s *stubAppContext) Bus() EventBus.Bus                { return s.bus }
func (s *stubAppContext) MigrateDB(track bool) error       { return nil }
func (s *stubAppContext) InitDb()                          {}
func (s *stubAppContext) DropAll()                         {}
func (s *stubAppContext) RunSchedulerNow(id int64) error   { return nil }
func (s *stubAppContext) PublishOprLog(n, ip, a, d string) {}

func (s *stubAppContext) GetSettingsStringValue(category, key string) string {
	return s.settings[category+"."+key]
}
func (s *stubAppContext) GetSettingsInt64Value(category, key string) int64 { return 0 }
func (s *stubAppContext) GetSettingsBoolValue(category, key string) bool   { return false }
func (s *stubAppContext) UpdateSettingsValue(category, key, value string) error {
	s.settings[category+"."+key] = value
	return nil
}

var _ app.AppContext = (*stubAppContext)(nil)

func newTestContext(t *testing.T, appCtx *stubAppContext, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(app.ContextKey, appCtx)
	c.Set(app.DBContextKey, appCtx.db)
	return c, rec
}

func seedInspectableProduct(t *testing.T, appCtx *stubAppContext) domain.Product {
	t.Helper()
	p := domain.Product{
		ID:          1001,
		InventoryID: "INV-042",
		Name:        "Widget Pro",
		Description: "Bench unit",
		Price:       129.9,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, appCtx.db.Create(&p).Error)
	require.NoError(t, appCtx.db.Create(&domain.ComponentTest{
		ID: 2001, ProductID: p.ID, Name: "Keyboard", Status: domain.StatusWorking, Sort: 0,
	}).Error)
	require.NoError(t, appCtx.db.Create(&domain.ComponentTest{
		ID: 2002, ProductID: p.ID, Name: "Display", Status: domain.StatusUntested, Sort: 1,
	}).Error)
	require.NoError(t, appCtx.db.Create(&domain.ProductPhoto{
		ID: 3001, ProductID: p.ID, Source: testPNGDataURI(t), Sort: 0,
	}).Error)
	return p
}

func testPNGDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateProductWithComponentsAndPhotos(t *testing.T) {
	appCtx := newStubAppContext(t)
	payload := `{
		"inventory_id": "INV-100",
		"name": "Demo Camera",
		"price": 89.5,
		"components": ["Lens", "Shutter", "Flash"],
		"photos": ["` + testPNGDataURI(t) + `"]
	}`
	c, rec := newTestContext(t, appCtx, http.MethodPost, "/api/products", payload)

	require.NoError(t, createProduct(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, true, body["success"])

	p, err := appCtx.recStore.FindProductByInventoryID(context.Background(), "INV-100")
	require.NoError(t, err)

	tests, err := appCtx.recStore.ComponentTestsByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, tests, 3)
	// declaration order survives the round trip
	assert.Equal(t, "Lens", tests[0].Name)
	assert.Equal(t, "Shutter", tests[1].Name)
	assert.Equal(t, "Flash", tests[2].Name)
	for _, ct := range tests {
		assert.Equal(t, domain.StatusUntested, ct.Status)
		assert.Nil(t, ct.TestedAt)
	}

	photos, err := appCtx.recStore.PhotosByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, photos, 1)
}

func TestCreateProductRejectsMissingFields(t *testing.T) {
	appCtx := newStubAppContext(t)

	c, rec := newTestContext(t, appCtx, http.MethodPost, "/api/products", `{"name": "No inventory"}`)
	require.NoError(t, createProduct(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(t, appCtx, http.MethodPost, "/api/products", `{"inventory_id": "INV-1"}`)
	require.NoError(t, createProduct(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateComponentStampsTestedAt(t *testing.T) {
	appCtx := newStubAppContext(t)
	seedInspectableProduct(t, appCtx)

	c, rec := newTestContext(t, appCtx, http.MethodPut, "/api/components/2002", `{"status": "not-working", "notes": "dead pixels"}`)
	c.SetParamNames("id")
	c.SetParamValues("2002")

	require.NoError(t, updateComponent(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	ct, err := appCtx.recStore.GetComponentTest(context.Background(), 2002)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotWorking, ct.Status)
	assert.Equal(t, "dead pixels", ct.Notes)
	require.NotNil(t, ct.TestedAt)
	assert.WithinDuration(t, time.Now(), *ct.TestedAt, time.Minute)
}

func TestUpdateComponentRejectsUnknownStatus(t *testing.T) {
	appCtx := newStubAppContext(t)
	seedInspectableProduct(t, appCtx)

	c, rec := newTestContext(t, appCtx, http.MethodPut, "/api/components/2002", `{"status": "exploded"}`)
	c.SetParamNames("id")
	c.SetParamValues("2002")

	require.NoError(t, updateComponent(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetachComponentKeepsRow(t *testing.T) {
	appCtx := newStubAppContext(t)
	seedInspectableProduct(t, appCtx)

	c, rec := newTestContext(t, appCtx, http.MethodPost, "/api/components/2001/detach", "")
	c.SetParamNames("id")
	c.SetParamValues("2001")

	require.NoError(t, detachComponent(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	ct, err := appCtx.recStore.GetComponentTest(context.Background(), 2001)
	require.NoError(t, err)
	assert.True(t, ct.Detached())
}

func TestDownloadReport(t *testing.T) {
	appCtx := newStubAppContext(t)
	seedInspectableProduct(t, appCtx)

	c, rec := newTestContext(t, appCtx, http.MethodGet, "/api/products/1001/report", "")
	c.SetParamNames("id")
	c.SetParamValues("1001")

	require.NoError(t, downloadReport(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	assert.Equal(t, `attachment; filename="Widget_Pro_test_report_20260825101500.xlsx"`, disposition)
	// xlsx containers are zip files
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestDownloadReportUnknownProduct(t *testing.T) {
	appCtx := newStubAppContext(t)

	c, rec := newTestContext(t, appCtx, http.MethodGet, "/api/products/999/report", "")
	c.SetParamNames("id")
	c.SetParamValues("999")

	require.NoError(t, downloadReport(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmailReportHandoff(t *testing.T) {
	appCtx := newStubAppContext(t)
	seedInspectableProduct(t, appCtx)

	c, rec := newTestContext(t, appCtx, http.MethodPost, "/api/products/1001/report/email", `{"recipient": "qa@example.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("1001")

	require.NoError(t, emailReport(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	data := body["data"].(map[string]interface{})
	handoff := data["handoff"].(map[string]interface{})

	assert.Equal(t, "qa@example.com", handoff["recipient"])
	assert.Equal(t, "Test report: Widget Pro", handoff["subject"])
	// the email filename has no timestamp token
	assert.Equal(t, "Widget_Pro_test_report.xlsx", handoff["filename"])
	assert.Contains(t, handoff["body"], "must be attached to this email manually")
	assert.Contains(t, handoff["mailto"], "mailto:qa@example.com?")

	content, err := base64.StdEncoding.DecodeString(data["content"].(string))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("PK")))
	assert.Equal(t, false, data["sent"])
}

func TestEmailReportRequiresRecipient(t *testing.T) {
	appCtx := newStubAppContext(t)
	seedInspectableProduct(t, appCtx)

	c, rec := newTestContext(t, appCtx, http.MethodPost, "/api/products/1001/report/email", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("1001")

	require.NoError(t, emailReport(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmailReportFallsBackToDefaultRecipient(t *testing.T) {
	appCtx := newStubAppContext(t)
	appCtx.settings["report.default_recipient"] = "lab@example.com"
	seedInspectableProduct(t, appCtx)

	c, rec := newTestContext(t, appCtx, http.MethodPost, "/api/products/1001/report/email", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("1001")

	require.NoError(t, emailReport(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	handoff := body["data"].(map[string]interface{})["handoff"].(map[string]interface{})
	assert.Equal(t, "lab@example.com", handoff["recipient"])
}

func TestDownloadComponentCSV(t *testing.T) {
	appCtx := newStubAppContext(t)
	seedInspectableProduct(t, appCtx)

	c, rec := newTestContext(t, appCtx, http.MethodGet, "/api/products/1001/report/csv", "")
	c.SetParamNames("id")
	c.SetParamValues("1001")

	require.NoError(t, downloadComponentCSV(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	csv := rec.Body.String()
	assert.Contains(t, csv, "product,inventory_id,component,status,notes,last_tested")
	assert.Contains(t, csv, "Widget Pro,INV-042,Keyboard,working")
	assert.Contains(t, csv, "Widget Pro,INV-042,Display,untested")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "Widget_Pro_test_report_")
}

func TestDeleteProductDetachesComponents(t *testing.T) {
	appCtx := newStubAppContext(t)
	seedInspectableProduct(t, appCtx)

	c, rec := newTestContext(t, appCtx, http.MethodDelete, "/api/products/1001", "")
	c.SetParamNames("id")
	c.SetParamValues("1001")

	require.NoError(t, deleteProduct(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	count, err := appCtx.recStore.CountOrphanComponentTests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	photos, err := appCtx.recStore.AllPhotos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, photos)
}

func TestListProductsSearch(t *testing.T) {
	appCtx := newStubAppContext(t)
	seedInspectableProduct(t, appCtx)
	require.NoError(t, appCtx.db.Create(&domain.Product{
		ID: 1002, InventoryID: "INV-043", Name: "Gadget Mini", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}).Error)

	c, rec := newTestContext(t, appCtx, http.MethodGet, "/api/products?q=widget", "")
	require.NoError(t, listProducts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Widget Pro", items[0].(map[string]interface{})["name"])
}

func TestUpdateSetting(t *testing.T) {
	appCtx := newStubAppContext(t)
	require.NoError(t, appCtx.db.Create(&domain.SysConfig{
		ID: 1, Type: "report", Name: "default_recipient", Value: "",
	}).Error)

	c, rec := newTestContext(t, appCtx, http.MethodPut, "/api/settings",
		`{"type": "report", "name": "default_recipient", "value": "qa@example.com"}`)
	require.NoError(t, updateSetting(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "qa@example.com", appCtx.settings["report.default_recipient"])
}
