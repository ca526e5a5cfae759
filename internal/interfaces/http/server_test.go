package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/infrastructure/database/postgres"
	apihttp "github.com/hustelwithrohit-pixel/retail-management-system/internal/interfaces/http"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/interfaces/http/routes"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/lock"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/spreadsheet"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRenderer struct{}

func (fakeRenderer) GenerateInvoice(inv *invoice.Invoice) (*bytes.Buffer, error) {
	return bytes.NewBufferString("%PDF-1.4 " + inv.InvoiceNumber), nil
}

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) SendInvoiceEmail(_ context.Context, inv *invoice.Invoice) error {
	if inv.CustomerEmail == "" {
		return apperror.NewInvalidArgument("Customer email is missing on this invoice")
	}
	m.sent = append(m.sent, inv.CustomerEmail)
	return nil
}

type apiFixture struct {
	t       *testing.T
	handler http.Handler
	mailer  *fakeMailer
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	db := testutil.NewDB(t, postgres.Models()...)
	cfg := testutil.Config()

	mailer := &fakeMailer{}
	services := routes.NewServices(db, cfg, routes.Options{
		Locker:   lock.NewLocalLocker(),
		Renderer: fakeRenderer{},
		Mailer:   mailer,
	})
	server := apihttp.NewServer(cfg, db, nil, services)

	return &apiFixture{t: t, handler: server.Handler(), mailer: mailer}
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Kind    string          `json:"kind"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (f *apiFixture) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	f.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			f.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			f.t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func (f *apiFixture) expect(rec *httptest.ResponseRecorder, status int) {
	f.t.Helper()
	if rec.Code != status {
		f.t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}

func (f *apiFixture) register(email, name string) string {
	f.t.Helper()
	rec, env := f.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret123",
		"name":     name,
	})
	f.expect(rec, http.StatusCreated)

	var auth struct {
		AccessToken string `json:"access_token"`
	}
	decode(f.t, env.Data, &auth)
	if auth.AccessToken == "" {
		f.t.Fatal("expected an access token")
	}
	return auth.AccessToken
}

func decode(t *testing.T, raw json.RawMessage, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, dest); err != nil {
		t.Fatalf("decode data: %v (%s)", err, string(raw))
	}
}

type productDTO struct {
	ID           uint   `json:"id"`
	CurrentStock string `json:"current_stock"`
}

func (f *apiFixture) createProduct(token, name string, stock int) uint {
	f.t.Helper()
	rec, env := f.do(http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name":          name,
		"price":         100,
		"gst_rate":      18,
		"opening_stock": stock,
	})
	f.expect(rec, http.StatusCreated)

	var p productDTO
	decode(f.t, env.Data, &p)
	return p.ID
}

func TestHealthAndReady(t *testing.T) {
	api := newAPI(t)

	rec, _ := api.do(http.MethodGet, "/health", "", nil)
	api.expect(rec, http.StatusOK)

	rec, _ = api.do(http.MethodGet, "/ready", "", nil)
	api.expect(rec, http.StatusOK)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newAPI(t)

	rec, env := api.do(http.MethodGet, "/api/v1/products", "", nil)
	api.expect(rec, http.StatusUnauthorized)
	if env.Error == "" {
		t.Error("expected an error message")
	}

	rec, _ = api.do(http.MethodGet, "/api/v1/products", "not-a-token", nil)
	api.expect(rec, http.StatusUnauthorized)
}

func TestAuthFlow(t *testing.T) {
	api := newAPI(t)
	token := api.register("owner@shop.test", "Owner")

	rec, env := api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	api.expect(rec, http.StatusOK)

	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decode(t, env.Data, &me)
	if me.Email != "owner@shop.test" || me.Role != "OWNER" {
		t.Errorf("unexpected profile: %+v", me)
	}

	rec, env = api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "owner@shop.test",
		"password": "wrong-password",
	})
	api.expect(rec, http.StatusUnauthorized)
	if env.Error != apperror.ErrInvalidCredentials.Message {
		t.Errorf("unexpected error: %q", env.Error)
	}

	rec, _ = api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "owner@shop.test",
		"password": "secret123",
		"name":     "Again",
	})
	api.expect(rec, http.StatusConflict)
}

func TestValidationErrorsListFields(t *testing.T) {
	api := newAPI(t)
	token := api.register("owner@shop.test", "Owner")

	rec, env := api.do(http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name":     "Broken",
		"price":    0,
		"gst_rate": 140,
	})
	api.expect(rec, http.StatusBadRequest)

	fields := map[string]bool{}
	for _, fe := range env.Errors {
		fields[fe.Field] = true
	}
	if !fields["price"] || !fields["gst_rate"] {
		t.Errorf("expected price and gst_rate errors, got %+v", env.Errors)
	}
}

func TestCheckoutThroughAPI(t *testing.T) {
	api := newAPI(t)
	token := api.register("owner@shop.test", "Owner")
	productID := api.createProduct(token, "Notebook", 10)

	rec, env := api.do(http.MethodPost, "/api/v1/invoices", token, map[string]interface{}{
		"customer_name":  "Asha",
		"customer_phone": "9000000001",
		"customer_email": "asha@shop.test",
		"items": []map[string]interface{}{
			{"product_id": productID, "product_name": "Notebook", "quantity": 3, "price": 100, "gst_rate": 18},
		},
		"discount": 4,
	})
	api.expect(rec, http.StatusCreated)

	var inv struct {
		ID            uint   `json:"id"`
		InvoiceNumber string `json:"invoice_number"`
		Subtotal      string `json:"subtotal"`
		TotalGST      string `json:"total_gst"`
		Total         string `json:"total"`
	}
	decode(t, env.Data, &inv)
	if inv.Subtotal != "300" || inv.TotalGST != "54" || inv.Total != "350" {
		t.Errorf("unexpected totals: %+v", inv)
	}
	if !strings.HasPrefix(inv.InvoiceNumber, "INV-") {
		t.Errorf("unexpected invoice number %q", inv.InvoiceNumber)
	}

	invoicePath := "/api/v1/invoices/" + strconv.FormatUint(uint64(inv.ID), 10)
	rec, _ = api.do(http.MethodGet, invoicePath, token, nil)
	api.expect(rec, http.StatusOK)

	rec, env = api.do(http.MethodGet, "/api/v1/products/"+strconv.FormatUint(uint64(productID), 10), token, nil)
	api.expect(rec, http.StatusOK)
	var detail struct {
		Product         productDTO `json:"product"`
		RecentMovements []struct {
			Type string `json:"type"`
		} `json:"recent_movements"`
	}
	decode(t, env.Data, &detail)
	if detail.Product.CurrentStock != "7" {
		t.Errorf("expected stock 7, got %s", detail.Product.CurrentStock)
	}
	if len(detail.RecentMovements) != 2 || detail.RecentMovements[0].Type != "SALE" {
		t.Errorf("expected SALE then OPENING, got %+v", detail.RecentMovements)
	}

	rec, env = api.do(http.MethodGet, "/api/v1/stock/reconcile/"+strconv.FormatUint(uint64(productID), 10), token, nil)
	api.expect(rec, http.StatusOK)
	var recon struct {
		Consistent bool `json:"consistent"`
	}
	decode(t, env.Data, &recon)
	if !recon.Consistent {
		t.Error("expected ledger to reconcile")
	}

	rec, _ = api.do(http.MethodGet, invoicePath+"/pdf", token, nil)
	api.expect(rec, http.StatusOK)
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), inv.InvoiceNumber+".pdf") {
		t.Errorf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}

	rec, _ = api.do(http.MethodPost, invoicePath+"/email", token, nil)
	api.expect(rec, http.StatusOK)
	rec, _ = api.do(http.MethodPost, invoicePath+"/email", token, map[string]string{"email": "accounts@shop.test"})
	api.expect(rec, http.StatusOK)
	if len(api.mailer.sent) != 2 || api.mailer.sent[1] != "accounts@shop.test" {
		t.Errorf("unexpected deliveries: %v", api.mailer.sent)
	}
}

func TestCheckoutRejectsOverselling(t *testing.T) {
	api := newAPI(t)
	token := api.register("owner@shop.test", "Owner")
	productID := api.createProduct(token, "Pen", 2)

	rec, env := api.do(http.MethodPost, "/api/v1/invoices", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": productID, "product_name": "Pen", "quantity": 5, "price": 10, "gst_rate": 0},
		},
	})
	api.expect(rec, http.StatusUnprocessableEntity)
	if env.Kind != string(apperror.KindNegativeStock) {
		t.Errorf("expected negative stock kind, got %q", env.Kind)
	}

	rec, env = api.do(http.MethodGet, "/api/v1/invoices", token, nil)
	api.expect(rec, http.StatusOK)
	var list struct {
		Total int64 `json:"total"`
	}
	decode(t, env.Data, &list)
	if list.Total != 0 {
		t.Errorf("expected no invoices after rollback, got %d", list.Total)
	}
}

func TestOwnerOnlyRoutes(t *testing.T) {
	api := newAPI(t)
	ownerToken := api.register("owner@shop.test", "Owner")
	staffToken := api.register("staff@shop.test", "Staff")

	rec, _ := api.do(http.MethodGet, "/api/v1/staff", staffToken, nil)
	api.expect(rec, http.StatusForbidden)

	rec, _ = api.do(http.MethodGet, "/api/v1/backup/export?type=products", staffToken, nil)
	api.expect(rec, http.StatusForbidden)

	rec, env := api.do(http.MethodGet, "/api/v1/staff", ownerToken, nil)
	api.expect(rec, http.StatusOK)
	var staff []struct {
		Email string `json:"email"`
	}
	decode(t, env.Data, &staff)
	if len(staff) != 1 || staff[0].Email != "staff@shop.test" {
		t.Errorf("unexpected staff list: %+v", staff)
	}

	// Staff can still sell
	rec, _ = api.do(http.MethodGet, "/api/v1/products", staffToken, nil)
	api.expect(rec, http.StatusOK)
}

func TestReportsAndExports(t *testing.T) {
	api := newAPI(t)
	token := api.register("owner@shop.test", "Owner")
	productID := api.createProduct(token, "Mug", 5)

	rec, _ := api.do(http.MethodPost, "/api/v1/invoices", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": productID, "product_name": "Mug", "quantity": 1, "price": 100, "gst_rate": 18},
		},
	})
	api.expect(rec, http.StatusCreated)

	rec, env := api.do(http.MethodGet, "/api/v1/reports/sales?group_by=day", token, nil)
	api.expect(rec, http.StatusOK)
	if len(env.Data) == 0 {
		t.Error("expected sales data")
	}

	rec, _ = api.do(http.MethodGet, "/api/v1/reports/sales?group_by=year", token, nil)
	api.expect(rec, http.StatusBadRequest)

	rec, _ = api.do(http.MethodGet, "/api/v1/reports/gst?format=xlsx", token, nil)
	api.expect(rec, http.StatusOK)
	if rec.Header().Get("Content-Type") != spreadsheet.ContentType {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("expected a zip based workbook")
	}

	rec, _ = api.do(http.MethodGet, "/api/v1/reports/customer-history", token, nil)
	api.expect(rec, http.StatusBadRequest)

	rec, env = api.do(http.MethodGet, "/api/v1/dashboard/stats", token, nil)
	api.expect(rec, http.StatusOK)
	var stats struct {
		TodayCount    int64 `json:"today_count"`
		TotalProducts int64 `json:"total_products"`
	}
	decode(t, env.Data, &stats)
	if stats.TodayCount != 1 || stats.TotalProducts != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	rec, _ = api.do(http.MethodGet, "/api/v1/backup/export?type=invoices&format=xlsx", token, nil)
	api.expect(rec, http.StatusOK)

	rec, _ = api.do(http.MethodGet, "/api/v1/backup/export?type=db", token, nil)
	api.expect(rec, http.StatusBadRequest)
}

func TestRemindersAndMarketing(t *testing.T) {
	api := newAPI(t)
	token := api.register("owner@shop.test", "Owner")

	rec, env := api.do(http.MethodPost, "/api/v1/reminders", token, map[string]string{
		"title":    "Reorder rice",
		"due_date": "2026-01-15",
	})
	api.expect(rec, http.StatusCreated)
	var r struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	decode(t, env.Data, &r)
	if r.Status != "PENDING" {
		t.Errorf("expected pending reminder, got %q", r.Status)
	}

	path := "/api/v1/reminders/" + strconv.FormatUint(uint64(r.ID), 10)
	rec, _ = api.do(http.MethodPut, path, token, map[string]string{"status": "COMPLETED"})
	api.expect(rec, http.StatusOK)
	rec, _ = api.do(http.MethodDelete, path, token, nil)
	api.expect(rec, http.StatusOK)
	rec, _ = api.do(http.MethodDelete, path, token, nil)
	api.expect(rec, http.StatusNotFound)

	rec, _ = api.do(http.MethodGet, "/api/v1/marketing/templates", token, nil)
	api.expect(rec, http.StatusOK)

	rec, _ = api.do(http.MethodPost, "/api/v1/marketing/render", token, map[string]interface{}{
		"template_id": "does-not-exist",
	})
	api.expect(rec, http.StatusNotFound)
}

func TestUnknownIDsAreRejected(t *testing.T) {
	api := newAPI(t)
	token := api.register("owner@shop.test", "Owner")

	rec, _ := api.do(http.MethodGet, "/api/v1/products/abc", token, nil)
	api.expect(rec, http.StatusBadRequest)

	rec, env := api.do(http.MethodGet, "/api/v1/customers/999", token, nil)
	api.expect(rec, http.StatusNotFound)
	if env.Kind != string(apperror.KindNotFound) {
		t.Errorf("unexpected kind %q", env.Kind)
	}
}
