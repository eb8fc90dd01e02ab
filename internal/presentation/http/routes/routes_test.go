package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfront-pos/internal/application/service"
	"github.com/sangkips/shopfront-pos/internal/config"
	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/internal/infrastructure/repository"
	"github.com/sangkips/shopfront-pos/internal/infrastructure/vendor"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/handler"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/middleware"
	"github.com/sangkips/shopfront-pos/pkg/logger"
	"github.com/sangkips/shopfront-pos/pkg/printer"
	"github.com/sangkips/shopfront-pos/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	token   string
	dataDir string
	spool   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	spool := filepath.Join(dir, "spool")
	log := logger.Discard()

	cfg := &config.Config{
		App:       config.AppConfig{Name: "shopfront-pos"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
	}

	hash, err := utils.HashPassword("2468")
	require.NoError(t, err)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	goods := repository.NewGoodsRepositoryFromList([]entity.Goods{
		{Code6: "100001", GoodsID: "ABC-1", Name: "りんご", SellingPrice: decimal.NewFromInt(150)},
	})
	sales := repository.NewSaleRepository(dataDir, log)
	cashflow := repository.NewCashFlowRepository(dataDir, log)

	pipeline := vendor.NewPipeline(nil, vendor.PipelineConfig{Simulate: true, ReportsDir: filepath.Join(dir, "reports")}, log)
	syncSvc := service.NewSyncService(pipeline, dataDir, false, log)
	printerSvc := service.NewPrinterService(printer.NewSpoolPrinter(spool), sales, service.PrinterOptions{Type: "spool", KickDrawer: true}, log)
	checkout := service.NewCheckoutService(goods, sales, printerSvc, syncSvc, log)
	reports := service.NewReportService(sales, cashflow, filepath.Join(dir, "reports"), log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := Setup(&Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(map[string]string{"alice": hash}, jwtManager)),
		Checkout: handler.NewCheckoutHandler(checkout),
		CashFlow: handler.NewCashFlowHandler(service.NewCashFlowService(cashflow)),
		Sale:     handler.NewSaleHandler(sales),
		Sync:     handler.NewSyncHandler(syncSvc),
		Report:   handler.NewReportHandler(reports),
		Printer:  handler.NewPrinterHandler(printerSvc),
	}, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(),
		Logger:          log,
		Ctx:             ctx,
	})

	return &testServer{t: t, router: router, dataDir: dataDir, spool: spool}
}

func (s *testServer) do(method, path string, body any, headers ...string) (*httptest.ResponseRecorder, apiBody) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out apiBody
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func (s *testServer) login() {
	s.t.Helper()
	w, body := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"operator": "alice", "pin": "2468"})
	require.Equal(s.t, http.StatusOK, w.Code)
	var out service.LoginOutput
	require.NoError(s.t, json.Unmarshal(body.Data, &out))
	s.token = out.AccessToken
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestLoginAndAuth(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"operator": "alice", "pin": "1111"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"operator": "alice", "pin": "abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.login()
	w, body := s.do(http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]string](t, body.Data)
	assert.Equal(t, "alice", me["operator"])
}

func TestCheckoutOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w, _ := s.do(http.MethodGet, "/api/v1/goods/100001", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/v1/goods/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/checkout/items", map[string]string{"code": "100001"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := s.do(http.MethodPost, "/api/v1/checkout/discounts", map[string]any{"kind": "percent", "value": 10})
	require.Equal(t, http.StatusCreated, w.Code)
	cart := decode[service.CartView](t, body.Data)
	assert.Equal(t, int64(135), cart.Total)

	w, _ = s.do(http.MethodPost, "/api/v1/checkout/discounts", map[string]any{"kind": "percent", "value": 10, "index": 3})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/checkout/complete", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body = s.do(http.MethodPost, "/api/v1/checkout/settlement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(135), decode[service.Settlement](t, body.Data).TotalDue)

	w, body = s.do(http.MethodGet, "/api/v1/checkout/settlement/initial-amount?method=card", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body.Data), `"135"`)

	w, body = s.do(http.MethodPost, "/api/v1/checkout/tenders", map[string]any{"method": "cash", "amount": 100})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", body.Message)

	w, body = s.do(http.MethodPost, "/api/v1/checkout/tenders", map[string]any{"method": "現金", "amount": "100"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "complete", body.Message)
	res := decode[service.PaymentResult](t, body.Data)
	assert.True(t, res.Change.Equal(decimal.NewFromInt(65)))

	w, body = s.do(http.MethodPost, "/api/v1/checkout/complete", nil, middleware.IdempotencyKeyHeader, "tap-1")
	require.Equal(t, http.StatusCreated, w.Code)
	done := decode[service.CompletedSale](t, body.Data)
	assert.Equal(t, "alice", done.Receipt.Cashier)
	assert.FileExists(t, done.Path)
	first := w.Body.String()

	w, _ = s.do(http.MethodPost, "/api/v1/checkout/complete", nil, middleware.IdempotencyKeyHeader, "tap-1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get(middleware.IdempotencyReplayedHeader))
	assert.Equal(t, first, w.Body.String())

	spooled, err := filepath.Glob(filepath.Join(s.spool, "receipt_*.bin"))
	require.NoError(t, err)
	assert.Len(t, spooled, 1)

	w, body = s.do(http.MethodGet, "/api/v1/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Items      []repositorySale `json:"items"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}](t, body.Data)
	assert.Equal(t, int64(1), page.Pagination.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "new", page.Items[0].State)

	w, body = s.do(http.MethodPost, "/api/v1/sync/sweep", map[string]bool{"requeue": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[service.SweepResult](t, body.Data).Succeeded)

	name := filepath.Base(done.Path)
	w, body = s.do(http.MethodGet, "/api/v1/sales/"+name, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decode[repositorySale](t, body.Data).State)

	w, _ = s.do(http.MethodPost, "/api/v1/printer/reprint", map[string]string{"name": name})
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = s.do(http.MethodGet, "/api/v1/reports/daily", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[service.DailySummary](t, body.Data).Sales)

	w, _ = s.do(http.MethodGet, "/api/v1/reports/daily/workbook", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w, _ = s.do(http.MethodGet, "/api/v1/reports/daily?date=2025-13-01", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

type repositorySale struct {
	Path  string `json:"path"`
	State string `json:"state"`
}

func TestCartLockedDuringSettlement(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w, _ := s.do(http.MethodPost, "/api/v1/checkout/settlement", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	s.do(http.MethodPost, "/api/v1/checkout/custom-items", map[string]any{"name": "袋", "price": 5})
	w, _ = s.do(http.MethodPost, "/api/v1/checkout/settlement", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/v1/checkout/lines/last", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/checkout/tenders", map[string]any{"method": "card", "amount": 10})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/checkout/tenders", map[string]any{"method": "card", "amount": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/v1/checkout/settlement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, body := s.do(http.MethodDelete, "/api/v1/checkout/lines/last", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[service.CartView](t, body.Data).Items)
}

func TestCashFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w, _ := s.do(http.MethodPost, "/api/v1/cashflow", map[string]any{"type": "deposit", "amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/cashflow", map[string]any{"type": "deposit", "amount": 5000}, middleware.IdempotencyKeyHeader, "d1")
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = s.do(http.MethodPost, "/api/v1/cashflow", map[string]any{"type": "deposit", "amount": 5000}, middleware.IdempotencyKeyHeader, "d1")
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := s.do(http.MethodGet, "/api/v1/cashflow", nil)
	require.Equal(t, http.StatusOK, w.Code)
	records := decode[[]entity.CashFlowRecord](t, body.Data)
	require.Len(t, records, 1)
	assert.Equal(t, int64(5000), records[0].Amount)
}
