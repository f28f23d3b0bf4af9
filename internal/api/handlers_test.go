// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/storefront-catalog/internal/cache"
	"github.com/tomtom215/storefront-catalog/internal/catalog"
	"github.com/tomtom215/storefront-catalog/internal/models"
	"github.com/tomtom215/storefront-catalog/internal/query"
)

const testAdminToken = "test-admin-token"

var testRows = [][]string{
	{"id", "name", "category", "price", "is bestseller", "created at", "color name", "size", "sku"},
	{"1", "Classic Tee", "Tees", "499", "yes", "2026-01-10", "Black", "M", "TEE-BLK-M"},
	{"1", "Classic Tee", "Tees", "499", "yes", "2026-01-10", "White", "L", "TEE-WHT-L"},
	{"2", "Canvas Cap", "Caps", "299", "", "2026-02-01", "", "", ""},
	{"3", "Pocket Tee", "Tees", "599", "", "2026-03-05", "", "", ""},
}

type stubFetcher struct {
	calls atomic.Int32
	mu    sync.Mutex
	err   error
}

func (f *stubFetcher) Fetch(context.Context) ([][]string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return testRows, nil
}

func (f *stubFetcher) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeSync struct {
	last time.Time
	err  error
}

func (s fakeSync) LastSyncTime() time.Time { return s.last }
func (s fakeSync) LastError() error        { return s.err }

type testEnv struct {
	server  http.Handler
	fetcher *stubFetcher
	clock   *fakeClock
}

func newTestEnv(t *testing.T, mwCfg *ChiMiddlewareConfig) *testEnv {
	t.Helper()
	fetcher := &stubFetcher{}
	clock := &fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	queries := cache.NewQueryCache[query.Result](64, time.Hour)
	store := cache.NewStore(fetcher, cache.Options{TTL: 5 * time.Minute, OnChange: queries.Purge, Now: clock.Now})
	svc := catalog.NewService(store, queries, catalog.Options{WarmProfiles: []string{"bestseller=true", "category=tees"}})

	handler := NewHandler(svc, fakeSync{})
	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.RateLimitDisabled = true
	}
	mwCfg.RateLimitOnLimit = handler.tooManyRequests
	router := NewRouter(handler, NewChiMiddleware(mwCfg), testAdminToken)
	return &testEnv{server: router.SetupChi(), fetcher: fetcher, clock: clock}
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, target, body string, admin bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)

	var env envelope
	if ct := rec.Header().Get("Content-Type"); strings.HasPrefix(ct, "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v\nbody: %s", method, target, err, rec.Body.String())
		}
	}
	return rec, env
}

func TestProducts(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodGet, "/api/v1/products?category=tees&sortBy=price&sortOrder=desc", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body.Status != "success" || body.Error != nil {
		t.Fatalf("envelope = %+v", body)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag header")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	if body.Metadata.SnapshotAt == nil || body.Metadata.Cached || body.Metadata.Stale {
		t.Errorf("metadata = %+v", body.Metadata)
	}

	var result query.Result
	if err := json.Unmarshal(body.Data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 2 || len(result.Products) != 2 {
		t.Fatalf("pagination = %+v, products = %d", result.Pagination, len(result.Products))
	}
	if result.Products[0].ID != 3 {
		t.Errorf("first product = %d, want 3 (most expensive tee)", result.Products[0].ID)
	}

	_, body = env.do(t, http.MethodGet, "/api/v1/products?category=tees&sortBy=price&sortOrder=desc", "", false)
	if !body.Metadata.Cached {
		t.Error("repeat query should be served from the query cache")
	}
	if got := env.fetcher.calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

func TestProducts_EmptyPageIsArray(t *testing.T) {
	env := newTestEnv(t, nil)

	_, body := env.do(t, http.MethodGet, "/api/v1/products?page=99", "", false)
	if !strings.Contains(string(body.Data), `"products":[]`) {
		t.Errorf("data = %s, want an empty products array", body.Data)
	}
}

func TestProducts_SourceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not configured", fmt.Errorf("%w: SHEET_ID is missing", models.ErrNotConfigured), http.StatusServiceUnavailable, ErrCodeNotConfigured},
		{"auth", models.ErrSourceAuth, http.StatusBadGateway, ErrCodeSourceAuth},
		{"unavailable", models.ErrSourceUnavailable, http.StatusServiceUnavailable, ErrCodeSourceUnavailable},
		{"unknown", errors.New("boom"), http.StatusServiceUnavailable, ErrCodeSourceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.fetcher.fail(tt.err)

			rec, body := env.do(t, http.MethodGet, "/api/v1/products", "", false)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if body.Status != "error" || body.Error == nil || body.Error.Code != tt.wantCode {
				t.Fatalf("envelope = %+v, want code %s", body, tt.wantCode)
			}
			if tt.wantCode == ErrCodeNotConfigured && !strings.Contains(body.Error.Message, "SHEET_ID") {
				t.Errorf("message = %q, want the missing setting named", body.Error.Message)
			}
			if tt.wantCode == ErrCodeSourceUnavailable && rec.Header().Get("Retry-After") == "" {
				t.Error("missing Retry-After on SOURCE_UNAVAILABLE")
			}
		})
	}
}

func TestProducts_ServesStaleOnRefreshFailure(t *testing.T) {
	env := newTestEnv(t, nil)

	if rec, _ := env.do(t, http.MethodGet, "/api/v1/products", "", false); rec.Code != http.StatusOK {
		t.Fatalf("warmup status = %d", rec.Code)
	}
	env.fetcher.fail(models.ErrSourceUnavailable)
	env.clock.Advance(10 * time.Minute)

	rec, body := env.do(t, http.MethodGet, "/api/v1/products?category=caps", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with stale data", rec.Code)
	}
	if !body.Metadata.Stale {
		t.Error("metadata.stale should be true")
	}
}

func TestProductBySlug(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodGet, "/api/v1/products/canvas-cap", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var p models.Product
	if err := json.Unmarshal(body.Data, &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != 2 || p.Slug != "canvas-cap" {
		t.Errorf("product = %d %q", p.ID, p.Slug)
	}

	rec, body = env.do(t, http.MethodGet, "/api/v1/products/no-such-thing", "", false)
	if rec.Code != http.StatusNotFound || body.Error == nil || body.Error.Code != ErrCodeNotFound {
		t.Errorf("missing slug: status = %d, envelope = %+v", rec.Code, body)
	}
}

func TestVariantSKU(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantSKU    string
		wantCode   string
	}{
		{"exact", "productId=1&color=black&size=m", http.StatusOK, "TEE-BLK-M", ""},
		{"color only", "productId=1&color=WHITE", http.StatusOK, "TEE-WHT-L", ""},
		{"no match", "productId=1&color=red", http.StatusNotFound, "", ErrCodeNotFound},
		{"unknown product", "productId=42", http.StatusNotFound, "", ErrCodeNotFound},
		{"missing productId", "color=black", http.StatusBadRequest, "", ErrCodeValidation},
		{"non-numeric productId", "productId=abc", http.StatusBadRequest, "", ErrCodeValidation},
		{"negative productId", "productId=-1", http.StatusBadRequest, "", ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := env.do(t, http.MethodGet, "/api/v1/variants/sku?"+tt.query, "", false)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if body.Error == nil || body.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want code %s", body.Error, tt.wantCode)
				}
				return
			}
			var resp SKUResponse
			if err := json.Unmarshal(body.Data, &resp); err != nil {
				t.Fatal(err)
			}
			if resp.SKU != tt.wantSKU {
				t.Errorf("sku = %q, want %q", resp.SKU, tt.wantSKU)
			}
		})
	}
}

func TestCacheStatus(t *testing.T) {
	env := newTestEnv(t, nil)

	_, body := env.do(t, http.MethodGet, "/api/v1/cache/status", "", false)
	var st catalog.StatusReport
	if err := json.Unmarshal(body.Data, &st); err != nil {
		t.Fatal(err)
	}
	if st.HasSnapshot {
		t.Error("status must not trigger a fetch")
	}
	if env.fetcher.calls.Load() != 0 {
		t.Errorf("fetch calls = %d, want 0", env.fetcher.calls.Load())
	}

	env.do(t, http.MethodGet, "/api/v1/products", "", false)
	_, body = env.do(t, http.MethodGet, "/api/v1/cache/status", "", false)
	if err := json.Unmarshal(body.Data, &st); err != nil {
		t.Fatal(err)
	}
	if !st.HasSnapshot || !st.Fresh || st.Products != 3 || st.WarmProfiles != 2 {
		t.Errorf("status = %+v", st)
	}
}

func TestAdmin_RequiresToken(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/api/v1/admin/cache/clear", "/api/v1/admin/cache/warm", "/api/v1/admin/sync"} {
		rec, body := env.do(t, http.MethodPost, path, "", false)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s status = %d, want 401", path, rec.Code)
		}
		if body.Error == nil || body.Error.Code != ErrCodeUnauthorized {
			t.Errorf("%s error = %+v", path, body.Error)
		}
	}
	if env.fetcher.calls.Load() != 0 {
		t.Error("rejected admin calls must not reach the source")
	}
}

func TestAdmin_ClearCache(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodGet, "/api/v1/products", "", false)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/admin/cache/clear", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.fetcher.calls.Load() != 1 {
		t.Error("clear must not fetch")
	}

	_, body := env.do(t, http.MethodGet, "/api/v1/products", "", false)
	if body.Metadata.Cached {
		t.Error("listing after clear should not be a query cache hit")
	}
	if env.fetcher.calls.Load() != 2 {
		t.Errorf("fetch calls = %d, want 2", env.fetcher.calls.Load())
	}
}

func TestAdmin_WarmCache(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("configured profiles", func(t *testing.T) {
		rec, body := env.do(t, http.MethodPost, "/api/v1/admin/cache/warm", "", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var report catalog.WarmReport
		if err := json.Unmarshal(body.Data, &report); err != nil {
			t.Fatal(err)
		}
		if report.Succeeded != 2 || report.Failed != 0 {
			t.Errorf("report = %+v", report)
		}

		_, list := env.do(t, http.MethodGet, "/api/v1/products?bestseller=true", "", false)
		if !list.Metadata.Cached {
			t.Error("warmed profile should be a query cache hit")
		}
	})

	t.Run("body profiles", func(t *testing.T) {
		rec, body := env.do(t, http.MethodPost, "/api/v1/admin/cache/warm", `{"profiles":["category=caps&limit=4"]}`, true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var report catalog.WarmReport
		if err := json.Unmarshal(body.Data, &report); err != nil {
			t.Fatal(err)
		}
		if len(report.Results) != 1 || report.Results[0].Total != 1 {
			t.Errorf("results = %+v", report.Results)
		}
	})

	t.Run("invalid profile", func(t *testing.T) {
		rec, body := env.do(t, http.MethodPost, "/api/v1/admin/cache/warm", `{"profiles":["not a query"]}`, true)
		if rec.Code != http.StatusBadRequest || body.Error == nil || body.Error.Code != ErrCodeValidation {
			t.Errorf("status = %d, error = %+v", rec.Code, body.Error)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodPost, "/api/v1/admin/cache/warm", `{"profiles":`, true)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestAdmin_Sync(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodPost, "/api/v1/admin/sync", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp SyncResponse
	if err := json.Unmarshal(body.Data, &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Sync.OK || resp.Sync.Products != 3 || resp.Warm == nil {
		t.Errorf("response = %+v", resp)
	}

	env.fetcher.fail(models.ErrSourceAuth)
	rec, body = env.do(t, http.MethodPost, "/api/v1/admin/sync", "", true)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("failed sync status = %d, want 502", rec.Code)
	}
	if err := json.Unmarshal(body.Data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Sync.OK || resp.Sync.Reason != "auth" {
		t.Errorf("failed sync report = %+v", resp.Sync)
	}

	// The earlier snapshot keeps serving.
	rec, _ = env.do(t, http.MethodGet, "/api/v1/products/classic-tee", "", false)
	if rec.Code != http.StatusOK {
		t.Errorf("lookup after failed sync status = %d, want 200", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodGet, "/health", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var h HealthStatus
	if err := json.Unmarshal(body.Data, &h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "starting" {
		t.Errorf("status before first load = %q, want starting", h.Status)
	}

	rec, _ = env.do(t, http.MethodGet, "/health/ready", "", false)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready before first load = %d, want 503", rec.Code)
	}

	env.do(t, http.MethodGet, "/api/v1/products", "", false)

	_, body = env.do(t, http.MethodGet, "/health", "", false)
	if err := json.Unmarshal(body.Data, &h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "healthy" || h.Products != 3 {
		t.Errorf("health = %+v", h)
	}
	rec, _ = env.do(t, http.MethodGet, "/health/ready", "", false)
	if rec.Code != http.StatusOK {
		t.Errorf("ready after load = %d, want 200", rec.Code)
	}
}

func TestRouter_Fallbacks(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodGet, "/api/v1/nope", "", false)
	if rec.Code != http.StatusNotFound || body.Error == nil || body.Error.Code != ErrCodeNotFound {
		t.Errorf("unknown route: status = %d, error = %+v", rec.Code, body.Error)
	}

	rec, body = env.do(t, http.MethodDelete, "/api/v1/products", "", false)
	if rec.Code != http.StatusMethodNotAllowed || body.Error == nil || body.Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("wrong method: status = %d, error = %+v", rec.Code, body.Error)
	}

	rec, _ = env.do(t, http.MethodGet, "/metrics", "", false)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Errorf("metrics: status = %d", rec.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	env := newTestEnv(t, cfg)

	for i := 0; i < 2; i++ {
		if rec, _ := env.do(t, http.MethodGet, "/api/v1/cache/status", "", false); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	rec, body := env.do(t, http.MethodGet, "/api/v1/cache/status", "", false)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	if body.Error == nil || body.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("error = %+v", body.Error)
	}
}

func TestRouter_CORS(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	cfg.CORSAllowedOrigins = []string{"https://shop.example.com"}
	env := newTestEnv(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
