package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lechem-bakery/storefront/internal/domain"
	"github.com/lechem-bakery/storefront/internal/orders"
	"github.com/lechem-bakery/storefront/internal/statistics"
)

var adminNow = time.Date(2026, time.January, 25, 12, 0, 0, 0, testZone)

type failingSource struct{}

func (failingSource) List(context.Context) ([]domain.Order, error) {
	return nil, errors.New("backend offline")
}

func newTestAdminRouter(deps AdminDeps) chi.Router {
	if deps.Location == nil {
		deps.Location = testZone
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return adminNow }
	}
	router := chi.NewRouter()
	NewAdminHandlers(deps).Routes(router)
	return router
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAdminHandlersListFields(t *testing.T) {
	router := newTestAdminRouter(AdminDeps{})
	req := httptest.NewRequest(http.MethodGet, "/order-fields", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp fieldsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Fields) != 8 {
		t.Fatalf("expected 8 fields, got %d", len(resp.Fields))
	}
	if resp.Fields[0].Name != "id" {
		t.Fatalf("expected id first, got %s", resp.Fields[0].Name)
	}
	for _, f := range resp.Fields {
		if len(f.Operators) == 0 {
			t.Fatalf("field %s has no operators", f.Name)
		}
	}
}

func TestAdminHandlersValidateFilter(t *testing.T) {
	router := newTestAdminRouter(AdminDeps{})

	rr := postJSON(router, "/filters:validate", `{"field":"total","operator":"between","value":[100,200]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp filterValidationResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Valid {
		t.Fatalf("expected valid filter, got %q", resp.Error)
	}
	if resp.Display != "סכום כולל בין 100 - 200" {
		t.Fatalf("unexpected display %q", resp.Display)
	}

	rr = postJSON(router, "/filters:validate", `{"field":"total","operator":"greaterThan","value":"abc"}`)
	resp = filterValidationResponse{}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Valid || resp.Error != "נא להזין ערך מספרי תקין" {
		t.Fatalf("expected numeric error, got %+v", resp)
	}
}

func TestAdminHandlersFilterOrdersFromRequest(t *testing.T) {
	router := newTestAdminRouter(AdminDeps{})

	body := `{
		"orders": [
			{"id":"a","total":50,"created_at":"2026-01-10T10:00:00Z"},
			{"id":"b","total":150,"created_at":"2026-01-11T10:00:00Z"},
			{"id":"c","total":250,"created_at":"2026-01-12T10:00:00Z"}
		],
		"filters": [{"field":"total","operator":"between","value":[100,200]}]
	}`
	rr := postJSON(router, "/orders:filter", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp filterOrdersResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 3 || resp.Matched != 1 {
		t.Fatalf("expected 1 of 3 matched, got %d of %d", resp.Matched, resp.Total)
	}
	if resp.Orders[0].ID != "b" {
		t.Fatalf("expected order b, got %s", resp.Orders[0].ID)
	}
	if len(resp.Filters) != 1 || resp.Filters[0].Display != "סכום כולל בין 100 - 200" {
		t.Fatalf("unexpected applied filters %+v", resp.Filters)
	}
}

func TestAdminHandlersFilterOrdersWithNumericIDs(t *testing.T) {
	router := newTestAdminRouter(AdminDeps{})

	body := `{
		"orders": [
			{"id":17,"total":80,"created_at":"2026-01-10T10:00:00Z"},
			{"id":18,"total":120,"created_at":"2026-01-11T10:00:00Z"}
		],
		"filters": [{"field":"id","operator":"is","value":"17"}]
	}`
	rr := postJSON(router, "/orders:filter", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp filterOrdersResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 || resp.Matched != 1 {
		t.Fatalf("expected 1 of 2 matched, got %d of %d", resp.Matched, resp.Total)
	}
	if resp.Orders[0].ID != "17" {
		t.Fatalf("expected order 17, got %s", resp.Orders[0].ID)
	}

	rr = postJSON(router, "/statistics", `{"orders":[{"id":17,"total":80,"paid":true,"created_at":"2026-01-20T10:00:00Z"}],"range":"this_month"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected statistics status 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAdminHandlersFilterOrdersFromFixtures(t *testing.T) {
	router := newTestAdminRouter(AdminDeps{
		Source:          orders.NewStaticSource(adminNow),
		FixturesEnabled: true,
	})

	rr := postJSON(router, "/orders:filter", `{"filters":[{"field":"paid","operator":"is","value":false}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp filterOrdersResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 7 {
		t.Fatalf("expected 7 fixture orders, got %d", resp.Total)
	}
	got := make([]string, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		got = append(got, o.ID.String())
	}
	if len(got) != 2 || got[0] != "ord-1043" || got[1] != "ord-1046" {
		t.Fatalf("expected unpaid fixtures, got %v", got)
	}
}

func TestAdminHandlersFilterOrdersEmptyResult(t *testing.T) {
	router := newTestAdminRouter(AdminDeps{})

	rr := postJSON(router, "/orders:filter", `{"orders":[{"id":"a","paid":true}],"filters":[{"field":"paid","operator":"is","value":"no"}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if string(raw["orders"]) != "[]" {
		t.Fatalf("expected empty array, got %s", raw["orders"])
	}
}

func TestAdminHandlersFilterOrdersErrors(t *testing.T) {
	cases := []struct {
		name   string
		deps   AdminDeps
		body   string
		status int
		code   string
	}{
		{
			name:   "unknown field",
			body:   `{"orders":[],"filters":[{"field":"color","operator":"is","value":"red"}]}`,
			status: http.StatusUnprocessableEntity,
			code:   "invalid_filter",
		},
		{
			name:   "orders required without fixtures",
			body:   `{"filters":[]}`,
			status: http.StatusBadRequest,
			code:   "invalid_request",
		},
		{
			name:   "source failure",
			deps:   AdminDeps{Source: failingSource{}, FixturesEnabled: true},
			body:   `{"filters":[]}`,
			status: http.StatusInternalServerError,
			code:   "orders_unavailable",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestAdminRouter(tc.deps)
			rr := postJSON(router, "/orders:filter", tc.body)
			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rr.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body["error"] != tc.code {
				t.Fatalf("expected error %s, got %v", tc.code, body["error"])
			}
		})
	}
}

func TestAdminHandlersInvalidFilterCarriesHebrewMessage(t *testing.T) {
	router := newTestAdminRouter(AdminDeps{})
	rr := postJSON(router, "/orders:filter", `{"orders":[],"filters":[{"field":"paid","operator":"is","value":true},{"field":"color","operator":"is","value":"red"}]}`)

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["message"] != "שדה הסינון אינו מוכר" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["index"] != float64(1) {
		t.Fatalf("expected index 1, got %v", body["index"])
	}
}

func TestAdminHandlersStatisticsCustomRange(t *testing.T) {
	router := newTestAdminRouter(AdminDeps{})

	body := `{
		"range": "custom",
		"start": "2026-01-01",
		"end": "2026-01-31",
		"orders": [
			{"id":"a","total":100,"created_at":"2026-01-10T10:00:00+02:00","pickup_time":"09:00","items":[{"title":"חלה","quantity":2,"price":25,"total":50}]},
			{"id":"b","total_price":50,"created_at":"2026-01-20T10:00:00+02:00","pickup_time":"10:30"},
			{"id":"c","total":75,"created_at":"2025-12-15T10:00:00+02:00"}
		]
	}`
	rr := postJSON(router, "/statistics", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var report statistics.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.Key != statistics.RangeCustom {
		t.Fatalf("expected custom range, got %s", report.Key)
	}
	if report.KPIs.TotalOrders != 2 {
		t.Fatalf("expected 2 orders, got %d", report.KPIs.TotalOrders)
	}
	if report.KPIs.TotalRevenue != 150 {
		t.Fatalf("expected revenue 150, got %v", report.KPIs.TotalRevenue)
	}
	if report.KPIs.DeltaRevenue != 100 {
		t.Fatalf("expected revenue delta 100, got %v", report.KPIs.DeltaRevenue)
	}
	if len(report.Daily) != 31 {
		t.Fatalf("expected 31 daily points, got %d", len(report.Daily))
	}
}

func TestAdminHandlersStatisticsDefaultsFromFixtures(t *testing.T) {
	router := newTestAdminRouter(AdminDeps{
		Source:          orders.NewStaticSource(adminNow),
		FixturesEnabled: true,
		DefaultRange:    statistics.RangeLast30Days,
	})

	rr := postJSON(router, "/statistics", `{}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var report statistics.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.Key != statistics.RangeLast30Days {
		t.Fatalf("expected default range, got %s", report.Key)
	}
	if report.KPIs.TotalOrders == 0 {
		t.Fatalf("expected fixture orders inside the window")
	}
}

func TestAdminHandlersStatisticsRejectsBadRange(t *testing.T) {
	router := newTestAdminRouter(AdminDeps{})

	cases := []string{
		`{"orders":[],"range":"last_week"}`,
		`{"orders":[],"range":"custom","start":"2026-01-01"}`,
	}
	for _, body := range cases {
		rr := postJSON(router, "/statistics", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", body, rr.Code)
		}
	}
}
