package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/lechem-bakery/storefront/internal/domain"
	"github.com/lechem-bakery/storefront/internal/orders"
	"github.com/lechem-bakery/storefront/internal/platform/httpx"
	"github.com/lechem-bakery/storefront/internal/platform/observability"
	"github.com/lechem-bakery/storefront/internal/platform/requestctx"
	"github.com/lechem-bakery/storefront/internal/statistics"
)

const (
	maxAdminRequestBody  = 2 * 1024 * 1024
	maxFilterRequestBody = 8 * 1024
)

var errOrdersRequired = errors.New("orders are required when fixtures are disabled")

// AdminDeps wires the admin order tools.
type AdminDeps struct {
	Engine          *orders.Engine
	Source          orders.Source
	FixturesEnabled bool
	Location        *time.Location
	DefaultRange    statistics.RangeKey
	Report          statistics.ReportOptions
	Metrics         *observability.Metrics
	Now             func() time.Time
}

// AdminHandlers exposes the order query and statistics engines to the admin screens.
type AdminHandlers struct {
	engine       *orders.Engine
	source       orders.Source
	fixtures     bool
	loc          *time.Location
	defaultRange statistics.RangeKey
	report       statistics.ReportOptions
	metrics      *observability.Metrics
	now          func() time.Time
}

// NewAdminHandlers constructs admin handlers, defaulting the engine, zone, clock and range.
func NewAdminHandlers(deps AdminDeps) *AdminHandlers {
	engine := deps.Engine
	if engine == nil {
		engine = orders.NewEngine(orders.EngineDeps{Location: deps.Location})
	}
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	defaultRange := deps.DefaultRange
	if defaultRange == "" {
		defaultRange = statistics.RangeThisMonth
	}
	return &AdminHandlers{
		engine:       engine,
		source:       deps.Source,
		fixtures:     deps.FixturesEnabled,
		loc:          loc,
		defaultRange: defaultRange,
		report:       deps.Report,
		metrics:      deps.Metrics,
		now:          now,
	}
}

// Routes registers admin endpoints under the provided router.
func (h *AdminHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/order-fields", h.listFields)
	r.Post("/filters:validate", h.validateFilter)
	r.Post("/orders:filter", h.filterOrders)
	r.Post("/statistics", h.buildStatistics)
}

type fieldsResponse struct {
	Fields []orders.FieldDefinition `json:"fields"`
}

type filterValidationResponse struct {
	orders.Validation
	Display string `json:"display"`
}

type filterOrdersRequest struct {
	Orders  []domain.Order  `json:"orders"`
	Filters []orders.Filter `json:"filters"`
}

type appliedFilter struct {
	orders.Filter
	Display string `json:"display"`
}

type filterOrdersResponse struct {
	Orders  []domain.Order  `json:"orders"`
	Total   int             `json:"total"`
	Matched int             `json:"matched"`
	Filters []appliedFilter `json:"filters"`
}

type statisticsRequest struct {
	Orders []domain.Order `json:"orders"`
	Range  string         `json:"range"`
	Start  string         `json:"start"`
	End    string         `json:"end"`
}

func (h *AdminHandlers) listFields(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, fieldsResponse{Fields: h.engine.Registry().Fields()})
}

func (h *AdminHandlers) validateFilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var f orders.Filter
	if !decodeBody(ctx, w, r, maxFilterRequestBody, &f) {
		return
	}
	f.Field = strings.TrimSpace(f.Field)

	writeJSONResponse(w, http.StatusOK, filterValidationResponse{
		Validation: h.engine.ValidateFilter(f),
		Display:    h.engine.FormatFilterForDisplay(f),
	})
}

func (h *AdminHandlers) filterOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req filterOrdersRequest
	if !decodeBody(ctx, w, r, maxAdminRequestBody, &req) {
		return
	}

	applied := make([]appliedFilter, 0, len(req.Filters))
	for i, f := range req.Filters {
		f.Field = strings.TrimSpace(f.Field)
		req.Filters[i] = f
		if v := h.engine.ValidateFilter(f); !v.Valid {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_filter", v.Error, http.StatusUnprocessableEntity).
				WithDetails(map[string]any{"index": i, "field": f.Field}))
			return
		}
		applied = append(applied, appliedFilter{Filter: f, Display: h.engine.FormatFilterForDisplay(f)})
	}

	all, ok := h.resolveOrders(ctx, w, req.Orders)
	if !ok {
		return
	}

	_, span := observability.StartSpan(ctx, "orders.ApplyFilters",
		attribute.Int("orders.total", len(all)),
		attribute.Int("orders.filters", len(req.Filters)),
	)
	matched := h.engine.ApplyFilters(all, req.Filters)
	span.SetAttributes(attribute.Int("orders.matched", len(matched)))
	span.End()

	h.metrics.RecordFilterRun(ctx, len(req.Filters), len(matched))
	if matched == nil {
		matched = []domain.Order{}
	}
	writeJSONResponse(w, http.StatusOK, filterOrdersResponse{
		Orders:  matched,
		Total:   len(all),
		Matched: len(matched),
		Filters: applied,
	})
}

func (h *AdminHandlers) buildStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req statisticsRequest
	if !decodeBody(ctx, w, r, maxAdminRequestBody, &req) {
		return
	}

	key := h.defaultRange
	if raw := strings.TrimSpace(req.Range); raw != "" {
		parsed, ok := statistics.ParseRangeKey(raw)
		if !ok {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_range", fmt.Sprintf("unknown range %q", raw), http.StatusBadRequest))
			return
		}
		key = parsed
	}

	var start, end time.Time
	if key == statistics.RangeCustom {
		var okStart, okEnd bool
		start, okStart = domain.ParseTime(req.Start, h.loc)
		end, okEnd = domain.ParseTime(req.End, h.loc)
		if !okStart || !okEnd {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_range", "custom range requires valid start and end dates", http.StatusBadRequest))
			return
		}
	}

	all, ok := h.resolveOrders(ctx, w, req.Orders)
	if !ok {
		return
	}

	now := h.now().In(h.loc)
	_, span := observability.StartSpan(ctx, "statistics.BuildReport",
		attribute.String("statistics.range", string(key)),
		attribute.Int("orders.total", len(all)),
	)
	current, previous := statistics.Windows(key, now, start, end)
	report := statistics.BuildReport(all, key, current, previous, now, h.report)
	span.End()

	h.metrics.RecordReport(ctx, string(key))
	writeJSONResponse(w, http.StatusOK, report)
}

// resolveOrders falls back to the fixture source when the request carries no orders.
func (h *AdminHandlers) resolveOrders(ctx context.Context, w http.ResponseWriter, supplied []domain.Order) ([]domain.Order, bool) {
	if supplied != nil {
		return supplied, true
	}
	if !h.fixtures || h.source == nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", errOrdersRequired.Error(), http.StatusBadRequest))
		return nil, false
	}
	list, err := h.source.List(ctx)
	if err != nil {
		requestctx.Logger(ctx).Error("list fixture orders", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("orders_unavailable", "failed to load orders", http.StatusInternalServerError))
		return nil, false
	}
	return list, true
}
