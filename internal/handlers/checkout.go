package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/lechem-bakery/storefront/internal/domain"
	"github.com/lechem-bakery/storefront/internal/pickup"
	"github.com/lechem-bakery/storefront/internal/platform/httpx"
	"github.com/lechem-bakery/storefront/internal/platform/observability"
	"github.com/lechem-bakery/storefront/internal/platform/requestctx"
)

const maxCheckoutRequestBody = 4 * 1024

// CheckoutHandlers exposes the pickup constraint engine to the storefront checkout page.
type CheckoutHandlers struct {
	validator *pickup.Validator
	metrics   *observability.Metrics
}

// NewCheckoutHandlers constructs checkout handlers around validator. metrics may be nil.
func NewCheckoutHandlers(validator *pickup.Validator, metrics *observability.Metrics) *CheckoutHandlers {
	return &CheckoutHandlers{
		validator: validator,
		metrics:   metrics,
	}
}

// Routes registers checkout endpoints under the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/checkout:validate", h.validateCheckout)
	r.Post("/checkout/pickup:validate", h.validatePickup)
	r.Get("/checkout/next-slot", h.nextSlot)
	r.Get("/checkout/saturday", h.saturday)
}

type pickupRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type nextSlotResponse struct {
	Slot          string  `json:"slot"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	LeadTimeHours float64 `json:"leadTimeHours"`
}

type saturdayResponse struct {
	Date     string `json:"date"`
	Saturday bool   `json:"saturday"`
}

func (h *CheckoutHandlers) validatePickup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.validator == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "pickup validator unavailable", http.StatusServiceUnavailable))
		return
	}

	var req pickupRequest
	if !decodeBody(ctx, w, r, maxCheckoutRequestBody, &req) {
		return
	}

	_, span := observability.StartSpan(ctx, "pickup.ValidatePickupDateTime",
		attribute.String("pickup.date", req.Date),
		attribute.String("pickup.time", req.Time),
	)
	result := h.validator.ValidatePickupDateTime(strings.TrimSpace(req.Date), strings.TrimSpace(req.Time))
	span.SetAttributes(attribute.Bool("pickup.valid", result.IsValid))
	span.End()

	h.record(r, "pickup", result)
	writeJSONResponse(w, http.StatusOK, result)
}

func (h *CheckoutHandlers) validateCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.validator == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "pickup validator unavailable", http.StatusServiceUnavailable))
		return
	}

	var form pickup.Form
	if !decodeBody(ctx, w, r, maxCheckoutRequestBody, &form) {
		return
	}
	form.Date = strings.TrimSpace(form.Date)
	form.Time = strings.TrimSpace(form.Time)

	_, span := observability.StartSpan(ctx, "pickup.ValidateCheckoutForm")
	result := h.validator.ValidateCheckoutForm(form)
	span.SetAttributes(attribute.Bool("pickup.valid", result.IsValid))
	span.End()

	h.record(r, "checkout", result)
	writeJSONResponse(w, http.StatusOK, result)
}

func (h *CheckoutHandlers) nextSlot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.validator == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "pickup validator unavailable", http.StatusServiceUnavailable))
		return
	}

	_, span := observability.StartSpan(ctx, "pickup.NextBusinessDateTime")
	slot := h.validator.NextSlot()
	span.End()

	writeJSONResponse(w, http.StatusOK, nextSlotResponse{
		Slot:          slot.Format(time.RFC3339),
		Date:          slot.Format(domain.DateLayout),
		Time:          slot.Format("15:04"),
		LeadTimeHours: h.validator.Finder().LeadTime().Hours(),
	})
}

func (h *CheckoutHandlers) saturday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.validator == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "pickup validator unavailable", http.StatusServiceUnavailable))
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "date query parameter is required", http.StatusBadRequest))
		return
	}

	writeJSONResponse(w, http.StatusOK, saturdayResponse{
		Date:     date,
		Saturday: h.validator.IsSaturday(date),
	})
}

func (h *CheckoutHandlers) record(r *http.Request, kind string, result pickup.Result) {
	outcome := string(result.Reason)
	if result.IsValid {
		outcome = "valid"
	}
	h.metrics.RecordPickupValidation(r.Context(), kind, outcome)
	requestctx.Logger(r.Context()).Debug("pickup validation",
		zap.String("kind", kind),
		zap.String("outcome", outcome),
	)
}
