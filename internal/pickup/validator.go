package pickup

import (
	"fmt"
	"strings"
	"time"
)

// Reason is a machine readable failure code carried next to the Hebrew message.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonInvalidInput     Reason = "invalid_input"
	ReasonClosedDay        Reason = "closed_day"
	ReasonOutsideHours     Reason = "outside_hours"
	ReasonTooSoon          Reason = "too_soon"
	ReasonNameRequired     Reason = "name_required"
	ReasonPhoneRequired    Reason = "phone_required"
	ReasonDateTimeRequired Reason = "pickup_required"
)

const (
	msgInvalidInput     = "תאריך או שעת האיסוף אינם תקינים"
	msgSaturdayClosed   = "המאפייה סגורה בשבת, נא לבחור יום אחר לאיסוף"
	msgDayClosed        = "המאפייה סגורה ביום זה, נא לבחור יום אחר לאיסוף"
	msgNameRequired     = "נא להזין שם מלא"
	msgPhoneRequired    = "נא להזין מספר טלפון"
	msgDateTimeRequired = "נא לבחור תאריך ושעת איסוף"
)

const (
	defaultTolerance = 5 * time.Second
	displayLayout    = "02/01/2006 15:04"
)

// Result is the outcome of a pickup or checkout validation.
type Result struct {
	IsValid      bool   `json:"isValid"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	Reason       Reason `json:"reason,omitempty"`
}

func valid() Result {
	return Result{IsValid: true}
}

func invalid(reason Reason, message string) Result {
	return Result{IsValid: false, ErrorMessage: message, Reason: reason}
}

// Form holds the checkout fields that gate submission.
type Form struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// ValidatorDeps configures a Validator.
type ValidatorDeps struct {
	Finder    *SlotFinder
	Now       func() time.Time
	// Tolerance is the slack allowed below the minimum instant; nil uses 5s.
	Tolerance *time.Duration
}

// Validator checks pickup candidates against the calendar and the minimum lead time.
type Validator struct {
	finder    *SlotFinder
	calendar  Calendar
	now       func() time.Time
	tolerance time.Duration
}

// NewValidator wires a validator; a nil finder uses the default calendar and lead time.
func NewValidator(deps ValidatorDeps) *Validator {
	finder := deps.Finder
	if finder == nil {
		finder = NewSlotFinder(SlotFinderDeps{})
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	tolerance := defaultTolerance
	if deps.Tolerance != nil && *deps.Tolerance >= 0 {
		tolerance = *deps.Tolerance
	}
	return &Validator{
		finder:    finder,
		calendar:  finder.Calendar(),
		now:       now,
		tolerance: tolerance,
	}
}

// Finder returns the slot finder used to compute the earliest pickup.
func (v *Validator) Finder() *SlotFinder {
	return v.finder
}

// NextSlot returns the earliest pickup instant relative to the validator clock.
func (v *Validator) NextSlot() time.Time {
	return v.finder.NextBusinessDateTime(v.now())
}

// ValidatePickupDateTime checks a date and time pair chosen at checkout.
func (v *Validator) ValidatePickupDateTime(date, clock string) Result {
	candidate, ok := v.finder.PickupDateTime(date, clock)
	if !ok {
		return invalid(ReasonInvalidInput, msgInvalidInput)
	}

	minimum := v.finder.NextBusinessDateTime(v.now())

	weekday := candidate.Weekday()
	if weekday == time.Saturday {
		return invalid(ReasonClosedDay, msgSaturdayClosed)
	}
	hours, open := v.calendar.HoursFor(weekday)
	if !open {
		return invalid(ReasonClosedDay, msgDayClosed)
	}
	if hour := candidate.Hour(); hour < hours.Open || hour >= hours.Close {
		return invalid(ReasonOutsideHours, hoursMessage(hours))
	}

	if candidate.Add(v.tolerance).Before(minimum) {
		return invalid(ReasonTooSoon, leadTimeMessage(v.finder.LeadTime(), minimum))
	}
	return valid()
}

// ValidateCheckoutForm validates the required fields in order and then the pickup slot.
func (v *Validator) ValidateCheckoutForm(form Form) Result {
	if strings.TrimSpace(form.Name) == "" {
		return invalid(ReasonNameRequired, msgNameRequired)
	}
	if strings.TrimSpace(form.Phone) == "" {
		return invalid(ReasonPhoneRequired, msgPhoneRequired)
	}
	if strings.TrimSpace(form.Date) == "" || strings.TrimSpace(form.Time) == "" {
		return invalid(ReasonDateTimeRequired, msgDateTimeRequired)
	}
	return v.ValidatePickupDateTime(form.Date, form.Time)
}

// PickupValidityMessage returns "" for a valid slot, otherwise the failure message.
func (v *Validator) PickupValidityMessage(date, clock string) string {
	res := v.ValidatePickupDateTime(date, clock)
	if res.IsValid {
		return ""
	}
	return res.ErrorMessage
}

// IsSaturday reports whether date names a Saturday in the calendar's location.
func (v *Validator) IsSaturday(date string) bool {
	return IsSaturday(date, v.calendar.Location())
}

// IsSaturday reports whether a YYYY-MM-DD date is a Saturday. Empty or malformed input is false.
func IsSaturday(date string, loc *time.Location) bool {
	day, ok := PickupDateTime(date, "00:00", loc)
	if !ok {
		return false
	}
	return day.Weekday() == time.Saturday
}

func hoursMessage(h Hours) string {
	return fmt.Sprintf("ניתן לאסוף הזמנות בין השעות %02d:00 ל-%02d:00", h.Open, h.Close)
}

func leadTimeMessage(lead time.Duration, earliest time.Time) string {
	hours := int(lead.Round(time.Hour) / time.Hour)
	return fmt.Sprintf("יש להזמין לפחות %d שעות מראש. מועד האיסוף המוקדם ביותר: %s", hours, earliest.Format(displayLayout))
}
