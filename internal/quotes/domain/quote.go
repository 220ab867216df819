// Package domain holds the quote model, its status rules and the totals
// calculator.
package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Status is a quote's lifecycle status.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusViewed   Status = "viewed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
	StatusRevised  Status = "revised"
)

// DefaultCurrency is the only currency in use. GNF has no minor unit, so
// amounts are whole francs.
const DefaultCurrency = "GNF"

// DefaultValidityDays applies when a quote is created without an explicit
// validity window.
const DefaultValidityDays = 30

var knownStatuses = map[Status]struct{}{
	StatusDraft:    {},
	StatusSent:     {},
	StatusViewed:   {},
	StatusAccepted: {},
	StatusRejected: {},
	StatusExpired:  {},
	StatusRevised:  {},
}

func IsKnownStatus(s Status) bool {
	_, ok := knownStatuses[s]
	return ok
}

// statusTransitions whitelists quote status changes. accepted, rejected and
// expired are terminal; a revised quote goes back out as sent.
var statusTransitions = map[Status]map[Status]bool{
	StatusDraft:    {StatusSent: true},
	StatusSent:     {StatusViewed: true, StatusAccepted: true, StatusRejected: true, StatusExpired: true, StatusRevised: true},
	StatusViewed:   {StatusAccepted: true, StatusRejected: true, StatusExpired: true, StatusRevised: true},
	StatusRevised:  {StatusSent: true},
	StatusAccepted: {},
	StatusRejected: {},
	StatusExpired:  {},
}

func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	return statusTransitions[from][to]
}

// LineItem is one row of a quote. LineTotal is always computed server-side.
type LineItem struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Quantity    int
	UnitPrice   int64
	LineTotal   int64
	Position    int
}

// Quote is a commercial proposal tied to a pipeline entry. Monetary amounts
// are integer francs; percentages may carry decimals.
type Quote struct {
	ID                 uuid.UUID
	PipelineID         *uuid.UUID
	LeadID             *uuid.UUID
	QuoteNumber        string
	Title              string
	Description        *string
	Items              []LineItem
	Subtotal           int64
	DiscountPct        float64
	DiscountAmount     int64
	TaxPct             float64
	TaxAmount          int64
	TotalAmount        int64
	Currency           string
	ValidityDays       int
	PaymentTerms       *string
	DeliveryTimeline   *string
	TermsAndConditions *string
	Status             Status
	CreatedBy          *uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Totals is the computed money breakdown of a quote.
type Totals struct {
	Subtotal       int64
	DiscountAmount int64
	TaxAmount      int64
	TotalAmount    int64
}

// CalculateTotals computes line totals and the quote breakdown. Discount
// applies to the subtotal; tax applies to the discounted base. Rounding is
// half away from zero, once per derived amount, so the total is always
// exactly subtotal - discount + tax.
func CalculateTotals(items []LineItem, discountPct, taxPct float64) ([]LineItem, Totals) {
	out := make([]LineItem, len(items))
	var subtotal int64
	for i, item := range items {
		item.LineTotal = int64(item.Quantity) * item.UnitPrice
		subtotal += item.LineTotal
		out[i] = item
	}
	discount := roundPct(subtotal, discountPct)
	tax := roundPct(subtotal-discount, taxPct)
	return out, Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		TotalAmount:    subtotal - discount + tax,
	}
}

func roundPct(base int64, pct float64) int64 {
	if pct == 0 {
		return 0
	}
	return int64(math.Round(float64(base) * pct / 100))
}

// ValidUntil returns the end of the quote's validity window.
func (q Quote) ValidUntil() time.Time {
	return q.CreatedAt.AddDate(0, 0, q.ValidityDays)
}

// EffectiveStatus reports the status with expiry applied: a quote still
// marked sent or viewed past its validity window reads as expired.
func (q Quote) EffectiveStatus(now time.Time) Status {
	if (q.Status == StatusSent || q.Status == StatusViewed) && now.After(q.ValidUntil()) {
		return StatusExpired
	}
	return q.Status
}
