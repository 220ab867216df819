package domain

import (
	"testing"
	"time"
)

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name        string
		items       []LineItem
		discountPct float64
		taxPct      float64
		want        Totals
	}{
		{
			name:  "single item no discount no tax",
			items: []LineItem{{Quantity: 1, UnitPrice: 100000}},
			want:  Totals{Subtotal: 100000, TotalAmount: 100000},
		},
		{
			name:        "discount then tax on discounted base",
			items:       []LineItem{{Quantity: 2, UnitPrice: 50000}},
			discountPct: 10,
			taxPct:      18,
			// subtotal 100000, discount 10000, tax 18% of 90000 = 16200
			want: Totals{Subtotal: 100000, DiscountAmount: 10000, TaxAmount: 16200, TotalAmount: 106200},
		},
		{
			name:        "fractional percentage rounds half away from zero",
			items:       []LineItem{{Quantity: 1, UnitPrice: 1001}},
			discountPct: 2.5,
			// 1001 * 0.025 = 25.025 -> 25
			want: Totals{Subtotal: 1001, DiscountAmount: 25, TotalAmount: 976},
		},
		{
			name: "multiple items sum before percentages",
			items: []LineItem{
				{Quantity: 3, UnitPrice: 10000},
				{Quantity: 1, UnitPrice: 5000},
			},
			taxPct: 18,
			want:   Totals{Subtotal: 35000, TaxAmount: 6300, TotalAmount: 41300},
		},
		{
			name: "empty items",
			want: Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, got := CalculateTotals(tt.items, tt.discountPct, tt.taxPct)
			if got != tt.want {
				t.Errorf("totals = %+v, want %+v", got, tt.want)
			}
			var sum int64
			for _, item := range items {
				if item.LineTotal != int64(item.Quantity)*item.UnitPrice {
					t.Errorf("line total %d != quantity*unit price", item.LineTotal)
				}
				sum += item.LineTotal
			}
			if sum != got.Subtotal {
				t.Errorf("line totals sum %d != subtotal %d", sum, got.Subtotal)
			}
		})
	}
}

func TestCalculateTotalsIgnoresCallerLineTotals(t *testing.T) {
	items := []LineItem{{Quantity: 2, UnitPrice: 1000, LineTotal: 999999}}
	computed, totals := CalculateTotals(items, 0, 0)
	if computed[0].LineTotal != 2000 || totals.TotalAmount != 2000 {
		t.Errorf("caller-supplied line total leaked into the result: %+v", totals)
	}
}

func TestQuoteStatusTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusDraft, StatusSent, true},
		{StatusSent, StatusViewed, true},
		{StatusSent, StatusAccepted, true},
		{StatusViewed, StatusRejected, true},
		{StatusViewed, StatusRevised, true},
		{StatusRevised, StatusSent, true},
		{StatusDraft, StatusAccepted, false},
		{StatusAccepted, StatusRejected, false},
		{StatusExpired, StatusSent, false},
		{StatusSent, StatusSent, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEffectiveStatusExpiry(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	q := Quote{Status: StatusSent, ValidityDays: 30, CreatedAt: created}

	if got := q.EffectiveStatus(created.AddDate(0, 0, 10)); got != StatusSent {
		t.Errorf("inside window: %s, want sent", got)
	}
	if got := q.EffectiveStatus(created.AddDate(0, 0, 31)); got != StatusExpired {
		t.Errorf("past window: %s, want expired", got)
	}

	q.Status = StatusAccepted
	if got := q.EffectiveStatus(created.AddDate(0, 0, 31)); got != StatusAccepted {
		t.Errorf("accepted never expires: %s", got)
	}
}
