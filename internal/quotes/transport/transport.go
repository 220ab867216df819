// Package transport defines the HTTP DTOs for the quotes module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"jobguinee_backend/internal/quotes/domain"
	"jobguinee_backend/internal/quotes/service"
)

type ItemRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
	UnitPrice   int64   `json:"unit_price" validate:"min=0"`
}

// CreateQuoteRequest carries no total fields on purpose; every amount is
// recomputed server-side from the items and percentages.
type CreateQuoteRequest struct {
	PipelineID         *uuid.UUID    `json:"pipeline_id"`
	LeadID             *uuid.UUID    `json:"lead_id"`
	Title              string        `json:"title" validate:"required,min=2,max=200"`
	Description        *string       `json:"description" validate:"omitempty,max=5000"`
	Items              []ItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
	DiscountPct        float64       `json:"discount_percentage" validate:"min=0,max=100"`
	TaxPct             float64       `json:"tax_percentage" validate:"min=0,max=100"`
	ValidityDays       int           `json:"validity_days" validate:"omitempty,min=1,max=365"`
	PaymentTerms       *string       `json:"payment_terms" validate:"omitempty,max=2000"`
	DeliveryTimeline   *string       `json:"delivery_timeline" validate:"omitempty,max=2000"`
	TermsAndConditions *string       `json:"terms_and_conditions" validate:"omitempty,max=10000"`
	Status             string        `json:"status" validate:"omitempty,oneof=draft sent"`
}

type CalculateRequest struct {
	Items       []ItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
	DiscountPct float64       `json:"discount_percentage" validate:"min=0,max=100"`
	TaxPct      float64       `json:"tax_percentage" validate:"min=0,max=100"`
}

type ListQuotesRequest struct {
	PipelineID string `form:"pipeline_id"`
	Status     string `form:"status"`
	Limit      int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int    `form:"offset" validate:"omitempty,min=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
	LineTotal   int64     `json:"line_total"`
}

type QuoteResponse struct {
	ID                 uuid.UUID      `json:"id"`
	PipelineID         *uuid.UUID     `json:"pipeline_id"`
	LeadID             *uuid.UUID     `json:"lead_id"`
	QuoteNumber        string         `json:"quote_number"`
	Title              string         `json:"title"`
	Description        *string        `json:"description"`
	Items              []ItemResponse `json:"items,omitempty"`
	Subtotal           int64          `json:"subtotal"`
	DiscountPct        float64        `json:"discount_percentage"`
	DiscountAmount     int64          `json:"discount_amount"`
	TaxPct             float64        `json:"tax_percentage"`
	TaxAmount          int64          `json:"tax_amount"`
	TotalAmount        int64          `json:"total_amount"`
	Currency           string         `json:"currency"`
	ValidityDays       int            `json:"validity_days"`
	ValidUntil         time.Time      `json:"valid_until"`
	PaymentTerms       *string        `json:"payment_terms"`
	DeliveryTimeline   *string        `json:"delivery_timeline"`
	TermsAndConditions *string        `json:"terms_and_conditions"`
	Status             string         `json:"status"`
	CreatedBy          *uuid.UUID     `json:"created_by"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

type ListQuotesResponse struct {
	Items []QuoteResponse `json:"items"`
	Total int             `json:"total"`
}

type TotalsResponse struct {
	Subtotal       int64  `json:"subtotal"`
	DiscountAmount int64  `json:"discount_amount"`
	TaxAmount      int64  `json:"tax_amount"`
	TotalAmount    int64  `json:"total_amount"`
	Currency       string `json:"currency"`
}

type PDFURLResponse struct {
	URL string `json:"url"`
}

func (r CreateQuoteRequest) ToParams(createdBy *uuid.UUID) service.CreateParams {
	return service.CreateParams{
		PipelineID:         r.PipelineID,
		LeadID:             r.LeadID,
		Title:              r.Title,
		Description:        r.Description,
		Items:              toItemParams(r.Items),
		DiscountPct:        r.DiscountPct,
		TaxPct:             r.TaxPct,
		ValidityDays:       r.ValidityDays,
		PaymentTerms:       r.PaymentTerms,
		DeliveryTimeline:   r.DeliveryTimeline,
		TermsAndConditions: r.TermsAndConditions,
		Status:             domain.Status(r.Status),
		CreatedBy:          createdBy,
	}
}

func (r CalculateRequest) ToParams() service.CreateParams {
	return service.CreateParams{
		Items:       toItemParams(r.Items),
		DiscountPct: r.DiscountPct,
		TaxPct:      r.TaxPct,
	}
}

func toItemParams(items []ItemRequest) []service.ItemParams {
	out := make([]service.ItemParams, 0, len(items))
	for _, item := range items {
		out = append(out, service.ItemParams{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return out
}

// ToQuoteResponse renders a quote, reporting the expiry-adjusted status.
func ToQuoteResponse(q domain.Quote, now time.Time) QuoteResponse {
	items := make([]ItemResponse, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, ItemResponse{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}
	return QuoteResponse{
		ID:                 q.ID,
		PipelineID:         q.PipelineID,
		LeadID:             q.LeadID,
		QuoteNumber:        q.QuoteNumber,
		Title:              q.Title,
		Description:        q.Description,
		Items:              items,
		Subtotal:           q.Subtotal,
		DiscountPct:        q.DiscountPct,
		DiscountAmount:     q.DiscountAmount,
		TaxPct:             q.TaxPct,
		TaxAmount:          q.TaxAmount,
		TotalAmount:        q.TotalAmount,
		Currency:           q.Currency,
		ValidityDays:       q.ValidityDays,
		ValidUntil:         q.ValidUntil(),
		PaymentTerms:       q.PaymentTerms,
		DeliveryTimeline:   q.DeliveryTimeline,
		TermsAndConditions: q.TermsAndConditions,
		Status:             string(q.EffectiveStatus(now)),
		CreatedBy:          q.CreatedBy,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}

func ToListQuotesResponse(quotes []domain.Quote, total int, now time.Time) ListQuotesResponse {
	items := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		items = append(items, ToQuoteResponse(q, now))
	}
	return ListQuotesResponse{Items: items, Total: total}
}

func ToTotalsResponse(t domain.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:       t.Subtotal,
		DiscountAmount: t.DiscountAmount,
		TaxAmount:      t.TaxAmount,
		TotalAmount:    t.TotalAmount,
		Currency:       domain.DefaultCurrency,
	}
}
