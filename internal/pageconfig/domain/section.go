// Package domain models the configurable sections of the public B2B page.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Section is one block of the public B2B landing page. Content and SEOConfig
// are opaque JSON documents owned by the frontend.
type Section struct {
	ID           uuid.UUID
	SectionName  string
	IsActive     bool
	Title        *string
	Subtitle     *string
	Content      json.RawMessage
	CTAText      *string
	CTALink      *string
	DisplayOrder int
	SEOConfig    json.RawMessage
	UpdatedAt    time.Time
}
