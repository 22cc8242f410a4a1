package postal

import (
	"context"
	"time"
)

// DeliveryStatus is the outcome of handing an email to the transport.
type DeliveryStatus string

const (
	StatusSent   DeliveryStatus = "sent"
	StatusFailed DeliveryStatus = "failed"
)

// Delivery is a persisted record of one dispatch attempt.
type Delivery struct {
	ID           string         `json:"id"`
	Kind         Kind           `json:"kind"`
	Recipient    string         `json:"recipient"`
	Locale       string         `json:"locale,omitempty"`
	BadgeSlug    string         `json:"badge_slug,omitempty"`
	Provider     string         `json:"provider"`
	MessageID    string         `json:"message_id,omitempty"`
	Status       DeliveryStatus `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ListFilter defines pagination and filtering options for listing deliveries.
type ListFilter struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Status    string `form:"status"`
	Recipient string `form:"recipient"`
	Kind      string `form:"kind"`
}

// Normalize applies the default page and page size.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
}

// ListResponse wraps a paginated list of deliveries.
type ListResponse struct {
	Deliveries []*Delivery `json:"deliveries"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

// DeliveryLog persists dispatch attempts.
// Implementations live in infra/store/ (e.g., Supabase).
type DeliveryLog interface {
	// Record inserts a delivery and sets its ID and CreatedAt.
	Record(ctx context.Context, d *Delivery) error

	// GetByID retrieves a delivery. Returns nil, nil if no record is found.
	GetByID(ctx context.Context, id string) (*Delivery, error)

	// List retrieves deliveries with pagination and filtering.
	List(ctx context.Context, filter ListFilter) ([]*Delivery, int, error)
}
