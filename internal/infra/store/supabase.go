package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"postalservice/internal/domain/postal"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const tableName = "email_deliveries"

var _ postal.DeliveryLog = (*SupabaseDeliveryLog)(nil)

// SupabaseDeliveryLog implements postal.DeliveryLog on a Supabase table.
type SupabaseDeliveryLog struct {
	client *supa.Client
}

// NewSupabaseDeliveryLog creates a new Supabase-backed delivery log.
func NewSupabaseDeliveryLog(supabaseURL, serviceKey string) (*SupabaseDeliveryLog, error) {
	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &SupabaseDeliveryLog{client: client}, nil
}

// deliveryRow mirrors the email_deliveries columns.
type deliveryRow struct {
	ID           string  `json:"id,omitempty"`
	Kind         string  `json:"kind"`
	Recipient    string  `json:"recipient"`
	Locale       *string `json:"locale,omitempty"`
	BadgeSlug    *string `json:"badge_slug,omitempty"`
	Provider     string  `json:"provider"`
	MessageID    *string `json:"message_id,omitempty"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// Record inserts a delivery and copies the generated ID and timestamp back.
func (s *SupabaseDeliveryLog) Record(ctx context.Context, d *postal.Delivery) error {
	row := deliveryToRow(d)

	data, _, err := s.client.From(tableName).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting delivery: %w", err)
	}

	var results []deliveryRow
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		d.ID = results[0].ID
		d.CreatedAt = parseTime(results[0].CreatedAt)
	}

	return nil
}

// GetByID retrieves a delivery. Returns nil, nil if no record is found.
func (s *SupabaseDeliveryLog) GetByID(ctx context.Context, id string) (*postal.Delivery, error) {
	data, _, err := s.client.From(tableName).Select("*", "", false).Eq("id", id).Range(0, 0, "").Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching delivery: %w", err)
	}

	var rows []deliveryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing delivery: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	return rowToDelivery(&rows[0]), nil
}

// List retrieves deliveries newest first with pagination and filtering.
func (s *SupabaseDeliveryLog) List(ctx context.Context, filter postal.ListFilter) ([]*postal.Delivery, int, error) {
	filter.Normalize()
	offset := (filter.Page - 1) * filter.PageSize

	query := s.client.From(tableName).Select("*", "exact", false)

	if filter.Status != "" {
		query = query.Eq("status", filter.Status)
	}
	if filter.Recipient != "" {
		query = query.Eq("recipient", filter.Recipient)
	}
	if filter.Kind != "" {
		query = query.Eq("kind", filter.Kind)
	}

	query = query.Order("created_at", &postgrest.OrderOpts{Ascending: false})
	query = query.Range(offset, offset+filter.PageSize-1, "")

	data, count, err := query.Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("listing deliveries: %w", err)
	}

	var rows []deliveryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, 0, fmt.Errorf("parsing delivery list: %w", err)
	}

	deliveries := make([]*postal.Delivery, len(rows))
	for i := range rows {
		deliveries[i] = rowToDelivery(&rows[i])
	}

	return deliveries, int(count), nil
}

func deliveryToRow(d *postal.Delivery) deliveryRow {
	return deliveryRow{
		Kind:         string(d.Kind),
		Recipient:    d.Recipient,
		Locale:       optional(d.Locale),
		BadgeSlug:    optional(d.BadgeSlug),
		Provider:     d.Provider,
		MessageID:    optional(d.MessageID),
		Status:       string(d.Status),
		ErrorMessage: optional(d.ErrorMessage),
	}
}

func rowToDelivery(row *deliveryRow) *postal.Delivery {
	return &postal.Delivery{
		ID:           row.ID,
		Kind:         postal.Kind(row.Kind),
		Recipient:    row.Recipient,
		Locale:       deref(row.Locale),
		BadgeSlug:    deref(row.BadgeSlug),
		Provider:     row.Provider,
		MessageID:    deref(row.MessageID),
		Status:       postal.DeliveryStatus(row.Status),
		ErrorMessage: deref(row.ErrorMessage),
		CreatedAt:    parseTime(row.CreatedAt),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseTime accepts both RFC 3339 and the timestamptz format PostgREST emits
// without a "T" separator. Unparseable values yield the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999-07"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
