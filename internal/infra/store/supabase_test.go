package store

import (
	"encoding/json"
	"testing"
	"time"

	"postalservice/internal/domain/postal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryRowRoundTrip(t *testing.T) {
	t.Parallel()

	d := &postal.Delivery{
		Kind:      postal.KindBadgeAwarded,
		Recipient: "ada@example.org",
		Locale:    "fr",
		BadgeSlug: "event-host",
		Provider:  "ses",
		MessageID: "0100-abc",
		Status:    postal.StatusSent,
	}

	row := deliveryToRow(d)
	raw, err := json.Marshal(row)
	require.NoError(t, err)

	var cols map[string]any
	require.NoError(t, json.Unmarshal(raw, &cols))
	assert.NotContains(t, cols, "id", "id is generated by the database")
	assert.NotContains(t, cols, "error_message")
	assert.Equal(t, "badge_awarded", cols["kind"])
	assert.Equal(t, "event-host", cols["badge_slug"])

	row.ID = "8d3c"
	row.CreatedAt = "2024-03-01T12:30:00.123456+00:00"
	got := rowToDelivery(&row)

	assert.Equal(t, "8d3c", got.ID)
	assert.Equal(t, d.Kind, got.Kind)
	assert.Equal(t, d.Locale, got.Locale)
	assert.Equal(t, d.BadgeSlug, got.BadgeSlug)
	assert.Equal(t, d.MessageID, got.MessageID)
	assert.Equal(t, d.Status, got.Status)
	assert.Empty(t, got.ErrorMessage)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 123456000, time.UTC), got.CreatedAt.UTC())
}

func TestFailedDeliveryRow(t *testing.T) {
	t.Parallel()

	row := deliveryToRow(&postal.Delivery{
		Kind:         postal.KindWelcome,
		Recipient:    "ada@example.org",
		Provider:     "resend",
		Status:       postal.StatusFailed,
		ErrorMessage: "invalid from field",
	})

	assert.Nil(t, row.MessageID)
	require.NotNil(t, row.ErrorMessage)
	assert.Equal(t, "invalid from field", *row.ErrorMessage)
	assert.Equal(t, "failed", row.Status)
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	assert.True(t, want.Equal(parseTime("2024-03-01T12:30:00Z")))
	assert.True(t, want.Equal(parseTime("2024-03-01 12:30:00+00")))
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("yesterday").IsZero())
}
