package postal_test

import (
	"encoding/json"
	"testing"

	"postalservice/internal/domain/postal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadge_UnmarshalKeepsUnknownFields(t *testing.T) {
	t.Parallel()

	var b postal.Badge
	require.NoError(t, json.Unmarshal([]byte(`{
		"slug": "event-host",
		"name": "Event Host",
		"strapline": "Host with the most",
		"criteriaUrl": "https://badges.example/criteria",
		"issuer": "Mozilla Foundation",
		"tags": ["events", "community"]
	}`), &b))

	assert.Equal(t, "event-host", b.Slug)
	assert.Equal(t, "Host with the most", b.Strapline)
	assert.Equal(t, "https://badges.example/criteria", b.CriteriaURL)
	assert.Equal(t, map[string]any{
		"issuer": "Mozilla Foundation",
		"tags":   []any{"events", "community"},
	}, b.Extra)
}

func TestBadge_UnmarshalWithoutExtras(t *testing.T) {
	t.Parallel()

	var b postal.Badge
	require.NoError(t, json.Unmarshal([]byte(`{"slug":"skill-sharer","name":"Skill Sharer"}`), &b))

	assert.Equal(t, postal.Badge{Slug: "skill-sharer", Name: "Skill Sharer"}, b)
	assert.Nil(t, b.Extra)
}

func TestBadge_MarshalFlattensExtra(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(postal.Badge{
		Slug:  "event-host",
		Extra: map[string]any{"issuer": "Mozilla Foundation", "slug": "ignored"},
	})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "event-host", out["slug"])
	assert.Equal(t, "Mozilla Foundation", out["issuer"])
}
