package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"postalservice/internal/config"
	"postalservice/internal/domain/postal"
	"postalservice/internal/infra/prepare"
	"postalservice/internal/infra/template"
	"postalservice/internal/locale"
	"postalservice/internal/middleware"
	"postalservice/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTransport struct{}

func (stubTransport) Name() string { return "stub" }

func (stubTransport) SendEmail(context.Context, *postal.SendEmailInput) (*postal.SendEmailOutput, error) {
	return &postal.SendEmailOutput{MessageID: "stub-1", Provider: "stub"}, nil
}

func newTestRouter(t *testing.T, apiKeys []string) http.Handler {
	t.Helper()

	catalog, err := locale.NewCatalog(context.Background(), locale.Config{})
	require.NoError(t, err)

	d, err := postal.NewDispatcher(postal.Options{Key: "k", Secret: "s"}, postal.Dependencies{
		Templates: template.NewEmbeddedEngine(),
		Locales:   catalog,
		Preparer:  prepare.New(),
		Transport: stubTransport{},
	})
	require.NoError(t, err)

	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: "test"},
		Auth:      config.AuthConfig{APIKeys: apiKeys},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}

	handler := postal.NewHandler(postal.NewService(d, nil, nil))
	return router.New(cfg, middleware.NewRateLimiter(100, 100), handler, router.Info{
		Provider: "stub",
		Locales:  catalog.Locales(),
	})
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "postalservice", body.Data["service"])
	assert.Equal(t, "stub", body.Data["provider"])
	assert.Equal(t, []any{"en-US", "es", "fr"}, body.Data["locales"])
}

func TestAPIKeyRequired(t *testing.T) {
	r := newTestRouter(t, []string{"letmein"})
	body := `{"to":"a@example.com","fullName":"Ada","locale":"fr"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/emails/welcome", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/emails/welcome", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "letmein")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
