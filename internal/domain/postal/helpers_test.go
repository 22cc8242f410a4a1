package postal_test

import (
	"context"
	"sync"
	"testing"

	"postalservice/internal/domain/postal"
	"postalservice/internal/infra/prepare"
	"postalservice/internal/infra/template"
	"postalservice/internal/locale"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingTransport captures every send request.
type recordingTransport struct {
	mu    sync.Mutex
	sent  []*postal.SendEmailInput
	err   error
	msgID string
}

func (r *recordingTransport) Name() string { return "recording" }

func (r *recordingTransport) SendEmail(_ context.Context, in *postal.SendEmailInput) (*postal.SendEmailOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, in)
	if r.err != nil {
		return nil, r.err
	}
	id := r.msgID
	if id == "" {
		id = "msg-1"
	}
	return &postal.SendEmailOutput{MessageID: id, Provider: r.Name()}, nil
}

func (r *recordingTransport) calls() []*postal.SendEmailInput {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*postal.SendEmailInput(nil), r.sent...)
}

func (r *recordingTransport) last(t *testing.T) *postal.SendEmailInput {
	t.Helper()
	calls := r.calls()
	require.NotEmpty(t, calls, "transport was not called")
	return calls[len(calls)-1]
}

// MockPreparer is a mock implementation of postal.Preparer.
type MockPreparer struct {
	mock.Mock
}

func (m *MockPreparer) Prepare(ctx context.Context, html string) (postal.Prepared, error) {
	args := m.Called(ctx, html)
	return args.Get(0).(postal.Prepared), args.Error(1)
}

// countingLoader records how many templates were requested.
type countingLoader struct {
	inner postal.TemplateLoader
	mu    sync.Mutex
	loads []postal.TemplateName
}

func (c *countingLoader) Load(name postal.TemplateName) (postal.Template, error) {
	c.mu.Lock()
	c.loads = append(c.loads, name)
	c.mu.Unlock()
	return c.inner.Load(name)
}

func newCatalog(t *testing.T) *locale.Catalog {
	t.Helper()
	catalog, err := locale.NewCatalog(context.Background(), locale.Config{})
	require.NoError(t, err)
	return catalog
}

func validOptions() postal.Options {
	return postal.Options{Key: "test-key", Secret: "test-secret"}
}

// passthroughPreparer returns the rendered HTML untouched, keeping output byte-stable.
type passthroughPreparer struct{}

func (passthroughPreparer) Prepare(_ context.Context, html string) (postal.Prepared, error) {
	return postal.Prepared{HTML: html, Text: html}, nil
}

// newDispatcher wires the built-in templates and catalogs with the real preparer.
func newDispatcher(t *testing.T, transport postal.Transport) (*postal.Dispatcher, *locale.Catalog) {
	t.Helper()
	return newDispatcherWith(t, transport, prepare.New())
}

func newDispatcherWith(t *testing.T, transport postal.Transport, preparer postal.Preparer) (*postal.Dispatcher, *locale.Catalog) {
	t.Helper()
	catalog := newCatalog(t)
	d, err := postal.NewDispatcher(validOptions(), postal.Dependencies{
		Templates: template.NewEmbeddedEngine(),
		Locales:   catalog,
		Preparer:  preparer,
		Transport: transport,
	})
	require.NoError(t, err)
	return d, catalog
}

// MockDeliveryLog is a mock implementation of postal.DeliveryLog.
type MockDeliveryLog struct {
	mock.Mock
}

func (m *MockDeliveryLog) Record(ctx context.Context, d *postal.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryLog) GetByID(ctx context.Context, id string) (*postal.Delivery, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*postal.Delivery)
	return d, args.Error(1)
}

func (m *MockDeliveryLog) List(ctx context.Context, filter postal.ListFilter) ([]*postal.Delivery, int, error) {
	args := m.Called(ctx, filter)
	ds, _ := args.Get(0).([]*postal.Delivery)
	return ds, args.Int(1), args.Error(2)
}

// MockRateLimiter is a mock implementation of postal.RecipientRateLimiter.
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, recipient string) (bool, error) {
	args := m.Called(ctx, recipient)
	return args.Bool(0), args.Error(1)
}
