package postal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"postalservice/internal/common"
)

// Service is the application layer around a Dispatcher.
// Per send: check recipient rate limit → dispatch → record delivery → log.
// The delivery log and rate limiter are optional.
type Service struct {
	dispatcher  *Dispatcher
	deliveries  DeliveryLog
	rateLimiter RecipientRateLimiter
	logger      *slog.Logger
}

// NewService creates a new postal service. deliveries and rateLimiter may be nil.
func NewService(dispatcher *Dispatcher, deliveries DeliveryLog, rateLimiter RecipientRateLimiter) *Service {
	return &Service{
		dispatcher:  dispatcher,
		deliveries:  deliveries,
		rateLimiter: rateLimiter,
		logger:      slog.Default(),
	}
}

// WithLogger replaces the service logger.
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// SendCreateEvent dispatches a create-event email.
func (s *Service) SendCreateEvent(ctx context.Context, req CreateEventEmail) (*SendResponse, error) {
	d := &Delivery{Kind: KindCreateEvent, Recipient: req.To, Locale: s.dispatcher.ResolveLocale(req.Locale)}
	return s.deliver(ctx, d, func(ctx context.Context) (*SendEmailOutput, error) {
		return s.dispatcher.SendCreateEventEmail(ctx, req)
	})
}

// SendBadgeAwarded dispatches a badge-awarded email.
func (s *Service) SendBadgeAwarded(ctx context.Context, req BadgeAwardedEmail) (*SendResponse, error) {
	d := &Delivery{
		Kind:      KindBadgeAwarded,
		Recipient: req.To,
		Locale:    s.dispatcher.ResolveLocale(req.Locale),
		BadgeSlug: req.Badge.Slug,
	}
	return s.deliver(ctx, d, func(ctx context.Context) (*SendEmailOutput, error) {
		return s.dispatcher.SendBadgeAwardedEmail(ctx, req)
	})
}

// SendWelcome dispatches a welcome email.
func (s *Service) SendWelcome(ctx context.Context, req WelcomeEmail) (*SendResponse, error) {
	d := &Delivery{Kind: KindWelcome, Recipient: req.To, Locale: s.dispatcher.ResolveLocale(req.Locale)}
	return s.deliver(ctx, d, func(ctx context.Context) (*SendEmailOutput, error) {
		return s.dispatcher.SendWelcomeEmail(ctx, req)
	})
}

// SendMofoStaff dispatches the internal staff notice.
func (s *Service) SendMofoStaff(ctx context.Context, req MofoStaffEmail) (*SendResponse, error) {
	d := &Delivery{Kind: KindMofoStaff, Recipient: req.To}
	return s.deliver(ctx, d, func(ctx context.Context) (*SendEmailOutput, error) {
		return s.dispatcher.SendMofoStaffEmail(ctx, req)
	})
}

func (s *Service) deliver(ctx context.Context, d *Delivery, send func(context.Context) (*SendEmailOutput, error)) (*SendResponse, error) {
	start := time.Now()

	// Check per-recipient rate limit
	if s.rateLimiter != nil {
		allowed, err := s.rateLimiter.Allow(ctx, d.Recipient)
		if err != nil {
			s.logger.Error("rate limit check failed, proceeding without limit", "recipient", d.Recipient, "error", err)
			// Fail open when Redis is down
		} else if !allowed {
			return nil, common.NewRateLimitError(d.Recipient)
		}
	}

	d.Provider = s.dispatcher.TransportName()

	out, err := send(ctx)
	if err != nil {
		d.Status = StatusFailed
		d.ErrorMessage = err.Error()
		s.record(ctx, d)

		s.logger.Error("email delivery failed",
			"kind", d.Kind,
			"to", d.Recipient,
			"provider", d.Provider,
			"error", err,
			"duration", time.Since(start),
		)
		return nil, common.NewProviderError(d.Provider, err)
	}

	d.Status = StatusSent
	d.MessageID = out.MessageID
	s.record(ctx, d)

	s.logger.Info("email sent",
		"id", d.ID,
		"kind", d.Kind,
		"to", d.Recipient,
		"locale", d.Locale,
		"provider", d.Provider,
		"message_id", out.MessageID,
		"duration", time.Since(start),
	)

	return &SendResponse{
		ID:        d.ID,
		Kind:      d.Kind,
		Locale:    d.Locale,
		MessageID: out.MessageID,
		Provider:  d.Provider,
	}, nil
}

// record stores d in the delivery log. Failures are logged and never change the send result.
func (s *Service) record(ctx context.Context, d *Delivery) {
	if s.deliveries == nil {
		return
	}
	if err := s.deliveries.Record(ctx, d); err != nil {
		s.logger.Error("failed to record delivery", "kind", d.Kind, "to", d.Recipient, "error", err)
	}
}

// GetDelivery retrieves a delivery record by ID.
func (s *Service) GetDelivery(ctx context.Context, id string) (*Delivery, error) {
	if s.deliveries == nil {
		return nil, common.NewUnavailableError("delivery log")
	}
	d, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching delivery: %w", err)
	}
	if d == nil {
		return nil, common.NewNotFoundError("delivery", id)
	}
	return d, nil
}

// ListDeliveries retrieves delivery records with pagination and filtering.
func (s *Service) ListDeliveries(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	if s.deliveries == nil {
		return nil, common.NewUnavailableError("delivery log")
	}
	filter.Normalize()

	deliveries, total, err := s.deliveries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing deliveries: %w", err)
	}

	return &ListResponse{
		Deliveries: deliveries,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}
