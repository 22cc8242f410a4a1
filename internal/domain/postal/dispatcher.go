package postal

import (
	"bytes"
	"context"
	"fmt"

	"postalservice/internal/common"
)

// Dependencies are the collaborators a Dispatcher delegates to.
type Dependencies struct {
	Templates TemplateLoader
	Locales   Localizer
	Preparer  Preparer
	Transport Transport
}

// Dispatcher renders notification emails and hands them to a transport.
// It holds no mutable state after construction and is safe for concurrent use.
type Dispatcher struct {
	opts      Options
	templates map[TemplateName]Template
	locales   Localizer
	preparer  Preparer
	transport Transport
}

// NewDispatcher validates the credentials, then loads every template in
// TemplateNames. Credentials are checked before any dependency is used.
func NewDispatcher(opts Options, deps Dependencies) (*Dispatcher, error) {
	if opts.Key == "" {
		return nil, common.NewConfigError("key", "is required")
	}
	if opts.Secret == "" {
		return nil, common.NewConfigError("secret", "is required")
	}
	if opts.WebmakerURL == "" {
		opts.WebmakerURL = DefaultWebmakerURL
	}

	switch {
	case deps.Templates == nil:
		return nil, common.NewConfigError("templates", "loader is required")
	case deps.Locales == nil:
		return nil, common.NewConfigError("locales", "localizer is required")
	case deps.Preparer == nil:
		return nil, common.NewConfigError("preparer", "is required")
	case deps.Transport == nil:
		return nil, common.NewConfigError("transport", "is required")
	}

	templates := make(map[TemplateName]Template, len(TemplateNames))
	for _, name := range TemplateNames {
		tmpl, err := deps.Templates.Load(name)
		if err != nil {
			return nil, fmt.Errorf("loading template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &Dispatcher{
		opts:      opts,
		templates: templates,
		locales:   deps.Locales,
		preparer:  deps.Preparer,
		transport: deps.Transport,
	}, nil
}

// WebmakerURL returns the base URL used in template links.
func (d *Dispatcher) WebmakerURL() string {
	return d.opts.WebmakerURL
}

// TransportName returns the name of the configured transport.
func (d *Dispatcher) TransportName() string {
	return d.transport.Name()
}

// ResolveLocale returns locale if it is supported, otherwise the default locale.
func (d *Dispatcher) ResolveLocale(locale string) string {
	if d.locales.IsSupported(locale) {
		return locale
	}
	return d.locales.Default()
}

// SendCreateEventEmail sends the "next steps" email to an event creator.
func (d *Dispatcher) SendCreateEventEmail(ctx context.Context, req CreateEventEmail) (*SendEmailOutput, error) {
	locale := d.ResolveLocale(req.Locale)

	vars := map[string]any{
		"fullName":    req.FullName,
		"gettext":     d.locales.Strings(locale),
		"locale":      locale,
		"webmakerURL": d.opts.WebmakerURL,
	}

	subject := d.locales.Gettext(SubjectCreateEvent, locale)
	return d.send(ctx, TemplateCreateEvent, vars, SenderEvents, req.To, subject)
}

// SendBadgeAwardedEmail sends the badge email variant selected by the badge slug.
func (d *Dispatcher) SendBadgeAwardedEmail(ctx context.Context, req BadgeAwardedEmail) (*SendEmailOutput, error) {
	locale := d.ResolveLocale(req.Locale)
	bt := SelectBadgeTemplate(req.Badge.Slug)

	username := ""
	if req.User != nil {
		username = req.User.Username
	}

	vars := map[string]any{
		"email":       req.To,
		"username":    username,
		"badge":       req.Badge,
		"comment":     req.Comment,
		"gettext":     d.locales.Strings(locale),
		"locale":      locale,
		"webmakerURL": d.opts.WebmakerURL,
	}

	subject := d.locales.Gettext(bt.SubjectKey, locale)
	return d.send(ctx, bt.Template, vars, bt.Source, req.To, subject)
}

// SendWelcomeEmail sends the welcome email to a new account.
func (d *Dispatcher) SendWelcomeEmail(ctx context.Context, req WelcomeEmail) (*SendEmailOutput, error) {
	locale := d.ResolveLocale(req.Locale)

	vars := map[string]any{
		"fullName":    req.FullName,
		"gettext":     d.locales.Strings(locale),
		"locale":      locale,
		"webmakerURL": d.opts.WebmakerURL,
	}

	subject := d.locales.Gettext(SubjectWelcome, locale)
	return d.send(ctx, TemplateWelcome, vars, SenderHelp, req.To, subject)
}

// SendMofoStaffEmail tells staff about a newly created event. It is not localized.
func (d *Dispatcher) SendMofoStaffEmail(ctx context.Context, req MofoStaffEmail) (*SendEmailOutput, error) {
	vars := map[string]any{
		"email":       req.Email,
		"username":    req.Username,
		"eventId":     req.EventID,
		"webmakerURL": d.opts.WebmakerURL,
	}

	return d.send(ctx, TemplateMofoStaffNewEvent, vars, SenderHelp, req.To, SubjectMofoStaff)
}

// send renders once, prepares the result, and submits it. Errors from the
// prepare step and the transport are returned unchanged; the transport is
// never called when preparing fails.
func (d *Dispatcher) send(ctx context.Context, name TemplateName, vars map[string]any, source, to, subject string) (*SendEmailOutput, error) {
	html, err := d.render(name, vars)
	if err != nil {
		return nil, err
	}

	prepared, err := d.preparer.Prepare(ctx, html)
	if err != nil {
		return nil, err
	}

	return d.transport.SendEmail(ctx, NewSendEmailInput(source, to, subject, prepared))
}

func (d *Dispatcher) render(name TemplateName, vars map[string]any) (string, error) {
	tmpl, ok := d.templates[name]
	if !ok {
		return "", fmt.Errorf("no template registered for %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}
