package postal

import (
	"context"
	"io"
)

// Transport delivers a fully rendered email.
// Implementations live in infra/email (SES, Resend, Postmark, SMTP, dev).
type Transport interface {
	// SendEmail submits the request and returns the provider's result.
	SendEmail(ctx context.Context, in *SendEmailInput) (*SendEmailOutput, error)

	// Name returns the provider identifier, e.g. "ses".
	Name() string
}

// Preparer inlines CSS into rendered HTML and derives the plain-text body.
// Implementations live in infra/prepare.
type Preparer interface {
	Prepare(ctx context.Context, html string) (Prepared, error)
}

// Template is a compiled email template. *html/template.Template satisfies it.
type Template interface {
	Execute(w io.Writer, data any) error
}

// TemplateLoader loads compiled templates by name.
// Implementations live in infra/template.
type TemplateLoader interface {
	Load(name TemplateName) (Template, error)
}

// Localizer is the string catalog used for subjects and template text.
// Implementations live in internal/locale.
type Localizer interface {
	// IsSupported reports whether locale is in the supported set.
	IsSupported(locale string) bool

	// Default returns the locale used when a request's locale is unsupported.
	Default() string

	// Strings returns a lookup function bound to locale.
	Strings(locale string) func(key string) string

	// Gettext looks up a single key for locale.
	Gettext(key, locale string) string
}
