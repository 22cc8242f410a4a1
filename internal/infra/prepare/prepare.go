package prepare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"postalservice/internal/domain/postal"

	"github.com/jaytaylor/html2text"
	"github.com/vanng822/go-premailer/premailer"
)

var _ postal.Preparer = (*Premailer)(nil)

// ErrEmptyHTML is returned when there is nothing to prepare.
var ErrEmptyHTML = errors.New("prepare: html is empty")

// Premailer inlines <style> rules into element attributes and derives a
// plain-text body from the inlined HTML.
type Premailer struct {
	options     *premailer.Options
	textOptions html2text.Options
}

// Option configures a Premailer.
type Option func(*Premailer)

// WithRemoveClasses drops class attributes after their rules are inlined.
func WithRemoveClasses(remove bool) Option {
	return func(p *Premailer) {
		p.options.RemoveClasses = remove
	}
}

// WithOmitLinks leaves link URLs out of the text body.
func WithOmitLinks(omit bool) Option {
	return func(p *Premailer) {
		p.textOptions.OmitLinks = omit
	}
}

// New creates a Premailer with go-premailer's defaults.
func New(opts ...Option) *Premailer {
	p := &Premailer{
		options: premailer.NewOptions(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare returns the inlined HTML and its text rendition.
func (p *Premailer) Prepare(ctx context.Context, html string) (postal.Prepared, error) {
	if strings.TrimSpace(html) == "" {
		return postal.Prepared{}, ErrEmptyHTML
	}
	if err := ctx.Err(); err != nil {
		return postal.Prepared{}, err
	}

	prem, err := premailer.NewPremailerFromString(html, p.options)
	if err != nil {
		return postal.Prepared{}, fmt.Errorf("parsing html: %w", err)
	}

	inlined, err := prem.Transform()
	if err != nil {
		return postal.Prepared{}, fmt.Errorf("inlining css: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return postal.Prepared{}, err
	}

	text, err := html2text.FromString(inlined, p.textOptions)
	if err != nil {
		return postal.Prepared{}, fmt.Errorf("converting html to text: %w", err)
	}

	return postal.Prepared{HTML: inlined, Text: text}, nil
}
