package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"postalservice/internal/domain/postal"
	"postalservice/internal/infra/email"
	"postalservice/internal/infra/prepare"
	"postalservice/internal/infra/template"
	"postalservice/internal/locale"

	"github.com/spf13/cobra"
)

type options struct {
	out         string
	to          string
	locales     []string
	localeDir   string
	templateDir string
	webmakerURL string
	verbose     bool
}

func main() {
	opts := options{
		out:         "./tmp/preview",
		to:          "preview@example.org",
		webmakerURL: postal.DefaultWebmakerURL,
	}

	root := &cobra.Command{
		Use:   "preview",
		Short: "Render every email in every locale to a directory",
		Long: "preview renders each email kind (and every badge variant) through the " +
			"full prepare pipeline and writes .html, .txt and .json files with the dev transport.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	root.Flags().StringVarP(&opts.out, "out", "o", opts.out, "output directory")
	root.Flags().StringVar(&opts.to, "to", opts.to, "recipient address written into the metadata")
	root.Flags().StringSliceVarP(&opts.locales, "locale", "l", nil, "locales to render (default: all loaded)")
	root.Flags().StringVar(&opts.localeDir, "locale-dir", "", "catalog directory (default: built-in catalogs)")
	root.Flags().StringVar(&opts.templateDir, "template-dir", "", "template directory (default: built-in templates)")
	root.Flags().StringVar(&opts.webmakerURL, "webmaker-url", opts.webmakerURL, "base URL used in links")
	root.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	localeCfg := locale.Config{}
	if opts.localeDir != "" {
		localeCfg.FS = os.DirFS(opts.localeDir)
	}
	catalog, err := locale.NewCatalog(ctx, localeCfg, locale.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("loading catalogs: %w", err)
	}

	tmplEngine := template.NewEmbeddedEngine()
	if opts.templateDir != "" {
		tmplEngine = template.NewEngine(os.DirFS(opts.templateDir), ".")
	}

	transport, err := email.NewDevTransport(opts.out)
	if err != nil {
		return err
	}

	// The dev transport ignores credentials; the dispatcher still requires them.
	dispatcher, err := postal.NewDispatcher(
		postal.Options{Key: "preview", Secret: "preview", WebmakerURL: opts.webmakerURL},
		postal.Dependencies{
			Templates: tmplEngine,
			Locales:   catalog,
			Preparer:  prepare.New(),
			Transport: transport,
		},
	)
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	locales := opts.locales
	if len(locales) == 0 {
		locales = catalog.Locales()
	}

	count := 0
	for _, loc := range locales {
		for _, s := range samples(opts.to, loc) {
			out, err := s.send(ctx, dispatcher)
			if err != nil {
				return fmt.Errorf("rendering %s (%s): %w", s.name, loc, err)
			}
			logger.Debug("rendered", "email", s.name, "locale", loc, "message_id", out.MessageID)
			count++
		}
	}

	// Staff notices are English only
	staff := postal.MofoStaffEmail{
		To:       opts.to,
		Email:    "host@example.org",
		Username: "eventhost",
		EventID:  "1234",
	}
	if _, err := dispatcher.SendMofoStaffEmail(ctx, staff); err != nil {
		return fmt.Errorf("rendering mofo staff: %w", err)
	}
	count++

	logger.Info("preview complete", "emails", count, "locales", locales, "dir", opts.out)
	return nil
}

type sample struct {
	name string
	send func(context.Context, *postal.Dispatcher) (*postal.SendEmailOutput, error)
}

func samples(to, loc string) []sample {
	out := []sample{
		{
			name: "create_event",
			send: func(ctx context.Context, d *postal.Dispatcher) (*postal.SendEmailOutput, error) {
				return d.SendCreateEventEmail(ctx, postal.CreateEventEmail{To: to, FullName: "Ada Lovelace", Locale: loc})
			},
		},
		{
			name: "welcome",
			send: func(ctx context.Context, d *postal.Dispatcher) (*postal.SendEmailOutput, error) {
				return d.SendWelcomeEmail(ctx, postal.WelcomeEmail{To: to, FullName: "Ada Lovelace", Locale: loc})
			},
		},
	}

	for _, slug := range []string{"", "webmaker-super-mentor", "event-host", "skill-sharer", "teaching-kit-remixer"} {
		req := postal.BadgeAwardedEmail{
			To:      to,
			User:    &postal.User{Username: "ada"},
			Comment: "Thanks for everything you do for the community.",
			Locale:  loc,
			Badge: postal.Badge{
				Slug:        slug,
				Name:        "Sample Badge",
				Strapline:   "For outstanding contribution",
				Description: "Awarded to people who teach the web.",
				ImageURL:    "https://example.org/badge.png",
				CriteriaURL: "https://example.org/badge/criteria",
				Extra:       map[string]any{"issuer": "Mozilla Foundation"},
			},
		}
		name := "badge_awarded"
		if slug != "" {
			name += ":" + slug
		}
		out = append(out, sample{
			name: name,
			send: func(ctx context.Context, d *postal.Dispatcher) (*postal.SendEmailOutput, error) {
				return d.SendBadgeAwardedEmail(ctx, req)
			},
		})
	}

	return out
}
