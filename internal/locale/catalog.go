// Package locale loads per-locale string catalogs and resolves message keys.
//
// Catalogs are laid out one directory per locale, each holding flat key/value
// files in JSON or YAML:
//
//	messages/
//	  en-US/messages.json
//	  fr/messages.json
//
// A Catalog is immutable once loaded and safe for concurrent use.
package locale

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when Config.Default is empty.
const DefaultLocale = "en-US"

// Wildcard in Config.Supported accepts every locale that has a catalog.
const Wildcard = "*"

//go:embed messages
var embedded embed.FS

// EmbeddedDir is the directory holding the built-in catalogs inside Embedded.
const EmbeddedDir = "messages"

// Embedded returns the catalogs compiled into the binary.
func Embedded() fs.FS {
	return embedded
}

var (
	ErrDefaultNotLoaded = errors.New("default locale has no catalog")
	ErrNoCatalogs       = errors.New("no locale catalogs found")
)

// Config describes where catalogs live and which locales are accepted.
type Config struct {
	// FS holds the catalogs. Nil means the embedded catalogs.
	FS fs.FS

	// Dir is the catalog root inside FS. Empty means EmbeddedDir.
	Dir string

	// Default is the fallback locale. Empty means DefaultLocale.
	Default string

	// Supported restricts accepted locales. Empty or containing Wildcard
	// means every loaded locale.
	Supported []string
}

// Catalog holds loaded translations.
type Catalog struct {
	messages      map[string]map[string]string
	supported     map[string]bool
	defaultLocale string
	logger        *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used while loading. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCatalog loads every locale directory under cfg.Dir.
func NewCatalog(ctx context.Context, cfg Config, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		messages:  make(map[string]map[string]string),
		supported: make(map[string]bool),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	fsys := cfg.FS
	dir := cfg.Dir
	if fsys == nil {
		fsys = embedded
		if dir == "" {
			dir = EmbeddedDir
		}
	}
	if dir == "" {
		dir = "."
	}

	if err := c.load(ctx, fsys, dir); err != nil {
		return nil, err
	}
	if len(c.messages) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoCatalogs, dir)
	}

	def := cfg.Default
	if def == "" {
		def = DefaultLocale
	}
	def = Canonicalize(def)
	if _, ok := c.messages[def]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrDefaultNotLoaded, def)
	}
	c.defaultLocale = def

	if len(cfg.Supported) == 0 || slices.Contains(cfg.Supported, Wildcard) {
		for loc := range c.messages {
			c.supported[loc] = true
		}
	} else {
		for _, loc := range cfg.Supported {
			loc = Canonicalize(loc)
			if _, ok := c.messages[loc]; !ok {
				c.logger.Warn("supported locale has no catalog", "locale", loc)
				continue
			}
			c.supported[loc] = true
		}
	}
	c.supported[def] = true

	c.logger.InfoContext(ctx, "locale catalogs loaded", "locales", c.Locales(), "default", def)
	return c, nil
}

func (c *Catalog) load(ctx context.Context, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading locale directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("loading locales: %w", err)
		}
		if !entry.IsDir() {
			continue
		}

		loc := Canonicalize(entry.Name())
		if loc == "" {
			c.logger.Warn("skipping directory with invalid locale name", "dir", entry.Name())
			continue
		}

		msgs, err := loadLocaleDir(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("loading locale %s: %w", loc, err)
		}
		if existing, ok := c.messages[loc]; ok {
			for k, v := range msgs {
				existing[k] = v
			}
			continue
		}
		c.messages[loc] = msgs
	}
	return nil
}

func loadLocaleDir(fsys fs.FS, dir string) (map[string]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	msgs := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		var raw map[string]any
		switch strings.ToLower(path.Ext(name)) {
		case ".json":
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", name, err)
			}
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", name, err)
			}
		default:
			continue
		}
		flatten("", raw, msgs)
	}
	return msgs, nil
}

// flatten copies string leaves of m into out, joining nested keys with dots.
func flatten(prefix string, m map[string]any, out map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flatten(key, val, out)
		}
	}
}

// Canonicalize returns the BCP 47 form of a locale code ("en_us" -> "en-US"),
// or "" if it cannot be parsed.
func Canonicalize(locale string) string {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return ""
	}
	return tag.String()
}

// IsSupported reports whether locale is exactly one of the supported codes.
func (c *Catalog) IsSupported(locale string) bool {
	return c.supported[locale]
}

// Default returns the fallback locale.
func (c *Catalog) Default() string {
	return c.defaultLocale
}

// Locales returns the supported locale codes, sorted.
func (c *Catalog) Locales() []string {
	locales := make([]string, 0, len(c.supported))
	for loc := range c.supported {
		locales = append(locales, loc)
	}
	sort.Strings(locales)
	return locales
}

// Gettext returns the translation of key for locale. Missing keys fall back to
// the default locale and then to the key itself.
func (c *Catalog) Gettext(key, locale string) string {
	if msgs, ok := c.messages[locale]; ok {
		if s, ok := msgs[key]; ok {
			return s
		}
	}
	if s, ok := c.messages[c.defaultLocale][key]; ok {
		return s
	}
	return key
}

// Strings returns a lookup function bound to locale.
func (c *Catalog) Strings(locale string) func(key string) string {
	return func(key string) string {
		return c.Gettext(key, locale)
	}
}
