package locale_test

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"

	"postalservice/internal/locale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"i18n/en-US/messages.json":  {Data: []byte(`{"hello":"Hello","bye":"Goodbye","nested":{"key":"Nested"}}`)},
		"i18n/en_US/extra.yaml":     {Data: []byte("extra: Extra\n")},
		"i18n/fr/messages.json":     {Data: []byte(`{"hello":"Bonjour"}`)},
		"i18n/de/messages.yml":      {Data: []byte("hello: Hallo\n")},
		"i18n/de/README.md":         {Data: []byte("ignored")},
		"i18n/not a locale!/x.json": {Data: []byte(`{"hello":"?"}`)},
		"i18n/notes.txt":            {Data: []byte("top-level files are ignored")},
	}
}

func TestNewCatalog_Embedded(t *testing.T) {
	t.Parallel()

	c, err := locale.NewCatalog(context.Background(), locale.Config{})
	require.NoError(t, err)

	assert.Equal(t, locale.DefaultLocale, c.Default())
	assert.Equal(t, []string{"en-US", "es", "fr"}, c.Locales())
	assert.Equal(t, "Welcome to Webmaker!", c.Gettext("emailTitle", "en-US"))
}

func TestNewCatalog_LoadsAndFlattens(t *testing.T) {
	t.Parallel()

	c, err := locale.NewCatalog(context.Background(), locale.Config{FS: testFS(), Dir: "i18n"})
	require.NoError(t, err)

	assert.Equal(t, []string{"de", "en-US", "fr"}, c.Locales())
	assert.Equal(t, "Nested", c.Gettext("nested.key", "en-US"))
	assert.Equal(t, "Extra", c.Gettext("extra", "en-US"), "en_US directory merges into en-US")
	assert.Equal(t, "Hallo", c.Gettext("hello", "de"))
}

func TestCatalog_GettextFallback(t *testing.T) {
	t.Parallel()

	c, err := locale.NewCatalog(context.Background(), locale.Config{FS: testFS(), Dir: "i18n"})
	require.NoError(t, err)

	assert.Equal(t, "Bonjour", c.Gettext("hello", "fr"))
	assert.Equal(t, "Goodbye", c.Gettext("bye", "fr"), "missing key falls back to default locale")
	assert.Equal(t, "Hello", c.Gettext("hello", "pt-BR"), "unknown locale falls back to default locale")
	assert.Equal(t, "no.such.key", c.Gettext("no.such.key", "fr"), "unknown key returns the key")

	gettext := c.Strings("fr")
	assert.Equal(t, "Bonjour", gettext("hello"))
	assert.Equal(t, "Goodbye", gettext("bye"))
}

func TestCatalog_EmbeddedPartialLocale(t *testing.T) {
	t.Parallel()

	c, err := locale.NewCatalog(context.Background(), locale.Config{})
	require.NoError(t, err)

	assert.NotEqual(t, c.Gettext("welcomeIntro", "en-US"), c.Gettext("welcomeIntro", "es"))
	assert.Equal(t, c.Gettext("superMentorIntro", "en-US"), c.Gettext("superMentorIntro", "es"))
}

func TestCatalog_IsSupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		supported []string
		want      map[string]bool
	}{
		{
			name:      "empty means all",
			supported: nil,
			want:      map[string]bool{"en-US": true, "fr": true, "de": true, "es": false},
		},
		{
			name:      "wildcard means all",
			supported: []string{"fr", locale.Wildcard},
			want:      map[string]bool{"en-US": true, "fr": true, "de": true},
		},
		{
			name:      "restricted list keeps default",
			supported: []string{"fr", "es"},
			want:      map[string]bool{"en-US": true, "fr": true, "de": false, "es": false},
		},
		{
			name:      "exact match only",
			supported: nil,
			want:      map[string]bool{"en-us": false, "en_US": false, "FR": false, "": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := locale.NewCatalog(context.Background(), locale.Config{
				FS:        testFS(),
				Dir:       "i18n",
				Supported: tt.supported,
			})
			require.NoError(t, err)

			for loc, want := range tt.want {
				assert.Equal(t, want, c.IsSupported(loc), loc)
			}
		})
	}
}

func TestNewCatalog_Errors(t *testing.T) {
	t.Parallel()

	t.Run("default locale missing", func(t *testing.T) {
		t.Parallel()
		_, err := locale.NewCatalog(context.Background(), locale.Config{FS: testFS(), Dir: "i18n", Default: "es"})
		assert.ErrorIs(t, err, locale.ErrDefaultNotLoaded)
	})

	t.Run("no catalogs", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{"empty/readme.txt": {Data: []byte("x")}}
		_, err := locale.NewCatalog(context.Background(), locale.Config{FS: fsys, Dir: "empty"})
		assert.ErrorIs(t, err, locale.ErrNoCatalogs)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		_, err := locale.NewCatalog(context.Background(), locale.Config{FS: testFS(), Dir: "nope"})
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{"m/en-US/messages.json": {Data: []byte(`{"hello":`)}}
		_, err := locale.NewCatalog(context.Background(), locale.Config{FS: fsys, Dir: "m"})
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := locale.NewCatalog(ctx, locale.Config{FS: testFS(), Dir: "i18n"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "en-US", locale.Canonicalize("en-US"))
	assert.Equal(t, "en-US", locale.Canonicalize("en_us"))
	assert.Equal(t, "fr", locale.Canonicalize("fr"))
	assert.Equal(t, "pt-BR", locale.Canonicalize("pt_BR"))
	assert.Empty(t, locale.Canonicalize("not a locale!"))
}

func TestCatalog_ConcurrentReads(t *testing.T) {
	t.Parallel()

	c, err := locale.NewCatalog(context.Background(), locale.Config{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, loc := range c.Locales() {
				_ = c.Strings(loc)("emailTitle")
				_ = c.IsSupported(loc)
			}
		}()
	}
	wg.Wait()
}
