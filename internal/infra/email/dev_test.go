package email

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevTransport_SendEmail(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "outbox")
	tr, err := NewDevTransport(dir)
	require.NoError(t, err)
	tr.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	out, err := tr.SendEmail(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.MessageID, "dev-"))
	assert.Equal(t, "dev", out.Provider)

	files, err := filepath.Glob(filepath.Join(dir, "2024_03_01_123000_welcome_to_webmaker_*"))
	require.NoError(t, err)
	require.Len(t, files, 3)

	var htmlPath, textPath, metaPath string
	for _, f := range files {
		switch filepath.Ext(f) {
		case ".html":
			htmlPath = f
		case ".txt":
			textPath = f
		case ".json":
			metaPath = f
		}
	}

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello Ada</p>", string(html))

	text, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada", string(text))

	raw, err := os.ReadFile(metaPath)
	require.NoError(t, err)

	var meta devMetadata
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, out.MessageID, meta.MessageID)
	assert.Equal(t, []string{"ada@example.org"}, meta.To)
	assert.Equal(t, "Welcome to Webmaker!", meta.Subject)
	assert.Equal(t, "2024-03-01T12:30:00Z", meta.Timestamp)
}

func TestDevTransport_DistinctFilesPerSend(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tr, err := NewDevTransport(dir)
	require.NoError(t, err)
	tr.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	for i := 0; i < 3; i++ {
		_, err := tr.SendEmail(context.Background(), sampleInput())
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 9)
}

func TestNewDevTransport_RequiresDir(t *testing.T) {
	t.Parallel()

	_, err := NewDevTransport("")
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "welcome_to_webmaker", sanitizeFilename("Welcome to Webmaker!"))
	assert.Equal(t, "bienvenue_sur_webmaker_", sanitizeFilename("Bienvenue sur Webmaker !"))
	assert.Equal(t, "email", sanitizeFilename("¡¿?!"))
	assert.Len(t, sanitizeFilename(strings.Repeat("a", 200)), 60)
}
