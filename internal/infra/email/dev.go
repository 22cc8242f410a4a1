package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"postalservice/internal/common"
	"postalservice/internal/domain/postal"

	"github.com/google/uuid"
)

var _ postal.Transport = (*DevTransport)(nil)

// DevTransport writes emails to a directory instead of sending them.
// Each message produces an .html, a .txt and a .json metadata file.
type DevTransport struct {
	dir string
	now func() time.Time
}

// NewDevTransport creates a transport that saves emails under dir.
// The directory is created on first send.
func NewDevTransport(dir string) (*DevTransport, error) {
	if dir == "" {
		return nil, common.NewConfigError("dev_dir", "is required")
	}
	return &DevTransport{dir: dir, now: time.Now}, nil
}

// Name returns the provider identifier.
func (t *DevTransport) Name() string {
	return "dev"
}

type devMetadata struct {
	MessageID string   `json:"message_id"`
	Timestamp string   `json:"timestamp"`
	Source    string   `json:"source"`
	To        []string `json:"to"`
	Subject   string   `json:"subject"`
	Charset   string   `json:"charset"`
}

// SendEmail saves the message bodies and metadata and returns a generated message ID.
func (t *DevTransport) SendEmail(ctx context.Context, in *postal.SendEmailInput) (*postal.SendEmailOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating dev mail directory: %w", err)
	}

	now := t.now()
	messageID := "dev-" + uuid.New().String()
	base := filepath.Join(t.dir, fmt.Sprintf("%s_%s_%s",
		now.Format("2006_01_02_150405"),
		sanitizeFilename(in.Message.Subject.Data),
		messageID[len(messageID)-8:],
	))

	if err := os.WriteFile(base+".html", []byte(in.Message.Body.HTML.Data), 0o644); err != nil {
		return nil, fmt.Errorf("writing html body: %w", err)
	}
	if err := os.WriteFile(base+".txt", []byte(in.Message.Body.Text.Data), 0o644); err != nil {
		return nil, fmt.Errorf("writing text body: %w", err)
	}

	meta, err := json.MarshalIndent(devMetadata{
		MessageID: messageID,
		Timestamp: now.Format(time.RFC3339),
		Source:    in.Source,
		To:        in.Destination.ToAddresses,
		Subject:   in.Message.Subject.Data,
		Charset:   in.Message.Subject.Charset,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling metadata: %w", err)
	}
	if err := os.WriteFile(base+".json", meta, 0o644); err != nil {
		return nil, fmt.Errorf("writing metadata: %w", err)
	}

	return &postal.SendEmailOutput{
		MessageID: messageID,
		Provider:  t.Name(),
	}, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	if len(s) > 60 {
		s = s[:60]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
