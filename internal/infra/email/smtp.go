package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"postalservice/internal/common"
	"postalservice/internal/domain/postal"

	"github.com/go-mail/mail"
	"github.com/google/uuid"
)

var _ postal.Transport = (*SMTPTransport)(nil)

const defaultSMTPTimeout = 10 * time.Second

// SMTPTransport sends emails through an SMTP relay.
type SMTPTransport struct {
	host string
	port int
	user string
	pass string
	ssl  bool
}

// NewSMTPTransport creates an SMTP transport. Port 465 switches to implicit TLS;
// other ports negotiate STARTTLS when the server offers it.
func NewSMTPTransport(host string, port int, user, pass string) (*SMTPTransport, error) {
	if host == "" {
		return nil, common.NewConfigError("smtp_host", "is required")
	}
	if port <= 0 {
		return nil, common.NewConfigError("smtp_port", "must be positive")
	}
	return &SMTPTransport{
		host: host,
		port: port,
		user: user,
		pass: pass,
		ssl:  port == 465,
	}, nil
}

// Name returns the provider identifier.
func (t *SMTPTransport) Name() string {
	return "smtp"
}

// SendEmail builds a multipart/alternative message and relays it.
// SMTP has no provider message ID, so the Message-ID header we set is returned.
// The dial and every read and write are bounded by the ctx deadline, and the
// call returns as soon as ctx is done.
func (t *SMTPTransport) SendEmail(ctx context.Context, in *postal.SendEmailInput) (*postal.SendEmailOutput, error) {
	timeout, err := dialTimeout(ctx)
	if err != nil {
		return nil, err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), t.host)
	m := buildMessage(in, messageID)

	d := mail.NewDialer(t.host, t.port, t.user, t.pass)
	d.TLSConfig = &tls.Config{ServerName: t.host}
	d.SSL = t.ssl
	d.Timeout = timeout

	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("smtp send: %w", err)
		}
	}

	return &postal.SendEmailOutput{
		MessageID: strings.Trim(messageID, "<>"),
		Provider:  t.Name(),
	}, nil
}

// dialTimeout returns the connection timeout for a send under ctx:
// defaultSMTPTimeout, shortened to the time left before the ctx deadline.
func dialTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultSMTPTimeout, nil
	}
	left := time.Until(deadline)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	return min(left, defaultSMTPTimeout), nil
}

func buildMessage(in *postal.SendEmailInput, messageID string) *mail.Message {
	m := mail.NewMessage(mail.SetCharset(in.Message.Subject.Charset))
	m.SetHeader("From", in.Source)
	m.SetHeader("To", in.Destination.ToAddresses...)
	m.SetHeader("Subject", in.Message.Subject.Data)
	m.SetHeader("Message-ID", messageID)

	m.SetBody("text/plain", in.Message.Body.Text.Data)
	m.AddAlternative("text/html", in.Message.Body.HTML.Data)
	return m
}
