package email

import (
	"fmt"
	"strings"

	"postalservice/internal/config"
	"postalservice/internal/domain/postal"
)

// NewTransport builds the transport selected by cfg.Provider.
//
// Credentials map onto each provider as follows:
//   - ses: key/secret are the AWS access key pair, region selects the endpoint
//   - resend: key is the API key
//   - postmark: key is the server token, secret the account token
//   - smtp: key/secret are the SMTP username and password
//   - dev: no credentials, messages are written to dev_dir
func NewTransport(cfg config.MailConfig) (postal.Transport, error) {
	var (
		t   postal.Transport
		err error
	)

	switch strings.ToLower(cfg.Provider) {
	case "ses", "":
		t, err = NewSESTransport(cfg.Key, cfg.Secret, cfg.Region)
	case "resend":
		t, err = NewResendTransport(cfg.Key)
	case "postmark":
		t, err = NewPostmarkTransport(cfg.Key, cfg.Secret)
	case "smtp":
		t, err = NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.Key, cfg.Secret)
	case "dev":
		t, err = NewDevTransport(cfg.DevDir)
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s transport: %w", cfg.Provider, err)
	}
	return t, nil
}
