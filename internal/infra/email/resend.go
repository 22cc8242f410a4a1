package email

import (
	"context"

	"postalservice/internal/common"
	"postalservice/internal/domain/postal"

	"github.com/resend/resend-go/v2"
)

var _ postal.Transport = (*ResendTransport)(nil)

// ResendTransport sends emails using the Resend API.
type ResendTransport struct {
	client *resend.Client
}

// NewResendTransport creates a new Resend transport.
func NewResendTransport(apiKey string) (*ResendTransport, error) {
	if apiKey == "" {
		return nil, common.NewConfigError("key", "is required")
	}
	return &ResendTransport{client: resend.NewClient(apiKey)}, nil
}

// Name returns the provider identifier.
func (t *ResendTransport) Name() string {
	return "resend"
}

// SendEmail delivers an email via the Resend API and returns the message ID.
func (t *ResendTransport) SendEmail(ctx context.Context, in *postal.SendEmailInput) (*postal.SendEmailOutput, error) {
	resp, err := t.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    in.Source,
		To:      in.Destination.ToAddresses,
		Subject: in.Message.Subject.Data,
		Html:    in.Message.Body.HTML.Data,
		Text:    in.Message.Body.Text.Data,
	})
	if err != nil {
		return nil, err
	}

	return &postal.SendEmailOutput{
		MessageID: resp.Id,
		Provider:  t.Name(),
	}, nil
}
