package email

import (
	"context"
	"fmt"
	"strings"

	"postalservice/internal/common"
	"postalservice/internal/domain/postal"

	"github.com/mrz1836/postmark"
)

var _ postal.Transport = (*PostmarkTransport)(nil)

// PostmarkTransport sends emails through Postmark's transactional API.
type PostmarkTransport struct {
	client *postmark.Client
}

// NewPostmarkTransport creates a Postmark transport. Both tokens are required.
func NewPostmarkTransport(serverToken, accountToken string) (*PostmarkTransport, error) {
	if serverToken == "" {
		return nil, common.NewConfigError("key", "is required")
	}
	if accountToken == "" {
		return nil, common.NewConfigError("secret", "is required")
	}
	return &PostmarkTransport{client: postmark.NewClient(serverToken, accountToken)}, nil
}

// Name returns the provider identifier.
func (t *PostmarkTransport) Name() string {
	return "postmark"
}

// SendEmail sends the message with open tracking enabled.
func (t *PostmarkTransport) SendEmail(ctx context.Context, in *postal.SendEmailInput) (*postal.SendEmailOutput, error) {
	resp, err := t.client.SendEmail(ctx, postmark.Email{
		From:       in.Source,
		To:         strings.Join(in.Destination.ToAddresses, ","),
		Subject:    in.Message.Subject.Data,
		HTMLBody:   in.Message.Body.HTML.Data,
		TextBody:   in.Message.Body.Text.Data,
		TrackOpens: true,
	})
	if err != nil {
		return nil, err
	}
	if resp.ErrorCode > 0 {
		return nil, fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}

	return &postal.SendEmailOutput{
		MessageID: resp.MessageID,
		Provider:  t.Name(),
	}, nil
}
