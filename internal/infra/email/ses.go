package email

import (
	"context"

	"postalservice/internal/common"
	"postalservice/internal/domain/postal"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var _ postal.Transport = (*SESTransport)(nil)

// DefaultSESRegion is used when no region is configured.
const DefaultSESRegion = "us-east-1"

// sesAPI is the subset of the SES client used by SESTransport.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESTransport sends emails with Amazon SES.
type SESTransport struct {
	client sesAPI
}

// NewSESTransport creates an SES transport authenticated with a static access key pair.
// No network call is made until the first send.
func NewSESTransport(key, secret, region string) (*SESTransport, error) {
	if key == "" {
		return nil, common.NewConfigError("key", "is required")
	}
	if secret == "" {
		return nil, common.NewConfigError("secret", "is required")
	}
	if region == "" {
		region = DefaultSESRegion
	}

	client := ses.New(ses.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(key, secret, "")),
	})

	return &SESTransport{client: client}, nil
}

// Name returns the provider identifier.
func (t *SESTransport) Name() string {
	return "ses"
}

// SendEmail maps the request onto ses.SendEmailInput field for field.
// SES errors are returned unchanged.
func (t *SESTransport) SendEmail(ctx context.Context, in *postal.SendEmailInput) (*postal.SendEmailOutput, error) {
	out, err := t.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(in.Source),
		Destination: &types.Destination{
			ToAddresses: in.Destination.ToAddresses,
		},
		Message: &types.Message{
			Subject: sesContent(in.Message.Subject),
			Body: &types.Body{
				Text: sesContent(in.Message.Body.Text),
				Html: sesContent(in.Message.Body.HTML),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return &postal.SendEmailOutput{
		MessageID: aws.ToString(out.MessageId),
		Provider:  t.Name(),
	}, nil
}

func sesContent(c postal.Content) *types.Content {
	return &types.Content{
		Data:    aws.String(c.Data),
		Charset: aws.String(c.Charset),
	}
}
