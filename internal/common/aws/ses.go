// internal/common/aws/ses.go
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Email is a plain-text message with an optional HTML alternative.
type Email struct {
	From     string
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESClient struct {
	client sesAPI
}

func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESClient{client: ses.NewFromConfig(cfg)}, nil
}

// SendEmail returns the SES message id.
func (s *SESClient) SendEmail(ctx context.Context, email Email) (string, error) {
	input, err := buildEmailInput(email)
	if err != nil {
		return "", err
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("ses send: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

func buildEmailInput(email Email) (*ses.SendEmailInput, error) {
	if email.From == "" {
		return nil, fmt.Errorf("email sender is empty")
	}
	if len(email.To) == 0 {
		return nil, fmt.Errorf("email has no recipients")
	}

	body := &types.Body{
		Text: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(email.TextBody)},
	}
	if email.HTMLBody != "" {
		body.Html = &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(email.HTMLBody)}
	}

	return &ses.SendEmailInput{
		Source:      aws.String(email.From),
		Destination: &types.Destination{ToAddresses: email.To},
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(email.Subject)},
			Body:    body,
		},
	}, nil
}
