package notifications

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// SESMailer implementa Mailer usando AWS SES v2.
type SESMailer struct {
	client *sesv2.Client
	from   string
	log    *zap.Logger
}

// NewSESMailer carrega a configuração padrão do SDK (credenciais do ambiente) para a região informada.
func NewSESMailer(ctx context.Context, region, sender, fromName string, log *zap.Logger) (*SESMailer, error) {
	if region == "" || sender == "" {
		return nil, errors.New("AWS region and SES sender must be configured")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for SES: %w", err)
	}
	return NewSESMailerWithClient(sesv2.NewFromConfig(cfg), sender, fromName, log), nil
}

// NewSESMailerWithClient usa um cliente já construído.
func NewSESMailerWithClient(client *sesv2.Client, sender, fromName string, log *zap.Logger) *SESMailer {
	from := sender
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, sender)
	}
	return &SESMailer{client: client, from: from, log: log.Named("ses")}
}

func (s *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return errors.New("email recipient must not be empty")
	}
	if body == "" {
		return errors.New("email body must not be empty")
	}

	htmlBody := fmt.Sprintf("<p>%s</p>", strings.ReplaceAll(html.EscapeString(body), "\n", "<br>"))
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.log.Error("Failed to send email via SES", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	s.log.Info("Email sent successfully via AWS SES",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}
