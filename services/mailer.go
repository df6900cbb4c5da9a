package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

type Email struct {
	ReplyTo string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, e Email) error
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer delivers mail through Amazon SES from a fixed sender to a fixed recipient.
type SESMailer struct {
	client sesAPI
	from   string
	to     string
}

type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	From            string
	To              string
}

func NewSESMailer(ctx context.Context, cfg SESConfig) (*SESMailer, error) {
	if cfg.Region == "" || cfg.From == "" || cfg.To == "" {
		return nil, fmt.Errorf("ses mailer needs region, from and to addresses")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(awsCfg), from: cfg.From, to: cfg.To}, nil
}

func (m *SESMailer) Send(ctx context.Context, e Email) error {
	input := &ses.SendEmailInput{
		Source: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{m.to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(e.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(e.Body), Charset: aws.String("UTF-8")},
			},
		},
	}
	if e.ReplyTo != "" {
		input.ReplyToAddresses = []string{e.ReplyTo}
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("%w: ses send: %w", ErrUpstream, err)
	}
	return nil
}

// LogMailer only logs messages. Used when SES is not configured.
type LogMailer struct {
	Log *zap.Logger
}

func (m LogMailer) Send(_ context.Context, e Email) error {
	m.Log.Warn("mail delivery not configured, message dropped",
		zap.String("subject", e.Subject),
		zap.String("reply_to", e.ReplyTo))
	return nil
}
