// Package email renders and delivers the transactional emails of the tracker:
// sign-in notices, welcome mails, password-reset codes and digests.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

const charset = "UTF-8"

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Sender delivers a rendered message and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// SendError wraps a delivery failure.
type SendError struct {
	To  string
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to send email to %s: %v", e.To, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// ErrNoSender is returned when email delivery is not configured.
var ErrNoSender = errors.New("email sender is not configured")

// sesAPI is the subset of the SES client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender delivers mail through Amazon SES.
type SESSender struct {
	client sesAPI
	from   string
	logger *zap.Logger
}

// NewSESSender loads the default AWS credential chain for region.
func NewSESSender(ctx context.Context, region, from string, logger *zap.Logger) (*SESSender, error) {
	if from == "" {
		return nil, ErrNoSender
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newSESSender(ses.NewFromConfig(cfg), from, logger), nil
}

func newSESSender(client sesAPI, from string, logger *zap.Logger) *SESSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SESSender{client: client, from: from, logger: logger}
}

// Send delivers msg as an HTML email.
func (s *SESSender) Send(ctx context.Context, msg Message) (string, error) {
	to := msg.To
	if msg.ToName != "" {
		to = (&mail.Address{Name: msg.ToName, Address: msg.To}).String()
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charset)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String(charset)},
			},
		},
	})
	if err != nil {
		s.logger.Error("email delivery failed", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		return "", &SendError{To: msg.To, Err: err}
	}

	id := aws.ToString(out.MessageId)
	s.logger.Info("email sent", zap.String("to", msg.To), zap.String("message_id", id))
	return id, nil
}
