// Package notify delivers reply text messages.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers one text message.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// messageCreator is the part of the Twilio REST API used to send messages.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender sends SMS through the Twilio Messages API.
type TwilioSender struct {
	api  messageCreator
	from string
}

var _ Sender = (*TwilioSender)(nil)

// NewTwilioSender creates a sender for the given account that sends from the
// number from.
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{api: client.Api, from: from}
}

// Send creates one outbound message. The Twilio client has no context
// support, so ctx is only checked before the request starts.
func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", to, err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	slog.Debug("message sent", "to", to, "sid", sid)
	return nil
}

// LogSender logs messages instead of sending them. Used in development.
type LogSender struct{}

var _ Sender = LogSender{}

// Send logs the message.
func (LogSender) Send(ctx context.Context, to, body string) error {
	slog.Info("outbound message", "to", to, "body", body)
	return nil
}

// New returns the sender selected by driver ("twilio" or "log").
func New(driver, accountSID, authToken, from string) (Sender, error) {
	switch driver {
	case "twilio":
		return NewTwilioSender(accountSID, authToken, from), nil
	case "", "log":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("unknown notify driver %q", driver)
	}
}
