package notify

import (
	"context"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/square-key-labs/hostline-ai/src/logger"
)

// TwilioConfig holds Twilio credentials and the default sender number.
// API key authentication is preferred; the account auth token is the
// fallback. Missing credentials leave the notifier disabled.
type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	APIKeySID    string
	APIKeySecret string
	FromNumber   string // A2P certified sender number
}

// Twilio sends SMS and MMS through the Twilio REST API
type Twilio struct {
	client     *twilio.RestClient
	fromNumber string
	log        *logger.Logger
}

// NewTwilio creates a Twilio notifier. When no usable credentials are
// configured the returned notifier is disabled: sends log a warning and
// report failure, nothing panics.
func NewTwilio(config TwilioConfig) *Twilio {
	n := &Twilio{
		fromNumber: config.FromNumber,
		log:        logger.WithPrefix("notify"),
	}

	switch {
	case config.APIKeySID != "" && config.APIKeySecret != "" && config.AccountSID != "":
		n.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username:   config.APIKeySID,
			Password:   config.APIKeySecret,
			AccountSid: config.AccountSID,
		})
		n.log.Info("Twilio client initialized (API key)")
	case config.AccountSID != "" && config.AuthToken != "":
		n.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: config.AccountSID,
			Password: config.AuthToken,
		})
		n.log.Info("Twilio client initialized (auth token)")
	default:
		n.log.Warn("Twilio credentials not configured - messaging disabled")
	}

	if n.client != nil && n.fromNumber == "" {
		n.log.Warn("No default sender number configured - sends need an explicit from")
	}

	return n
}

// Enabled reports whether the notifier has a usable client
func (n *Twilio) Enabled() bool {
	return n.client != nil
}

// Send delivers an SMS, falling back to the configured sender number when
// from is empty
func (n *Twilio) Send(ctx context.Context, to, from, body string) bool {
	return n.send(to, from, body, nil)
}

// SendMedia delivers an MMS with the given media URLs
func (n *Twilio) SendMedia(ctx context.Context, to, from, body string, mediaURLs []string) bool {
	if len(mediaURLs) == 0 {
		n.log.Error("No media URLs provided for MMS to %s", to)
		return false
	}
	return n.send(to, from, body, mediaURLs)
}

// sender resolves the outbound number: an explicit from wins, otherwise the
// configured default applies
func (n *Twilio) sender(from string) string {
	if from != "" {
		return from
	}
	return n.fromNumber
}

func (n *Twilio) send(to, from, body string, mediaURLs []string) bool {
	if n.client == nil {
		n.log.Warn("Messaging disabled - dropping message to %s", to)
		return false
	}

	sender := n.sender(from)
	if sender == "" {
		n.log.Error("No sender number available for message to %s", to)
		return false
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(sender)
	params.SetBody(body)
	if len(mediaURLs) > 0 {
		params.SetMediaUrl(mediaURLs)
	}

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		n.log.Error("Failed to send message to %s: %v", to, err)
		return false
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	n.log.Info("Message sent from %s to %s: %s", sender, to, sid)
	return true
}
