package notify

import "context"

// Notifier sends SMS/MMS confirmations and alerts. Implementations report
// success as a boolean and never return errors: messaging is best-effort and
// a failed send must not fail the business action that triggered it.
type Notifier interface {
	// Send delivers an SMS. An empty from falls back to the configured
	// sender number.
	Send(ctx context.Context, to, from, body string) bool

	// SendMedia delivers an MMS with publicly reachable media URLs
	SendMedia(ctx context.Context, to, from, body string, mediaURLs []string) bool
}

// Disabled is a Notifier that drops everything. Used when messaging is not
// configured; absence of credentials is a non-fatal state.
type Disabled struct{}

func (Disabled) Send(context.Context, string, string, string) bool { return false }

func (Disabled) SendMedia(context.Context, string, string, string, []string) bool { return false }
