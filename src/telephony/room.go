package telephony

import (
	"context"
	"strings"
)

// SIP participant attribute keys set by the platform's SIP bridge
const (
	AttrPhoneNumber      = "sip.phoneNumber"
	AttrTrunkPhoneNumber = "sip.trunkPhoneNumber"
	AttrTwilioCallSID    = "sip.twilio.callSid"
)

// Participant is a call leg represented as a room participant tagged with
// telephony attributes. Every field except Identity is optional: a missing
// attribute is handled gracefully, never fatally.
type Participant struct {
	Identity      string
	CallerNumber  string // caller's phone number, E.164
	DialedNumber  string // trunk number the caller dialed, E.164
	TwilioCallSID string // provider call identifier, when routed via Twilio
}

// FromAttributes extracts the telephony attributes of a SIP participant
func FromAttributes(identity string, attrs map[string]string) Participant {
	return Participant{
		Identity:      identity,
		CallerNumber:  attrs[AttrPhoneNumber],
		DialedNumber:  attrs[AttrTrunkPhoneNumber],
		TwilioCallSID: attrs[AttrTwilioCallSID],
	}
}

// RoomControl is the server-side control surface over the call's room. The
// core uses it for the transfer and end-call state machines; the media path
// itself is not managed here.
type RoomControl interface {
	// FindSIPParticipant returns the active SIP participant in the room,
	// or nil when no SIP leg is present
	FindSIPParticipant(ctx context.Context, room string) (*Participant, error)

	// RemoveParticipant disconnects a participant, ending its call leg
	RemoveParticipant(ctx context.Context, room, identity string) error

	// TransferParticipant issues a SIP REFER moving the participant to
	// the transferTo URI
	TransferParticipant(ctx context.Context, room, identity, transferTo string) error
}

// TelURI formats a phone number as a tel: URI for SIP transfer targets
func TelURI(phone string) string {
	if strings.HasPrefix(phone, "tel:") {
		return phone
	}
	return "tel:" + phone
}

// NormalizeE164 ensures a leading + on a bare digit string
func NormalizeE164(number string) string {
	if number == "" || strings.HasPrefix(number, "+") {
		return number
	}
	return "+" + number
}
