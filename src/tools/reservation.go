package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/square-key-labs/hostline-ai/src/backend"
	"github.com/square-key-labs/hostline-ai/src/session"
)

func (r *Registry) makeReservation(ctx context.Context, sess *session.CallSession, args json.RawMessage) string {
	var in struct {
		CustomerName  string `json:"customer_name"`
		Date          string `json:"date"` // YYYY-MM-DD
		Time          string `json:"time"` // HH:MM, 24-hour
		PartySize     int    `json:"party_size"`
		CustomerPhone string `json:"customer_phone"`
	}
	if !decode(args, &in) || in.CustomerName == "" || in.Date == "" || in.Time == "" || in.PartySize <= 0 {
		return argsFallback
	}

	if sess.StoreID() == "" {
		r.log.Error("No store id - cannot make reservation")
		return "I'm sorry, I'm unable to make reservations right now."
	}

	phone := in.CustomerPhone
	if phone == "" {
		phone = sess.CallerPhone
	}

	reservation := backend.ReservationRequest{
		StoreID:       sess.StoreID(),
		CustomerName:  in.CustomerName,
		CustomerPhone: phone,
		Date:          in.Date,
		Time:          in.Time,
		PartySize:     in.PartySize,
	}

	r.log.Info("Making reservation for %s on %s at %s, party of %d", in.CustomerName, in.Date, in.Time, in.PartySize)

	// Submitted at most once; backend failure details are logged, not spoken
	if err := sess.Backend().SubmitReservation(ctx, reservation); err != nil {
		r.log.Error("Reservation failed: %v", err)
		return "I'm sorry, I couldn't complete your reservation. Please try calling back."
	}

	// Best-effort confirmation text; a failed send does not fail the tool
	if phone != "" {
		body := fmt.Sprintf("Hi %s! Your reservation at %s for %d on %s at %s is confirmed.",
			in.CustomerName, sess.StoreName(), in.PartySize, in.Date, in.Time)
		if !r.deps.Notifier.Send(ctx, phone, "", body) {
			r.log.Warn("Reservation confirmation SMS failed")
		}
	}

	return fmt.Sprintf("Perfect! Your reservation for %d people on %s at %s is confirmed.",
		in.PartySize, in.Date, in.Time)
}
