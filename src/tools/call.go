package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/square-key-labs/hostline-ai/src/session"
	"github.com/square-key-labs/hostline-ai/src/telephony"
)

func (r *Registry) transferToManager(ctx context.Context, sess *session.CallSession, _ json.RawMessage) string {
	store := sess.EnsureStoreDetails(ctx)
	if store == nil || store.TransferPhone == "" {
		r.log.Error("No transfer phone configured for this store")
		return "I'm sorry, I don't have a manager number configured. Please call back and ask for assistance."
	}

	if r.deps.Rooms == nil || sess.RoomName == "" {
		r.log.Error("Cannot transfer - no room control or room name")
		return "I'm sorry, I'm unable to transfer calls right now."
	}

	transferTo := telephony.TelURI(store.TransferPhone)
	r.log.Info("Initiating transfer to %s", transferTo)

	participant, err := r.deps.Rooms.FindSIPParticipant(ctx, sess.RoomName)
	if err != nil || participant == nil {
		r.log.Error("No SIP participant found in room: %v", err)
		return "I'm sorry, I couldn't find the active call to transfer."
	}

	// Never retried automatically: a failed transfer falls back to
	// handling the caller in-call
	if err := r.deps.Rooms.TransferParticipant(ctx, sess.RoomName, participant.Identity, transferTo); err != nil {
		r.log.Error("Call transfer failed: %v", err)
		return "I'm sorry, I couldn't transfer the call. Let me see if I can help you instead."
	}

	return "Transferring you now. Please hold."
}

func (r *Registry) endCall(ctx context.Context, sess *session.CallSession, _ json.RawMessage) string {
	r.log.Info("Caller is done - ending call after goodbye")

	// Wait for the spoken goodbye to finish before hanging up
	timer := time.NewTimer(r.goodbyeDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	sess.End()

	if r.deps.Rooms == nil || sess.RoomName == "" {
		r.log.Warn("Cannot end call - no room control or room name")
		return "Call ending..."
	}

	participant, err := r.deps.Rooms.FindSIPParticipant(ctx, sess.RoomName)
	if err != nil || participant == nil {
		r.log.Warn("No SIP participant found to disconnect: %v", err)
		return "Call ending..."
	}

	if err := r.deps.Rooms.RemoveParticipant(ctx, sess.RoomName, participant.Identity); err != nil {
		r.log.Error("Error ending call: %v", err)
		return "Call ending..."
	}

	return "Call ended. Goodbye!"
}

func (r *Registry) saveConversation(ctx context.Context, sess *session.CallSession, _ json.RawMessage) string {
	err := sess.SaveConversation(ctx, nil)
	switch {
	case err == nil:
		return "Conversation saved successfully"
	case errors.Is(err, session.ErrNoTranscript):
		return "No conversation data to save"
	case errors.Is(err, session.ErrMissingData):
		return "Missing required information to save conversation"
	case errors.Is(err, session.ErrAlreadySaved):
		return "Conversation already saved"
	default:
		r.log.Error("Failed to save conversation: %v", err)
		return "Failed to save conversation"
	}
}

func (r *Registry) requestCallback(ctx context.Context, sess *session.CallSession, args json.RawMessage) string {
	var in struct {
		CustomerName string `json:"customer_name"`
		Reason       string `json:"reason"`
	}
	if !decode(args, &in) || in.CustomerName == "" {
		return argsFallback
	}
	if in.Reason == "" {
		in.Reason = "Inquiry"
	}

	store := sess.EnsureStoreDetails(ctx)
	if store == nil || store.NotificationPhone == "" {
		r.log.Error("No notification phone - cannot arrange callback")
		return "I'm sorry, I couldn't arrange a callback right now."
	}
	if sess.CallerPhone == "" {
		return "I'm sorry, I don't have your number to arrange a callback."
	}

	body := fmt.Sprintf("CALLBACK REQUESTED\nCustomer: %s\nPhone: %s\nReason: %s\nPlease call back within 5 minutes!",
		in.CustomerName, sess.CallerPhone, in.Reason)
	if !r.deps.Notifier.Send(ctx, store.NotificationPhone, "", body) {
		return "I'm sorry, I couldn't arrange a callback right now."
	}

	return fmt.Sprintf("Perfect! Our manager will call you at %s within 5 minutes.", sess.CallerPhone)
}
