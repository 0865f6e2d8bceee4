package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/square-key-labs/hostline-ai/src/backend"
	"github.com/square-key-labs/hostline-ai/src/menu"
	"github.com/square-key-labs/hostline-ai/src/session"
)

// defaultPickupLead is the assumed pickup time when the caller does not name
// one
const defaultPickupLead = 20 * time.Minute

func (r *Registry) placeOrder(ctx context.Context, sess *session.CallSession, args json.RawMessage) string {
	var in struct {
		Items        []string `json:"items"`
		CustomerName string   `json:"customer_name"`
		PickupTime   string   `json:"pickup_time"`
	}
	if !decode(args, &in) || len(in.Items) == 0 || in.CustomerName == "" {
		return argsFallback
	}

	catalog := sess.EnsureMenu(ctx)
	lines, total, matched, missing := menu.BuildOrder(catalog, in.Items)
	if len(lines) == 0 {
		// Nothing resolvable: no submission is attempted
		return "No valid items found in the order."
	}
	if len(missing) > 0 {
		r.log.Warn("Order items not on the menu, skipped: %s", strings.Join(missing, ", "))
	}

	pickup := in.PickupTime
	if pickup == "" {
		pickup = r.deps.Clock().In(r.deps.Location).Add(defaultPickupLead).Format("03:04 PM")
	}

	order := backend.OrderRequest{
		StoreID:       sess.StoreID(),
		CustomerName:  in.CustomerName,
		CustomerPhone: sess.CallerPhone,
		Items:         lines,
		Total:         fmt.Sprintf("%.2f", total),
	}

	r.log.Info("Placing order for %s: %s ($%.2f), pickup %s", in.CustomerName, strings.Join(matched, ", "), total, pickup)

	// Submitted at most once; the order is never retried automatically
	if err := sess.Backend().SubmitOrder(ctx, order); err != nil {
		r.log.Error("Order submission failed: %v", err)
		return "I'm sorry, there was an issue placing your order. Please try calling back."
	}

	// SMS sends are best-effort: failures are logged and never roll back
	// the order or fail the tool
	paymentLink := fmt.Sprintf("%s/pay/%s/order", strings.TrimRight(sess.Backend().BaseURL, "/"), sess.StoreID())

	if sess.CallerPhone != "" {
		customerSMS := fmt.Sprintf("Hi %s! Order confirmed at %s. Total: $%.2f. Pickup: %s. Pay here: %s",
			in.CustomerName, sess.StoreName(), total, pickup, paymentLink)
		if !r.deps.Notifier.Send(ctx, sess.CallerPhone, "", customerSMS) {
			r.log.Warn("Customer confirmation SMS failed")
		}
	}

	if store := sess.Store(); store != nil && store.NotificationPhone != "" {
		merchantSMS := fmt.Sprintf("New Order! %s - %s. Items: %s. Total: $%.2f. Pickup: %s",
			in.CustomerName, sess.CallerPhone, strings.Join(matched, ", "), total, pickup)
		if !r.deps.Notifier.Send(ctx, store.NotificationPhone, "", merchantSMS) {
			r.log.Warn("Merchant notification SMS failed")
		}
	} else {
		r.log.Warn("No notification phone - merchant SMS not sent")
	}

	return fmt.Sprintf("Perfect! Your order for %s totaling $%.2f is confirmed for pickup at %s. "+
		"You'll receive a text message with payment details shortly.",
		strings.Join(matched, ", "), total, pickup)
}

func (r *Registry) sendMenuPictures(ctx context.Context, sess *session.CallSession, _ json.RawMessage) string {
	if sess.CallerPhone == "" {
		return "I'm sorry, I don't have a number to text the menu to."
	}
	if len(r.deps.MenuImageURLs) == 0 {
		r.log.Warn("No menu image URLs configured")
		return "I'm sorry, I'm not able to text the menu right now."
	}

	body := fmt.Sprintf("Here's the menu for %s. See anything you like?", sess.StoreName())
	if !r.deps.Notifier.SendMedia(ctx, sess.CallerPhone, "", body, r.deps.MenuImageURLs) {
		return "I'm sorry, I couldn't send the menu right now."
	}
	return "Just texted you the menu! Anything sound good?"
}
