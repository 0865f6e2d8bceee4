package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/square-key-labs/hostline-ai/src/logger"
	"github.com/square-key-labs/hostline-ai/src/notify"
	"github.com/square-key-labs/hostline-ai/src/session"
	"github.com/square-key-labs/hostline-ai/src/telephony"
)

// Tool names exposed to the dialogue manager
const (
	GetMenuCategories   = "get_menu_categories"
	GetMenuByCategory   = "get_menu_by_category"
	GetItemPrice        = "get_item_price"
	GetItemPrices       = "get_item_prices"
	SearchMenuItems     = "search_menu_items"
	SearchKnowledgeBase = "search_knowledge_base"
	CheckCurrentTime    = "check_current_time"
	PlaceOrder          = "place_order"
	MakeReservation     = "make_reservation"
	TransferToManager   = "transfer_to_manager"
	EndCall             = "end_call"
	SaveConversation    = "save_conversation"
	SendMenuPictures    = "send_menu_pictures"
	RequestCallback     = "request_callback"
)

// Spoken fallbacks shared across handlers
const (
	argsFallback    = "I'm sorry, I didn't catch that. Could you say it again?"
	unknownFallback = "I'm sorry, I can't do that."
)

// DefaultGoodbyeDelay is how long end_call waits for the spoken goodbye to
// finish before hanging up
const DefaultGoodbyeDelay = 10 * time.Second

// Handler executes one tool invocation against the call session. Handlers
// always return a speakable string: failures are converted to user-facing
// text here, never surfaced to the dialogue manager as errors.
type Handler func(ctx context.Context, sess *session.CallSession, args json.RawMessage) string

// Deps are the collaborators tool handlers need beyond the call session.
// Everything is injected explicitly; there is no process-wide state.
type Deps struct {
	Notifier notify.Notifier
	Rooms    telephony.RoomControl
	Clock    func() time.Time
	Location *time.Location // business timezone for spoken times

	// GoodbyeDelay overrides DefaultGoodbyeDelay. A zero value means hang
	// up immediately, for hosts that gate the hangup on their own
	// speech-finished signal.
	GoodbyeDelay *time.Duration

	// Publicly reachable menu image URLs for send_menu_pictures
	MenuImageURLs []string
}

// Registry is the fixed catalogue of callable actions exposed to the
// dialogue manager: one canonical handler per tool name.
type Registry struct {
	deps         Deps
	goodbyeDelay time.Duration
	handlers     map[string]Handler
	log          *logger.Logger
}

// NewRegistry builds the registry with every tool registered
func NewRegistry(deps Deps) *Registry {
	if deps.Notifier == nil {
		deps.Notifier = notify.Disabled{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	goodbyeDelay := DefaultGoodbyeDelay
	if deps.GoodbyeDelay != nil {
		goodbyeDelay = *deps.GoodbyeDelay
	}

	r := &Registry{
		deps:         deps,
		goodbyeDelay: goodbyeDelay,
		handlers:     map[string]Handler{},
		log:          logger.WithPrefix("tools"),
	}

	r.handlers[GetMenuCategories] = r.getMenuCategories
	r.handlers[GetMenuByCategory] = r.getMenuByCategory
	r.handlers[GetItemPrice] = r.getItemPrice
	r.handlers[GetItemPrices] = r.getItemPrices
	r.handlers[SearchMenuItems] = r.searchMenuItems
	r.handlers[SearchKnowledgeBase] = r.searchKnowledgeBase
	r.handlers[CheckCurrentTime] = r.checkCurrentTime
	r.handlers[PlaceOrder] = r.placeOrder
	r.handlers[MakeReservation] = r.makeReservation
	r.handlers[TransferToManager] = r.transferToManager
	r.handlers[EndCall] = r.endCall
	r.handlers[SaveConversation] = r.saveConversation
	r.handlers[SendMenuPictures] = r.sendMenuPictures
	r.handlers[RequestCallback] = r.requestCallback

	return r
}

// Dispatch routes a tool invocation by name. Unknown tools and argument
// decode failures return speakable fallbacks.
func (r *Registry) Dispatch(ctx context.Context, sess *session.CallSession, name string, arguments string) string {
	handler, ok := r.handlers[name]
	if !ok {
		r.log.Warn("Unknown tool: %s", name)
		return unknownFallback
	}

	r.log.Debug("Dispatching %s", name)
	return handler(ctx, sess, json.RawMessage(arguments))
}

// Names returns the registered tool names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

func decode(args json.RawMessage, out interface{}) bool {
	if len(args) == 0 {
		return true
	}
	return json.Unmarshal(args, out) == nil
}
