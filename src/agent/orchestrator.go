package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/square-key-labs/hostline-ai/src/backend"
	"github.com/square-key-labs/hostline-ai/src/dialog"
	"github.com/square-key-labs/hostline-ai/src/logger"
	"github.com/square-key-labs/hostline-ai/src/session"
	"github.com/square-key-labs/hostline-ai/src/telephony"
	"github.com/square-key-labs/hostline-ai/src/tools"
)

// prefetchHeadStart is how long the data prefetch runs before the greeting
// is generated. A latency/freshness tradeoff, not a barrier: the dialogue
// starts whether or not the prefetch finished, and tools lazy-load whatever
// is still missing.
const prefetchHeadStart = 50 * time.Millisecond

// saveTimeout bounds the shutdown-time transcript save so call teardown
// never hangs on the backend
const saveTimeout = 15 * time.Second

// Params wires one call's collaborators into the orchestrator. Everything
// is injected; the orchestrator owns no global state.
type Params struct {
	Backend     *backend.Client
	Registry    *tools.Registry
	Rooms       telephony.RoomControl
	Dialog      dialog.Session
	RoomName    string
	Participant telephony.Participant

	// PrefetchHeadStart overrides the default head start. Test hook.
	PrefetchHeadStart time.Duration
}

// Orchestrator drives one call end to end: SIP attribute extraction, store
// resolution, the prefetch race, dialogue startup, event intake, and the
// shutdown-time transcript save.
type Orchestrator struct {
	params   Params
	sess     *session.CallSession
	log      *logger.Logger
	saveDone chan struct{}
}

// New creates the orchestrator and its call session. When the participant's
// attributes were not supplied, the room is consulted for the SIP leg; a
// room without one still gets a session with empty identity fields.
func New(ctx context.Context, params Params) *Orchestrator {
	if params.PrefetchHeadStart == 0 {
		params.PrefetchHeadStart = prefetchHeadStart
	}

	log := logger.WithPrefix("agent")

	participant := params.Participant
	if participant.CallerNumber == "" && params.Rooms != nil && params.RoomName != "" {
		if found, err := params.Rooms.FindSIPParticipant(ctx, params.RoomName); err == nil && found != nil {
			participant = *found
		}
	}
	if participant.CallerNumber == "" {
		log.Warn("No caller number in SIP attributes")
	}
	if participant.TwilioCallSID == "" {
		log.Warn("No Twilio CallSid in SIP attributes")
	}

	return &Orchestrator{
		params:   params,
		sess:     session.New(params.Backend, participant, params.RoomName),
		log:      log,
		saveDone: make(chan struct{}),
	}
}

// Session returns the call session owned by this orchestrator
func (o *Orchestrator) Session() *session.CallSession {
	return o.sess
}

// Run drives the call until ctx is cancelled (call disconnect), then
// performs the shutdown sequence. Store resolution failure is not fatal:
// the assistant answers with generic framing and every store-data tool
// degrades gracefully.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.sess.DialedNumber != "" {
		store, err := o.params.Backend.FetchStoreInfo(ctx, o.sess.DialedNumber)
		if err != nil {
			o.log.Warn("Store lookup unavailable: %v", err)
		}
		if store != nil {
			o.sess.SetStore(store)
		}
	} else {
		o.log.Warn("No dialed number - using defaults")
	}

	// Prefetch races against dialogue startup; failures stay inside
	// Prefetch and tools fall back to lazy loads
	prefetchDone := make(chan struct{})
	go func() {
		defer close(prefetchDone)
		o.sess.Prefetch(ctx)
	}()

	o.params.Dialog.SetHandlers(dialog.Handlers{
		OnTranscription: o.onTranscription,
		OnItemAdded:     o.onItemAdded,
		OnToolCall:      o.onToolCall,
	})

	// The head start lets the prefetch land before the system prompt is
	// built, so Instructions() usually carries live menu categories
	select {
	case <-prefetchDone:
	case <-time.After(o.params.PrefetchHeadStart):
	}

	if err := o.params.Dialog.Start(ctx, o.Instructions(), o.params.Registry.Definitions()); err != nil {
		return fmt.Errorf("starting dialogue session: %w", err)
	}

	greeting := fmt.Sprintf("Thank you for calling %s, this is Alex. How may I help you?", o.sess.StoreName())
	o.log.Info("Greeting: %s", greeting)
	if err := o.params.Dialog.GenerateReply(ctx, fmt.Sprintf("Say exactly: '%s'", greeting)); err != nil {
		o.log.Error("Greeting failed: %v", err)
	}

	<-ctx.Done()
	o.Shutdown()
	return nil
}

// Shutdown ends the session, saves the transcript exactly once (bounded by
// saveTimeout, on a fresh context since the call's context is already
// cancelled), and closes the dialogue session. Safe to call more than once.
func (o *Orchestrator) Shutdown() {
	select {
	case <-o.saveDone:
		return
	default:
	}
	defer close(o.saveDone)

	o.sess.End()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	analysis := map[string]interface{}{
		"callSid":          o.sess.TwilioCallSID,
		"recordingPending": o.sess.TwilioCallSID != "",
		"callEndTime":      time.Now().UTC().Format(time.RFC3339),
	}

	switch err := o.sess.SaveConversation(ctx, analysis); err {
	case nil:
		o.log.Info("Conversation saved")
	case session.ErrNoTranscript:
		o.log.Warn("No transcript captured - nothing to save")
	case session.ErrAlreadySaved:
		// A save_conversation tool call already persisted it
	default:
		o.log.Error("Failed to save conversation: %v", err)
	}

	if err := o.params.Dialog.Close(); err != nil {
		o.log.Warn("Dialogue session close: %v", err)
	}
}

// onTranscription records finalized caller speech. Interim transcriptions
// are logged for observability only, keeping duplicate or garbled entries
// out of the persisted transcript.
func (o *Orchestrator) onTranscription(text string, isFinal bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if !isFinal {
		o.log.Debug("[customer] ...: %s", text)
		return
	}
	o.log.Info("[customer] %s", text)
	o.sess.AppendCustomer(text)
}

// onItemAdded records assistant-authored text. Caller text is skipped here:
// it is already captured through transcription events.
func (o *Orchestrator) onItemAdded(role, text string) {
	if role != "assistant" {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	o.log.Info("[agent] %s", text)
	o.sess.AppendAgent(text)
}

// onToolCall dispatches a tool invocation. Once the call has ended, tool
// results must not feed new dialogue, so a fixed closing line is returned
// instead of dispatching.
func (o *Orchestrator) onToolCall(name, arguments string) string {
	if !o.sess.Active() && name != tools.SaveConversation && name != tools.EndCall {
		o.log.Warn("Tool %s invoked after call end - ignoring", name)
		return "The call has ended."
	}
	return o.params.Registry.Dispatch(context.Background(), o.sess, name, arguments)
}
