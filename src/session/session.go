package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/square-key-labs/hostline-ai/src/backend"
	"github.com/square-key-labs/hostline-ai/src/knowledge"
	"github.com/square-key-labs/hostline-ai/src/logger"
	"github.com/square-key-labs/hostline-ai/src/menu"
	"github.com/square-key-labs/hostline-ai/src/telephony"
)

// Transcript role tags
const (
	RoleCustomer = "customer"
	RoleAgent    = "agent"
)

// DefaultStoreName is the spoken fallback when no store could be resolved
// for the dialed number
const DefaultStoreName = "our restaurant"

var (
	// ErrNoTranscript means there is nothing to persist
	ErrNoTranscript = errors.New("no transcript to save")
	// ErrMissingData means the store id or caller phone is unknown
	ErrMissingData = errors.New("missing store or caller identity")
	// ErrAlreadySaved means the one persistence attempt already happened
	ErrAlreadySaved = errors.New("conversation already saved")
)

// CallSession is the aggregate root for one phone call: caller identity,
// loaded store data, menu catalog, knowledge base, and the append-only
// transcript. Exactly one CallSession exists per call; the orchestrator owns
// it and passes it by reference to every tool handler.
//
// Transcript appends and catalog loads are mutex-guarded so that tool
// execution and transcript-event handlers may run on different goroutines.
type CallSession struct {
	ID            string
	CallerPhone   string
	DialedNumber  string
	TwilioCallSID string
	RoomName      string

	backend *backend.Client
	log     *logger.Logger
	now     func() time.Time

	mu         sync.Mutex
	store      *backend.Store
	menu       menu.Catalog
	kb         []knowledge.Entry
	kbLoaded   bool
	transcript []backend.TranscriptMessage
	lastStamp  time.Time
	saved      bool
	ended      bool

	startTime time.Time
}

// New creates the session for a connected call. The participant's telephony
// attributes may be partially or wholly absent.
func New(client *backend.Client, participant telephony.Participant, roomName string) *CallSession {
	return &CallSession{
		ID:            uuid.NewString(),
		CallerPhone:   telephony.NormalizeE164(participant.CallerNumber),
		DialedNumber:  telephony.NormalizeE164(participant.DialedNumber),
		TwilioCallSID: participant.TwilioCallSID,
		RoomName:      roomName,
		backend:       client,
		log:           logger.WithPrefix("session"),
		now:           time.Now,
		menu:          menu.Catalog{},
		startTime:     time.Now(),
	}
}

// SetClock overrides the session clock. Test hook.
func (s *CallSession) SetClock(now func() time.Time) {
	s.now = now
	s.startTime = now()
}

// SetStore records the resolved store
func (s *CallSession) SetStore(store *backend.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
}

// Store returns the resolved store, or nil when resolution failed
func (s *CallSession) Store() *backend.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// StoreID returns the resolved store id, or "" when no store is known
func (s *CallSession) StoreID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return ""
	}
	return s.store.ID
}

// StoreName returns the spoken store name, with a generic fallback
func (s *CallSession) StoreName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil || s.store.Name == "" {
		return DefaultStoreName
	}
	return s.store.Name
}

// Prefetch races the three independent backend fetches (menu, knowledge
// base, store details) concurrently. Each failure is isolated: one failing
// fetch neither blocks nor fails the others, it only leaves that data for a
// lazy load later.
func (s *CallSession) Prefetch(ctx context.Context) {
	storeID := s.StoreID()
	if storeID == "" {
		s.log.Warn("No store id - skipping prefetch")
		return
	}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		catalog, err := s.backend.GetMenu(ctx, storeID)
		if err != nil {
			s.log.Error("Menu prefetch failed: %v", err)
			return
		}
		s.mu.Lock()
		s.menu = catalog
		s.mu.Unlock()
		s.log.Info("Menu prefetched: %d categories", len(catalog))
	}()

	go func() {
		defer wg.Done()
		entries, err := s.backend.GetKnowledgeBase(ctx, storeID)
		if err != nil {
			s.log.Error("Knowledge base prefetch failed: %v", err)
			return
		}
		s.mu.Lock()
		s.kb = entries
		s.kbLoaded = true
		s.mu.Unlock()
		s.log.Info("Knowledge base prefetched: %d entries", len(entries))
	}()

	go func() {
		defer wg.Done()
		store, err := s.backend.GetStore(ctx, storeID)
		if err != nil {
			s.log.Error("Store detail prefetch failed: %v", err)
			return
		}
		s.mu.Lock()
		s.store = store
		s.mu.Unlock()
	}()

	wg.Wait()
}

// Menu returns the catalog loaded so far, which may be empty
func (s *CallSession) Menu() menu.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menu
}

// EnsureMenu returns the menu catalog, lazily loading it when the prefetch
// has not delivered one. This is both the fallback for prefetch failure and
// the guarantee that no tool operates on a catalog that never loaded.
func (s *CallSession) EnsureMenu(ctx context.Context) menu.Catalog {
	s.mu.Lock()
	if !s.menu.Empty() {
		defer s.mu.Unlock()
		return s.menu
	}
	storeID := ""
	if s.store != nil {
		storeID = s.store.ID
	}
	s.mu.Unlock()

	if storeID == "" {
		return menu.Catalog{}
	}

	catalog, err := s.backend.GetMenu(ctx, storeID)
	if err != nil {
		return menu.Catalog{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.menu.Empty() {
		s.menu = catalog
	}
	return s.menu
}

// EnsureKnowledge returns the knowledge base, lazily loading it when absent
func (s *CallSession) EnsureKnowledge(ctx context.Context) []knowledge.Entry {
	s.mu.Lock()
	if s.kbLoaded {
		defer s.mu.Unlock()
		return s.kb
	}
	storeID := ""
	if s.store != nil {
		storeID = s.store.ID
	}
	s.mu.Unlock()

	if storeID == "" {
		return nil
	}

	entries, err := s.backend.GetKnowledgeBase(ctx, storeID)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.kbLoaded {
		s.kb = entries
		s.kbLoaded = true
	}
	return s.kb
}

// EnsureStoreDetails refreshes the store record when the transfer or
// notification phone has not been loaded yet
func (s *CallSession) EnsureStoreDetails(ctx context.Context) *backend.Store {
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()

	if store == nil || store.ID == "" {
		return store
	}
	if store.TransferPhone != "" || store.NotificationPhone != "" {
		return store
	}

	fresh, err := s.backend.GetStore(ctx, store.ID)
	if err != nil {
		return store
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = fresh
	return s.store
}

// AppendCustomer records a finalized caller transcription. Interim
// transcriptions must not reach here: the orchestrator logs them for
// observability and drops them, preventing duplicate persisted entries.
func (s *CallSession) AppendCustomer(text string) {
	s.append(RoleCustomer, text)
}

// AppendAgent records an assistant-authored text output
func (s *CallSession) AppendAgent(text string) {
	s.append(RoleAgent, text)
}

func (s *CallSession) append(role, content string) {
	if content == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Timestamps are monotonically non-decreasing even if the wall clock
	// steps backwards
	stamp := s.now().UTC()
	if stamp.Before(s.lastStamp) {
		stamp = s.lastStamp
	}
	s.lastStamp = stamp

	s.transcript = append(s.transcript, backend.TranscriptMessage{
		Role:      role,
		Content:   content,
		Timestamp: stamp.Format(time.RFC3339Nano),
	})
}

// Transcript returns a snapshot of the transcript so far
func (s *CallSession) Transcript() []backend.TranscriptMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.TranscriptMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Duration returns the call duration in whole seconds
func (s *CallSession) Duration() int {
	return int(s.now().Sub(s.startTime).Seconds())
}

// End marks the call inactive. After End no new dialogue should be
// generated; pending backend work may still finish and log.
func (s *CallSession) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
}

// Active reports whether the call is still live
func (s *CallSession) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.ended
}

// SaveConversation persists the transcript exactly once. The attempt is
// latched before the network call: a backend failure is reported but never
// retried, and later calls return ErrAlreadySaved.
func (s *CallSession) SaveConversation(ctx context.Context, analysis map[string]interface{}) error {
	s.mu.Lock()
	if s.saved {
		s.mu.Unlock()
		return ErrAlreadySaved
	}
	if len(s.transcript) == 0 {
		s.mu.Unlock()
		return ErrNoTranscript
	}
	storeID := ""
	if s.store != nil {
		storeID = s.store.ID
	}
	if storeID == "" || s.CallerPhone == "" {
		s.mu.Unlock()
		return ErrMissingData
	}
	s.saved = true
	messages := make([]backend.TranscriptMessage, len(s.transcript))
	copy(messages, s.transcript)
	s.mu.Unlock()

	record := backend.ConversationRecord{
		StoreID:       storeID,
		CustomerPhone: s.CallerPhone,
		Transcript:    backend.TranscriptPayload{Messages: messages},
		Duration:      s.Duration(),
		CallStatus:    "completed",
		AIAnalysis:    analysis,
	}

	s.log.Info("Saving conversation: %d messages, %ds", len(messages), record.Duration)
	return s.backend.SaveConversation(ctx, record)
}

// Backend exposes the session's backend client to tool handlers
func (s *CallSession) Backend() *backend.Client {
	return s.backend
}
