package dialog

import "context"

// Message represents a message in the conversation
type Message struct {
	Role       string     // "system", "user", "assistant", "tool"
	Content    string
	ToolCalls  []ToolCall // For assistant messages with function calls
	ToolCallID string     // For tool response messages
}

// ToolCall represents a function call made by the dialogue manager
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"` // "function"
	Function FunctionCall `json:"function"`
}

// FunctionCall represents the function and its arguments
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string
}

// Tool represents an available tool/function
type Tool struct {
	Type     string       `json:"type"` // "function"
	Function ToolFunction `json:"function"`
}

// ToolFunction describes a function available to the dialogue manager
type ToolFunction struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  interface{} `json:"parameters"` // JSON schema
}

// Session is the opaque LLM-driven dialogue manager handling speech in and
// out of the call. The orchestrator starts it, feeds it instructions and
// tool definitions, and receives events through Handlers. The speech, LLM
// and media engines behind it are not this module's concern.
type Session interface {
	// Start begins the dialogue session for the call with its system
	// instructions and the tool schemas it may invoke
	Start(ctx context.Context, instructions string, tools []Tool) error

	// GenerateReply asks the dialogue manager to speak, optionally with
	// one-off instructions (e.g. the exact greeting to say)
	GenerateReply(ctx context.Context, instructions string) error

	// SetHandlers registers the event callbacks. Must be called before
	// Start.
	SetHandlers(handlers Handlers)

	// Close tears the session down; further events must not fire
	Close() error
}

// Handlers receives dialogue-manager events. All callbacks are invoked from
// the session's single event goroutine; implementations that fan out to
// other goroutines must synchronize their own state.
type Handlers struct {
	// OnTranscription fires for each caller speech transcription. Interim
	// (non-final) transcriptions are observability only.
	OnTranscription func(text string, isFinal bool)

	// OnItemAdded fires when a conversation item is committed, for both
	// roles. Only assistant-authored text should be persisted from here;
	// caller text arrives via OnTranscription.
	OnItemAdded func(role, text string)

	// OnToolCall dispatches a tool invocation and returns the speakable
	// result string
	OnToolCall func(name string, arguments string) string
}
