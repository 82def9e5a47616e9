// Package perception is the LLM boundary: the client interface, the
// Gemini wire types, and the REST client implementation. Everything
// above this package works with ConversationTurn and LLMToolResponse
// and never sees provider-specific payloads.
package perception

import "context"

// LLMClient defines the interface for LLM providers.
type LLMClient interface {
	// Complete sends a single prompt with no system instruction.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteWithSystem sends a single prompt under a system
	// instruction. Used for out-of-band requests (glossary lookups)
	// that carry no conversation history.
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// CompleteConversation sends the full ordered turn history under a
	// system instruction, declaring the given tools as side-channel
	// capabilities. The last turn must be the new user message. Exactly
	// one network exchange; on error no partial result is returned.
	CompleteConversation(ctx context.Context, systemPrompt string, turns []ConversationTurn, tools []ToolDefinition) (*LLMToolResponse, error)
}

// ConversationTurn is one prior message in provider-neutral form.
type ConversationTurn struct {
	Role string // "user" or "model"
	Text string
}

// ToolDefinition describes a side-channel capability the model may
// invoke alongside or instead of free text.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// ToolCall represents a tool invocation requested by the model.
type ToolCall struct {
	ID    string                 `json:"id"`
	Name  string                 `json:"name"`
	Input map[string]interface{} `json:"input"`
}

// LLMToolResponse contains both the text response and any tool calls.
type LLMToolResponse struct {
	Text       string     `json:"text"`
	ToolCalls  []ToolCall `json:"tool_calls"`
	StopReason string     `json:"stop_reason"`
}
