package models

import "context"

// ChatProvider is the core interface for LLM chat-completion backends.
// Never call a specific provider directly — always inject this interface.
type ChatProvider interface {
	// Chat sends one completion request and returns the raw content of the
	// first choice. The content is free-form text that may or may not contain
	// the JSON the prompt asked for; callers are expected to parse defensively.
	Chat(ctx context.Context, req ChatRequest) (string, error)
	// Name returns the provider identifier (e.g., "openai", "mock").
	Name() string
}

// ChatMessage is a single message in a chat-completion conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries everything a provider needs for one completion call.
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
	// JSONResponse asks the provider for a response_format of json_object.
	JSONResponse bool
}
