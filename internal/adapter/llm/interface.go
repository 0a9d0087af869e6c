// Package llm provides an abstraction for the chat completion backend.
package llm

import "context"

// ChatMessage is one turn of the conversation sent to the backend.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatClient defines the operations the service needs from the backend.
type ChatClient interface {
	// Complete sends the transcript and returns the assistant reply text.
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// Ensure Client implements ChatClient.
var _ ChatClient = (*Client)(nil)
var _ ChatClient = (*MockClient)(nil)
