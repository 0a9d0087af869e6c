package llm

import (
	"context"
	"strings"
)

// MockClient is a mock implementation of ChatClient for testing and local
// development without a backend.
type MockClient struct {
	// Err, when set, is returned from every call.
	Err error
	// Reply, when set, overrides the generated response.
	Reply string
	// Calls counts Complete invocations.
	Calls int
}

// NewMockClient creates a new mock chat client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Complete returns a canned reply echoing the last user message.
func (m *MockClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}

	last := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			last = messages[i].Content
			break
		}
	}
	if last == "" {
		return "I'm here whenever you want to talk.", nil
	}
	return "Thank you for sharing that. What stands out most to you about " +
		strings.ToLower(firstWords(last, 6)) + "?", nil
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
