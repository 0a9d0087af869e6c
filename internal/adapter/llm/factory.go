package llm

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// EnvSolunaMode is the environment variable name for mode selection.
	EnvSolunaMode = "SOLUNA_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewChatClient creates a chat client based on the SOLUNA_MODE environment
// variable. If SOLUNA_MODE=MOCK, returns a MockClient; otherwise a real
// Client.
func NewChatClient(baseURL, apiKey, model string, timeout time.Duration) ChatClient {
	if os.Getenv(EnvSolunaMode) == ModeMock {
		log.Info().Msg("SOLUNA_MODE=MOCK detected, using mock chat client")
		return NewMockClient()
	}
	return NewClient(baseURL, apiKey, model, timeout)
}
