// Package insight produces the reflection quote for a completed session,
// preferring the remote backend and degrading to a local keyword-matched
// pool.
package insight

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/soluna-app/soluna/internal/adapter/llm"
	"github.com/soluna-app/soluna/internal/domain"
)

// Source reports which path produced a quote.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

const maxQuoteLen = 280

// Generator produces insight quotes. The remote path uses the chat client;
// any failure there falls to the local deterministic policy, which never
// fails.
type Generator struct {
	chat llm.ChatClient

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator. rng drives fallback selection and may be
// seeded for deterministic tests.
func NewGenerator(chat llm.ChatClient, rng *rand.Rand) *Generator {
	return &Generator{chat: chat, rng: rng}
}

// Generate returns a quote for the transcript. It never returns an empty
// quote: remote failure falls back to the keyword pool, and degenerate pool
// lookups fall back to the static per-type quote.
func (g *Generator) Generate(ctx context.Context, messages []domain.Message, t domain.SessionType) (string, Source) {
	if g.chat != nil {
		quote, err := g.remote(ctx, messages, t)
		if err == nil {
			return quote, SourceRemote
		}
		log.Warn().Err(err).Str("session_type", string(t)).Msg("remote insight failed, using local fallback")
	}

	category := Classify(messages)
	g.mu.Lock()
	quote := FallbackQuote(g.rng, category, t)
	g.mu.Unlock()
	return quote, SourceFallback
}

func (g *Generator) remote(ctx context.Context, messages []domain.Message, t domain.SessionType) (string, error) {
	prompt := []llm.ChatMessage{{
		Role: "system",
		Content: "You distill one short reflective quote (at most two sentences) from a " +
			string(t) + " wellbeing conversation. Reply with the quote only, no preamble.",
	}}
	for _, m := range messages {
		prompt = append(prompt, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	reply, err := g.chat.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	quote := strings.TrimSpace(strings.Trim(strings.TrimSpace(reply), `"`))
	if quote == "" {
		return "", errEmptyQuote
	}
	if len(quote) > maxQuoteLen {
		quote = quote[:maxQuoteLen]
	}
	return quote, nil
}

type insightErr string

func (e insightErr) Error() string { return string(e) }

const errEmptyQuote = insightErr("empty insight quote")
