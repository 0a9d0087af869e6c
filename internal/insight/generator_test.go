package insight

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/soluna-app/soluna/internal/adapter/llm"
	"github.com/soluna-app/soluna/internal/domain"
)

func TestGenerateRemotePath(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Reply = "Stillness is also progress."
	gen := NewGenerator(mock, rand.New(rand.NewSource(1)))

	quote, source := gen.Generate(context.Background(), []domain.Message{userMsg("hello")}, domain.SessionMorning)
	if source != SourceRemote {
		t.Fatalf("expected remote source, got %s", source)
	}
	if quote != "Stillness is also progress." {
		t.Fatalf("unexpected quote: %q", quote)
	}
}

func TestGenerateFallsBackOnRemoteFailure(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Err = errors.New("backend down")
	gen := NewGenerator(mock, rand.New(rand.NewSource(1)))

	quote, source := gen.Generate(context.Background(), []domain.Message{userMsg("so anxious about everything")}, domain.SessionEvening)
	if source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", source)
	}
	found := false
	for _, p := range quotePools[CategoryStress][domain.SessionEvening] {
		if p == quote {
			found = true
		}
	}
	if !found {
		t.Fatalf("quote %q not from the (stress, evening) pool", quote)
	}
}

func TestGenerateStripsQuoteMarks(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Reply = `  "Begin again, gently."  `
	gen := NewGenerator(mock, rand.New(rand.NewSource(1)))

	quote, _ := gen.Generate(context.Background(), []domain.Message{userMsg("hi")}, domain.SessionMorning)
	if quote != "Begin again, gently." {
		t.Fatalf("unexpected quote: %q", quote)
	}
}

func TestGenerateNilClientUsesFallback(t *testing.T) {
	gen := NewGenerator(nil, rand.New(rand.NewSource(1)))

	quote, source := gen.Generate(context.Background(), nil, domain.SessionMorning)
	if source != SourceFallback || quote == "" {
		t.Fatalf("expected local quote, got %q (%s)", quote, source)
	}
}
