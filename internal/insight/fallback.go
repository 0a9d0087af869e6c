package insight

import (
	"math/rand"
	"strings"

	"github.com/soluna-app/soluna/internal/domain"
)

// categoryKeywords is the classification decision table. Order is the match
// priority: stress first, then positive, then work; general is the fallthrough.
var categoryKeywords = []struct {
	category Category
	words    []string
}{
	{CategoryStress, []string{"stress", "stressed", "anxious", "anxiety", "overwhelm", "worried", "exhausted", "tired", "burnout"}},
	{CategoryPositive, []string{"grateful", "gratitude", "happy", "excited", "joy", "proud", "love", "wonderful"}},
	{CategoryWork, []string{"work", "job", "meeting", "deadline", "project", "boss", "colleague", "office"}},
}

// Classify buckets a transcript by keyword presence over the lower-cased
// concatenation of user-authored contents.
func Classify(messages []domain.Message) Category {
	var b strings.Builder
	for _, m := range messages {
		if m.Role != domain.RoleUser {
			continue
		}
		b.WriteString(strings.ToLower(m.Content))
		b.WriteByte(' ')
	}
	text := b.String()

	for _, group := range categoryKeywords {
		for _, w := range group.words {
			if strings.Contains(text, w) {
				return group.category
			}
		}
	}
	return CategoryGeneral
}

// FallbackQuote uniformly selects a quote for (category, type). It always
// returns a quote; unknown categories use the general pool. Deterministic
// under a fixed rng seed.
func FallbackQuote(rng *rand.Rand, category Category, t domain.SessionType) string {
	byType, ok := quotePools[category]
	if !ok {
		byType = quotePools[CategoryGeneral]
	}
	pool, ok := byType[t]
	if !ok || len(pool) == 0 {
		return StaticQuote(t)
	}
	return pool[rng.Intn(len(pool))]
}
