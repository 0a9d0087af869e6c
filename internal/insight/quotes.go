package insight

import "github.com/soluna-app/soluna/internal/domain"

// Category is the keyword bucket a conversation falls into.
type Category string

const (
	CategoryStress   Category = "stress"
	CategoryPositive Category = "positive"
	CategoryWork     Category = "work"
	CategoryGeneral  Category = "general"
)

// quotePools holds the local fallback quotes keyed by (category, session
// type). Every category has a non-empty pool for both types; general is the
// catch-all.
var quotePools = map[Category]map[domain.SessionType][]string{
	CategoryStress: {
		domain.SessionMorning: {
			"You don't have to carry today all at once. One breath, one step.",
			"Tension is a signal, not a sentence. Begin gently.",
			"Let the morning be wider than the worry.",
		},
		domain.SessionEvening: {
			"You made it through. Set the weight down for the night.",
			"Evening is permission to stop solving and start resting.",
			"What felt heavy today does not have to be carried into sleep.",
		},
	},
	CategoryPositive: {
		domain.SessionMorning: {
			"Carry this brightness with you; it is already yours.",
			"A good morning is a seed. Plant it on purpose.",
			"Joy noticed early tends to last the day.",
		},
		domain.SessionEvening: {
			"Gratitude at dusk doubles the day's good.",
			"Hold tonight's warmth; it is evidence, not accident.",
			"A day received with thanks ends twice as full.",
		},
	},
	CategoryWork: {
		domain.SessionMorning: {
			"Work is a place you visit, not a person you are.",
			"Choose the one thing that matters before the inbox chooses for you.",
			"Ambition travels further when it pauses to breathe.",
		},
		domain.SessionEvening: {
			"The desk will keep. You are allowed to leave it there.",
			"What you built today counts even where no one saw it.",
			"Close the laptop; the rest of you deserves the evening.",
		},
	},
	CategoryGeneral: {
		domain.SessionMorning: {
			"Begin where you are. That has always been enough.",
			"Today asks only for your attention, not your perfection.",
			"Small intentions, kept, become a life.",
		},
		domain.SessionEvening: {
			"Let the day be what it was. Tomorrow is unwritten.",
			"Reflection is how ordinary days become meaning.",
			"You showed up today. That is the whole assignment.",
		},
	},
}

// staticQuotes is the last-resort quote per session type, used when even the
// local fallback cannot run.
var staticQuotes = map[domain.SessionType]string{
	domain.SessionMorning: "Every morning is a fresh invitation to begin again.",
	domain.SessionEvening: "Each evening holds the quiet lessons of the day.",
}

// StaticQuote returns the hardcoded last-resort quote for a session type.
func StaticQuote(t domain.SessionType) string {
	if q, ok := staticQuotes[t]; ok {
		return q
	}
	return staticQuotes[domain.SessionEvening]
}
