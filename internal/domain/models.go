package domain

import "time"

// Message is a single transcript entry. Messages are immutable once created
// and append-only within a session.
type Message struct {
	MessageID string    `json:"message_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionLimits tracks per-identity daily usage. Mutated by the controller on
// every sent message and on session completion or reset.
type SessionLimits struct {
	MorningCompleted   bool       `json:"morning_completed"`
	EveningCompleted   bool       `json:"evening_completed"`
	MessagesUsed       int        `json:"messages_used"`
	MaxMessages        int        `json:"max_messages"`
	LastMorningSession *time.Time `json:"last_morning_session,omitempty"`
	LastEveningSession *time.Time `json:"last_evening_session,omitempty"`
}

// ActiveSession is the controller-owned record for the one in-progress
// session. Generation increases on every reset; async completions carrying a
// stale generation are discarded. Archived guards against double archival
// across the new-session and insight paths.
type ActiveSession struct {
	SessionID     string      `json:"session_id"`
	UserID        string      `json:"user_id"`
	Type          SessionType `json:"type"`
	Scene         SceneType   `json:"scene"`
	Greeting      string      `json:"greeting"`
	StartedAt     time.Time   `json:"started_at"`
	Generation    int64       `json:"generation"`
	Archived      bool        `json:"archived"`
	Loading       bool        `json:"loading"`
	MessagesSince int         `json:"messages_since_insight"`
	OfferInsight  bool        `json:"offer_insight"`
}

// InsightCard is a generated reflection quote tied to one session. Immutable.
type InsightCard struct {
	CardID    string      `json:"card_id"`
	Quote     string      `json:"quote"`
	Type      SessionType `json:"type"`
	SessionID string      `json:"session_id"`
	CreatedAt time.Time   `json:"created_at"`
	SceneType SceneType   `json:"scene_type"`
	StillURL  string      `json:"still_url,omitempty"`
}

// ArchivedSession is a completed session snapshot. The greeting is never
// included in Messages. The archive list is capped; oldest entries are
// evicted first.
type ArchivedSession struct {
	SessionID     string        `json:"session_id"`
	Type          SessionType   `json:"type"`
	Messages      []Message     `json:"messages"`
	CreatedAt     time.Time     `json:"created_at"`
	SceneType     SceneType     `json:"scene_type"`
	MessageCount  int           `json:"message_count"`
	Duration      time.Duration `json:"duration"`
	InsightCardID string        `json:"insight_card_id,omitempty"`
}

// ArchiveCap is the maximum number of archived sessions retained per
// identity. The oldest entry is evicted when the cap is exceeded.
const ArchiveCap = 50

// SessionSummary is one row returned by the recent-sessions query, optionally
// embedding the linked insight.
type SessionSummary struct {
	SessionID   string      `json:"session_id"`
	Type        SessionType `json:"type"`
	SceneType   SceneType   `json:"scene_type"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Insight     *Insight    `json:"insight,omitempty"`
}

// Insight is the backend row created by session completion.
type Insight struct {
	InsightID string    `json:"insight_id"`
	SessionID string    `json:"session_id"`
	Quote     string    `json:"quote"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
}
