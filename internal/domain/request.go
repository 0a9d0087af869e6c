package domain

// Identity describes the acting caller. Guest identities are session-scoped
// and persisted in the ephemeral storage scope only.
type Identity struct {
	UserID     string `json:"user_id"`
	Guest      bool   `json:"guest"`
	Tier       Tier   `json:"tier"`
	Registered bool   `json:"registered"`
	Name       string `json:"name,omitempty"`
}

// StartSessionRequest starts (or auto-starts) a session for an identity.
type StartSessionRequest struct {
	Identity Identity    `json:"identity"`
	Type     SessionType `json:"type,omitempty"`
}

// SendMessageRequest appends one user message to the active session.
type SendMessageRequest struct {
	Identity Identity `json:"identity"`
	Content  string   `json:"content"`
}

// SendMessageResponse reports the transcript after a send attempt. Rejected
// is true when a gating precondition made the send a no-op.
type SendMessageResponse struct {
	State        ViewState `json:"state"`
	Messages     []Message `json:"messages"`
	MessagesUsed int       `json:"messages_used"`
	OfferInsight bool      `json:"offer_insight"`
	Rejected     bool      `json:"rejected,omitempty"`
}

// SessionView is the controller's rendering of current session state.
type SessionView struct {
	State        ViewState   `json:"state"`
	SessionID    string      `json:"session_id,omitempty"`
	Type         SessionType `json:"type,omitempty"`
	Scene        SceneType   `json:"scene,omitempty"`
	Greeting     string      `json:"greeting,omitempty"`
	Messages     []Message   `json:"messages"`
	MessagesUsed int         `json:"messages_used"`
	MaxMessages  int         `json:"max_messages"`
	OfferInsight bool        `json:"offer_insight"`
	NextSession  string      `json:"next_session,omitempty"`
}

// CompleteSessionResult mirrors the backend completion procedure's result.
type CompleteSessionResult struct {
	Success   bool   `json:"success"`
	InsightID string `json:"insight_id"`
	SessionID string `json:"session_id"`
}
