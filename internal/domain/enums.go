// Package domain defines the core domain models for the wellbeing service.
package domain

// SessionType distinguishes the two daily session kinds.
type SessionType string

const (
	SessionMorning SessionType = "morning"
	SessionEvening SessionType = "evening"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Tier is the subscription level controlling message cap and time limit.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// ViewState is the lifecycle state of the active session.
type ViewState string

const (
	ViewIdle         ViewState = "idle"
	ViewActive       ViewState = "active"
	ViewLimitReached ViewState = "limit_reached"
	ViewExpired      ViewState = "expired"
)

// Period is the time-of-day bucket derived from wall-clock time.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
)
