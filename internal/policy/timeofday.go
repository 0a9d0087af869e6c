// Package policy holds the pure time/scene policies and the send-gate
// engine. Nothing here reads the wall clock or storage; callers pass "now".
package policy

import (
	"time"

	"github.com/soluna-app/soluna/internal/domain"
)

// DayInfo describes the current time-of-day bucket.
type DayInfo struct {
	Period          domain.Period
	Greeting        string
	ShouldAutoStart bool
}

// Period boundaries, local time: morning 05:00-11:59, afternoon 12:00-16:59,
// evening otherwise.
const (
	morningStartHour = 5
	afternoonHour    = 12
	eveningStartHour = 17
)

// TimeOfDay computes the period, a greeting, and whether a session should
// auto-start. Sessions auto-start in the morning and evening periods only.
func TimeOfDay(now time.Time, name string) DayInfo {
	suffix := ""
	if name != "" {
		suffix = ", " + name
	}

	hour := now.Hour()
	switch {
	case hour >= morningStartHour && hour < afternoonHour:
		return DayInfo{
			Period:          domain.PeriodMorning,
			Greeting:        "Good morning" + suffix + ". What intention would you like to set for today?",
			ShouldAutoStart: true,
		}
	case hour >= afternoonHour && hour < eveningStartHour:
		return DayInfo{
			Period:   domain.PeriodAfternoon,
			Greeting: "Good afternoon" + suffix + ". Your evening reflection opens at 5pm.",
		}
	default:
		return DayInfo{
			Period:          domain.PeriodEvening,
			Greeting:        "Good evening" + suffix + ". How did today feel, looking back?",
			ShouldAutoStart: true,
		}
	}
}

// SessionTypeFor maps a period to the session type it opens.
func SessionTypeFor(period domain.Period) domain.SessionType {
	if period == domain.PeriodMorning {
		return domain.SessionMorning
	}
	return domain.SessionEvening
}

// SessionTimeLimit returns the tier's session time limit.
func SessionTimeLimit(tier domain.Tier) time.Duration {
	return domain.PolicyFor(tier).SessionTimeLimit
}

// HasCompletedToday reports whether last falls on the same local calendar day
// as now. A timestamp across midnight is a different day even when it is less
// than 24 hours old.
func HasCompletedToday(now time.Time, last *time.Time) bool {
	if last == nil {
		return false
	}
	y1, m1, d1 := now.Date()
	y2, m2, d2 := last.In(now.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// NextAvailableSession returns the next boundary at which a new session type
// becomes available: 05:00 or 17:00 today, else 05:00 tomorrow.
func NextAvailableSession(now time.Time) time.Time {
	loc := now.Location()
	y, m, d := now.Date()
	morning := time.Date(y, m, d, morningStartHour, 0, 0, 0, loc)
	evening := time.Date(y, m, d, eveningStartHour, 0, 0, 0, loc)
	switch {
	case now.Before(morning):
		return morning
	case now.Before(evening):
		return evening
	default:
		return morning.AddDate(0, 0, 1)
	}
}
