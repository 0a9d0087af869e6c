package policy

import (
	"testing"
	"time"

	"github.com/soluna-app/soluna/internal/domain"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.Local)
}

func TestTimeOfDayPeriods(t *testing.T) {
	cases := []struct {
		hour      int
		period    domain.Period
		autoStart bool
	}{
		{5, domain.PeriodMorning, true},
		{11, domain.PeriodMorning, true},
		{12, domain.PeriodAfternoon, false},
		{16, domain.PeriodAfternoon, false},
		{17, domain.PeriodEvening, true},
		{23, domain.PeriodEvening, true},
		{2, domain.PeriodEvening, true},
	}
	for _, tc := range cases {
		info := TimeOfDay(at(tc.hour, 0), "")
		if info.Period != tc.period {
			t.Errorf("hour %d: expected period %s, got %s", tc.hour, tc.period, info.Period)
		}
		if info.ShouldAutoStart != tc.autoStart {
			t.Errorf("hour %d: expected autoStart=%v", tc.hour, tc.autoStart)
		}
		if info.Greeting == "" {
			t.Errorf("hour %d: empty greeting", tc.hour)
		}
	}
}

func TestTimeOfDayGreetingUsesName(t *testing.T) {
	info := TimeOfDay(at(8, 0), "Ada")
	if want := "Good morning, Ada"; len(info.Greeting) < len(want) || info.Greeting[:len(want)] != want {
		t.Fatalf("unexpected greeting: %q", info.Greeting)
	}
}

func TestHasCompletedToday(t *testing.T) {
	now := at(0, 10)

	same := at(0, 5)
	if !HasCompletedToday(now, &same) {
		t.Fatal("same calendar day should count as completed")
	}

	// Less than 24h ago but across midnight.
	yesterday := now.Add(-30 * time.Minute)
	if HasCompletedToday(now, &yesterday) {
		t.Fatal("timestamp before midnight must not count as today")
	}

	if HasCompletedToday(now, nil) {
		t.Fatal("nil timestamp must not count as completed")
	}

	exactly24h := now.Add(-24 * time.Hour)
	if HasCompletedToday(now, &exactly24h) {
		t.Fatal("24h prior crosses midnight and must not count")
	}
}

func TestNextAvailableSession(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{at(3, 0), at(5, 0)},
		{at(8, 0), at(17, 0)},
		{at(16, 59), at(17, 0)},
		{at(22, 0), at(5, 0).AddDate(0, 0, 1)},
	}
	for _, tc := range cases {
		if got := NextAvailableSession(tc.now); !got.Equal(tc.want) {
			t.Errorf("now=%v: expected %v, got %v", tc.now, tc.want, got)
		}
	}
}

func TestSessionTimeLimit(t *testing.T) {
	if SessionTimeLimit(domain.TierFree) >= SessionTimeLimit(domain.TierPro) {
		t.Fatal("free limit should be shorter than pro")
	}
}
