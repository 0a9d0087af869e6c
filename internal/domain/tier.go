package domain

import "time"

// UnlimitedMessages disables the per-session message cap.
const UnlimitedMessages = -1

// TierPolicy is the per-tier usage policy.
type TierPolicy struct {
	MaxMessages      int
	SessionTimeLimit time.Duration
}

// tierPolicies is the single place tier differences are defined.
var tierPolicies = map[Tier]TierPolicy{
	TierFree: {MaxMessages: 4, SessionTimeLimit: 15 * time.Minute},
	TierPro:  {MaxMessages: UnlimitedMessages, SessionTimeLimit: 60 * time.Minute},
}

// PolicyFor returns the usage policy for a tier. Unknown tiers get the free
// policy.
func PolicyFor(tier Tier) TierPolicy {
	if p, ok := tierPolicies[tier]; ok {
		return p
	}
	return tierPolicies[TierFree]
}
