package audit

import "time"

// Policy tunes the suspicion heuristics.
type Policy struct {
	RapidAccessCount  int
	RapidAccessWindow time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		RapidAccessCount:  5,
		RapidAccessWindow: 60 * time.Second,
	}
}

// Rule inspects a pending entry against the user's recent history. Rules
// run in order; a later match overwrites the reason of an earlier one.
type Rule interface {
	Evaluate(e Entry, recent []Entry, now time.Time) (bool, string)
}

type rapidAccessRule struct {
	policy Policy
}

// Evaluate flags the entry when the user already made RapidAccessCount or
// more accesses inside the window, so the count-plus-one access trips it.
func (r rapidAccessRule) Evaluate(e Entry, recent []Entry, now time.Time) (bool, string) {
	cutoff := now.Add(-r.policy.RapidAccessWindow)
	count := 0
	for _, prev := range recent {
		if !prev.AccessedAt.Before(cutoff) {
			count++
		}
	}
	if count >= r.policy.RapidAccessCount {
		return true, "Multiple rapid accesses detected"
	}
	return false, ""
}

type untrustedDeviceRule struct{}

// Evaluate flags access from a device that identifies itself but is not
// registered as trusted. Entries without a device id are not judged.
func (untrustedDeviceRule) Evaluate(e Entry, _ []Entry, _ time.Time) (bool, string) {
	if e.DeviceInfo == nil || e.DeviceInfo.DeviceID == "" {
		return false, ""
	}
	if e.IsFromTrustedDevice {
		return false, ""
	}
	return true, "Access from new/untrusted device"
}

func defaultRules(policy Policy) []Rule {
	return []Rule{
		rapidAccessRule{policy: policy},
		untrustedDeviceRule{},
	}
}
