// Package expiry holds the skill-expiry date math shared by the ledger
// and the assessment application. It is stateless; callers pass the
// policy values in.
package expiry

import "time"

// DateFrom computes the expiry date months from base. It returns nil
// when expiry tracking is disabled.
func DateFrom(base time.Time, months int, enabled bool) *time.Time {
	if !enabled {
		return nil
	}
	d := base.AddDate(0, months, 0)
	return &d
}

// IsExpired reports whether expiresOn has passed. Always false when
// expiry tracking is disabled or no date is set.
func IsExpired(expiresOn *time.Time, now time.Time, enabled bool) bool {
	if !enabled || expiresOn == nil {
		return false
	}
	return expiresOn.Before(now)
}
