package services

import "time"

// LockoutDuration maps the cumulative failed-login count, after the current
// failure has been recorded, to how long the account stays locked.
// Progressive schedule, capped at 3 hours:
//
//	1-4   no lock
//	5-7   5 minutes
//	8-9   10 minutes
//	10-11 30 minutes
//	12-14 1 hour
//	15+   3 hours
func LockoutDuration(attempts int) time.Duration {
	switch {
	case attempts < 5:
		return 0
	case attempts < 8:
		return 5 * time.Minute
	case attempts < 10:
		return 10 * time.Minute
	case attempts < 12:
		return 30 * time.Minute
	case attempts < 15:
		return 60 * time.Minute
	default:
		return 180 * time.Minute
	}
}
