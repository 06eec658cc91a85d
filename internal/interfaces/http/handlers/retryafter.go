package handlers

import "time"

// retryAfterSeconds rounds a retry interval up to whole seconds, with a
// floor of one so clients never receive Retry-After: 0.
func retryAfterSeconds(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
