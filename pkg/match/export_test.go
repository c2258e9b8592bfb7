package match

import "time"

// SetRetryBackoff shrinks the retry backoff for tests. The returned func
// restores the previous value.
func SetRetryBackoff(d time.Duration) (restore func()) {
	prev := retryBackoff
	retryBackoff = d
	return func() { retryBackoff = prev }
}
