// Package retry provides a bounded retry combinator for operations that can
// fail with retryable errors, such as transactions losing a write race.
package retry

import "fmt"

// Do runs fn up to attempts times. After each failure the retryable
// predicate decides whether another attempt is worthwhile; errors it
// rejects propagate immediately. When attempts are exhausted the last
// error is wrapped so callers can still inspect it.
func Do(attempts int, retryable func(error) bool, fn func() error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
