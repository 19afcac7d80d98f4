// Package resilience provides a circuit breaker for remote dependencies.
//
// States:
//   - Closed: calls pass through, consecutive failures are counted
//   - Open: calls fail with ErrCircuitOpen until the cooldown passes
//   - Half-open: one probe call decides between closed and open
//
// Example Usage:
//
//	breaker := resilience.New("s3", resilience.Settings{Failures: 3, Cooldown: 30 * time.Second})
//	err := breaker.Do(func() error {
//		return client.Put(ctx, key, value)
//	})
package resilience
