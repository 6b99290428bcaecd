/*
Package resilience provides a circuit breaker for remote dependencies that
app collaborators touch during Init, such as the media player API.

# Usage

	breaker := resilience.New("media-api", resilience.Settings{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})

	err := breaker.Do(ctx, func(ctx context.Context) error {
		return client.Load(ctx)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                          Open

The clock is injectable so tests advance time with clockwork's fake clock.
*/
package resilience
