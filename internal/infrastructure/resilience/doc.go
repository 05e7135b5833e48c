/*
Package resilience provides a small circuit breaker for calls to optional
upstreams, such as the UI development server.

	breaker := resilience.New("dev-server", resilience.Settings{
		Threshold: 3,
		Cooldown:  5 * time.Second,
	})

	resp, err := resilience.Do(breaker, func() (*resty.Response, error) {
		return req.Get(url)
	})
	if errors.Is(err, resilience.ErrOpen) {
		// upstream is considered down; fail fast
	}

States:

	Closed --[Threshold failures]--> Open --[Cooldown]--> Half-Open
	Half-Open --[probe ok]--> Closed
	Half-Open --[probe fails]--> Open
*/
package resilience
