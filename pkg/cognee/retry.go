package cognee

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBackoffBase is the delay before the first retry. Each further retry
// doubles it: 1s, 2s, 4s, ...
const DefaultBackoffBase = time.Second

// maxBackoffShift keeps base<<shift inside time.Duration for large retry budgets.
const maxBackoffShift = 30

func exponentialBackoff(base time.Duration) func(attemptIndex int) time.Duration {
	return func(attemptIndex int) time.Duration {
		if attemptIndex < 0 {
			attemptIndex = 0
		}
		if attemptIndex > maxBackoffShift {
			attemptIndex = maxBackoffShift
		}
		return base << attemptIndex
	}
}

// shouldRetryStatus reports whether a response status is worth another attempt.
func shouldRetryStatus(status int) bool {
	return status >= http.StatusInternalServerError || status == http.StatusTooManyRequests
}

// sleepWithContext sleeps for the given duration or returns early if the context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var sensitiveParams = []string{
	"api_key",
	"apikey",
	"token",
	"password",
	"auth",
	"secret",
	"key",
	"credential",
}

// sanitizeURL redacts credential-looking query parameters before a URL is logged.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	changed := false
	for param := range q {
		lower := strings.ToLower(param)
		for _, sensitive := range sensitiveParams {
			if strings.Contains(lower, sensitive) {
				q.Set(param, "[REDACTED]")
				changed = true
				break
			}
		}
	}
	if !changed {
		return raw
	}
	safe := *u
	safe.RawQuery = q.Encode()
	return safe.String()
}
