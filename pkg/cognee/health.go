package cognee

import "context"

// Check returns the basic health document.
func (s HealthService) Check(ctx context.Context) (Value, error) {
	return s.Client.Get(ctx, "health")
}

// Detailed returns per-component health.
func (s HealthService) Detailed(ctx context.Context) (Value, error) {
	return s.Client.Get(ctx, "health/detailed")
}
