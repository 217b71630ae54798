package server

import "context"

// HealthChecker reports whether a dependency can serve requests.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type HealthCheckFunc func(ctx context.Context) bool

func (f HealthCheckFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}
