package events

import (
	"context"
)

// CacheEvictor returns a consumer handler that drops tag from a response
// cache whenever company or employee data changed on any instance.
func CacheEvictor(evict func(ctx context.Context, tag string) error, tag string) func(context.Context, Event) error {
	return func(ctx context.Context, event Event) error {
		switch event.Type {
		case CompanyCreated, CompanyUpdated, CompanyDeleted,
			EmployeeCreated, EmployeeUpdated, EmployeeDeleted:
			return evict(ctx, tag)
		}
		return nil
	}
}
