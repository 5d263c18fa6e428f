// Package delivery defines the entry points that expose the use cases to callers.
package delivery

import "context"

// Delivery is a long-running transport that serves the use cases until it is stopped.
type Delivery interface {
	Serve(ctx context.Context) error
}
