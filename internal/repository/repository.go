package repository

import (
	"context"

	"pivot/internal/domain"
)

// RouteRepository persists the route table as a whole.
// There is no per-route access: the table is read once at startup and
// rewritten in full after every mutation.
//
// Implementations are not required to be safe for concurrent use; the
// service serializes all calls behind its own lock.
type RouteRepository interface {
	// Load reads the complete table. A missing or malformed backing store is an error.
	Load(ctx context.Context) (domain.Routes, error)

	// Save replaces the stored table with routes.
	Save(ctx context.Context, routes domain.Routes) error
}
