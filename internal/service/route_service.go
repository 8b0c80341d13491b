package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pivot/internal/domain"
	"pivot/internal/metrics"
	"pivot/internal/repository"
)

// RouteService owns the in-memory route table and keeps it mirrored to the repository.
//
// Lifecycle: Load once at startup, then Lookup/List/Insert/Delete for the life of
// the process. There is no teardown; the table goes away with the process.
//
// Mutations hold the write lock across mutate + persist, so at most one writer
// touches the table or the backing file at any time. Readers only need the read lock.
type RouteService struct {
	repo repository.RouteRepository

	mu     sync.RWMutex
	routes domain.Routes
}

// NewRouteService creates a service with an empty table. Call Load before serving traffic.
func NewRouteService(repo repository.RouteRepository) *RouteService {
	return &RouteService{
		repo:   repo,
		routes: domain.Routes{},
	}
}

// Load replaces the in-memory table with the repository contents.
// Entries with an empty key or target make the table malformed. Target URL
// syntax is not rechecked here, so files written by older versions still load.
func (s *RouteService) Load(ctx context.Context) error {
	routes, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load routes: %w", err)
	}
	for key, target := range routes {
		if err := domain.NewRoute(key, target).ValidateFields(); err != nil {
			return fmt.Errorf("failed to load routes: entry %q: %w", key, err)
		}
	}

	s.mu.Lock()
	s.routes = routes
	s.mu.Unlock()

	metrics.SetRouteCount(len(routes))
	return nil
}

// Lookup returns the target URL for key.
func (s *RouteService) Lookup(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target, ok := s.routes[key]
	if !ok {
		return "", domain.ErrRouteNotFound
	}
	return target, nil
}

// List returns a snapshot of the whole table.
func (s *RouteService) List(ctx context.Context) domain.Routes {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.routes.Clone()
}

// Insert adds a new route and persists the table.
//
// Checks run in this order: both fields present (ErrInvalidPayload), key not
// taken (ErrRouteExists), target is a valid URL (ErrInvalidURL). Existing
// routes are never overwritten.
func (s *RouteService) Insert(ctx context.Context, key, target string) error {
	route := domain.NewRoute(key, target)
	if err := route.ValidateFields(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.routes[route.Key]; exists {
		return domain.ErrRouteExists
	}
	if err := route.ValidateTarget(); err != nil {
		return err
	}

	s.routes[route.Key] = route.Target
	if err := s.persist(ctx); err != nil {
		// Roll back so memory matches what is on disk
		delete(s.routes, route.Key)
		return fmt.Errorf("failed to create route %q: %w", route.Key, err)
	}

	metrics.RecordRouteCreated()
	metrics.SetRouteCount(len(s.routes))
	return nil
}

// Delete removes a route and persists the table.
func (s *RouteService) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.routes[key]
	if !ok {
		return domain.ErrRouteNotFound
	}

	delete(s.routes, key)
	if err := s.persist(ctx); err != nil {
		s.routes[key] = target
		return fmt.Errorf("failed to delete route %q: %w", key, err)
	}

	metrics.RecordRouteDeleted()
	metrics.SetRouteCount(len(s.routes))
	return nil
}

// persist writes the full table. Caller must hold the write lock.
func (s *RouteService) persist(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.PersistDuration.Observe(time.Since(start).Seconds())
	}()

	if err := s.repo.Save(ctx, s.routes); err != nil {
		metrics.RecordPersistError()
		return err
	}
	return nil
}
