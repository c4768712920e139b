// Package schema makes store schema preparation lazy: it runs before the first
// repository call and is retried until it succeeds, so a store that was down
// at startup still gets its constraints before any write.
package schema

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/geotrail/location-log/internal/core/domain"
	"github.com/geotrail/location-log/internal/core/ports"
)

// Guarded wraps a ports.Store so every repository call first ensures the
// schema.
type Guarded struct {
	ports.Store

	mu    sync.Mutex
	ready atomic.Bool

	users     *guardedUsers
	locations *guardedLocations
}

func Guard(store ports.Store) *Guarded {
	g := &Guarded{Store: store}
	g.users = &guardedUsers{g: g, next: store.Users()}
	g.locations = &guardedLocations{g: g, next: store.Locations()}
	return g
}

// EnsureSchema runs the wrapped EnsureSchema until it first succeeds and is a
// no-op afterwards.
func (g *Guarded) EnsureSchema(ctx context.Context) error {
	if g.ready.Load() {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ready.Load() {
		return nil
	}
	if err := g.Store.EnsureSchema(ctx); err != nil {
		return err
	}
	g.ready.Store(true)
	return nil
}

// Ping also retries schema preparation, so the readiness check reports a
// store as ready only once its constraints exist.
func (g *Guarded) Ping(ctx context.Context) error {
	if err := g.Store.Ping(ctx); err != nil {
		return err
	}
	return g.EnsureSchema(ctx)
}

func (g *Guarded) Users() ports.UserRepository         { return g.users }
func (g *Guarded) Locations() ports.LocationRepository { return g.locations }

type guardedUsers struct {
	g    *Guarded
	next ports.UserRepository
}

func (r *guardedUsers) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.g.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return r.next.Create(ctx, user)
}

func (r *guardedUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := r.g.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return r.next.FindByEmail(ctx, email)
}

type guardedLocations struct {
	g    *Guarded
	next ports.LocationRepository
}

func (r *guardedLocations) Insert(ctx context.Context, loc *domain.Location) error {
	if err := r.g.EnsureSchema(ctx); err != nil {
		return err
	}
	return r.next.Insert(ctx, loc)
}

func (r *guardedLocations) List(ctx context.Context, f ports.LocationFilter) ([]domain.Location, error) {
	if err := r.g.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return r.next.List(ctx, f)
}
