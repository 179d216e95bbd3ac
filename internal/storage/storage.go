// Package storage persists world saves. The simulation core never
// calls it; the driver snapshots a world and hands the save here.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/world-engine/internal/sim"
)

// Storage defines the interface for world save persistence.
type Storage interface {
	// Ping tests the backing connection.
	Ping(ctx context.Context) error

	// Close closes the backing connection.
	Close() error

	// SaveWorld stores a save under its id.
	SaveWorld(ctx context.Context, save sim.Save) error

	// LoadWorld retrieves a save by id. Returns nil if it doesn't
	// exist; a missing save is not an error.
	LoadWorld(ctx context.Context, id uuid.UUID) (*sim.Save, error)

	// DeleteWorld removes a save by id.
	DeleteWorld(ctx context.Context, id uuid.UUID) error

	// ListWorlds returns the ids of every stored save.
	ListWorlds(ctx context.Context) ([]uuid.UUID, error)
}
