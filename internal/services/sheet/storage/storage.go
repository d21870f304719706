// Package storage defines the persistence contracts for derived sheet
// projections.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
)

// ErrNotFound indicates a requested projection is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "projection not found")

// Projection is a cached derive result. Derived holds the JSON snapshot as
// produced by the pipeline; Bindings is the roll table at the same moment.
type Projection struct {
	ActorID      string
	Name         string
	Kind         string
	RulesVersion string
	Fingerprint  string
	Derived      []byte
	Bindings     map[string]float64
	UpdatedAt    time.Time
}

// ProjectionStore persists derived projections.
type ProjectionStore interface {
	// PutProjection inserts or replaces the projection for its actor.
	PutProjection(ctx context.Context, projection Projection) error
	// GetProjection returns ErrNotFound when no projection exists.
	GetProjection(ctx context.Context, actorID string) (Projection, error)
	// ListProjections returns every projection ordered by actor id.
	ListProjections(ctx context.Context) ([]Projection, error)
	// DeleteProjection returns ErrNotFound when no projection exists.
	DeleteProjection(ctx context.Context, actorID string) error
}
