package identity

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	// FindByID finds a profile by ID; returns nil, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// CreateIfAbsent inserts the profile unless a row with the same ID exists.
	// It never fails because of a concurrent insert of the same ID.
	CreateIfAbsent(ctx context.Context, profile *Profile) error

	// FindByIDs returns the profiles with the given IDs keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Profile, error)
}
