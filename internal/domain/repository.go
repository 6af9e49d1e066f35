package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}

// AccountRepository persists full account snapshots. Save is the commit step
// of an order: it must store the snapshot and the newly appended transactions
// together, or fail without a partial write so the caller can roll back the
// in-memory state.
type AccountRepository interface {
	// Load retrieves the persisted snapshot for a user. Returns
	// ErrUserNotFound if no account state exists.
	Load(ctx context.Context, userID uuid.UUID) (*Snapshot, error)

	// Save persists a snapshot along with the transactions appended since the
	// previous save.
	Save(ctx context.Context, snap *Snapshot, appended []Transaction) error

	// CountTransactions returns the total number of transactions across all users
	CountTransactions(ctx context.Context) (int64, error)
}
