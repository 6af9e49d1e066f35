package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"papertrade/internal/domain"
)

// MemoryStore is an in-memory backing store for user and account data. It
// serves DATABASE_URL-less development runs and tests; snapshots are
// deep-copied on both save and load so callers never share state with the
// store.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]*domain.User
	usernames map[string]uuid.UUID
	snapshots map[uuid.UUID]*domain.Snapshot
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[uuid.UUID]*domain.User),
		usernames: make(map[string]uuid.UUID),
		snapshots: make(map[uuid.UUID]*domain.Snapshot),
	}
}

// Users returns the store's UserRepository view
func (s *MemoryStore) Users() domain.UserRepository {
	return &memoryUserRepo{s: s}
}

// Accounts returns the store's AccountRepository view
func (s *MemoryStore) Accounts() domain.AccountRepository {
	return &memoryAccountRepo{s: s}
}

type memoryUserRepo struct{ s *MemoryStore }

func (r *memoryUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// usernames are unique, matching the database constraint
	if _, ok := r.s.usernames[user.Username]; ok {
		return domain.ErrUsernameTaken
	}

	u := *user
	r.s.users[u.ID] = &u
	r.s.usernames[u.Username] = u.ID
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *user
	if snap, ok := r.s.snapshots[id]; ok {
		u.Balance = snap.Balance
	}
	return &u, nil
}

func (r *memoryUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.usernames[username]
	r.s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *memoryUserRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}

type memoryAccountRepo struct{ s *MemoryStore }

func (r *memoryAccountRepo) Load(ctx context.Context, userID uuid.UUID) (*domain.Snapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	snap, ok := r.s.snapshots[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copySnapshot(snap), nil
}

func (r *memoryAccountRepo) Save(ctx context.Context, snap *domain.Snapshot, appended []domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.snapshots[snap.UserID] = copySnapshot(snap)
	return nil
}

func (r *memoryAccountRepo) CountTransactions(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, snap := range r.s.snapshots {
		count += int64(len(snap.Transactions))
	}
	return count, nil
}

func copySnapshot(snap *domain.Snapshot) *domain.Snapshot {
	out := &domain.Snapshot{
		UserID:       snap.UserID,
		Balance:      snap.Balance,
		Positions:    make([]domain.Position, len(snap.Positions)),
		Transactions: make([]domain.Transaction, len(snap.Transactions)),
	}
	copy(out.Positions, snap.Positions)
	copy(out.Transactions, snap.Transactions)
	return out
}
