package memory

import (
	"context"
	"sync"

	"github.com/sheikh-saqib/simple-ledger/internal/interfaces"
	"github.com/sheikh-saqib/simple-ledger/internal/models"
	"github.com/sheikh-saqib/simple-ledger/internal/storage"
)

// MemorySnapshotStore keeps the last saved snapshot in memory.
// It is safe for concurrent use.
type MemorySnapshotStore struct {
	mu       sync.Mutex       // protects saved and accounts
	saved    bool             // false until the first SaveAccounts, so Load can report "not found"
	accounts []models.Account // the last saved snapshot
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

// SaveAccounts replaces the stored snapshot with a copy of accounts.
func (m *MemorySnapshotStore) SaveAccounts(ctx context.Context, accounts []models.Account) error {
	m.mu.Lock()         // lock to prevent concurrent saves and loads
	defer m.mu.Unlock() // unlock automatically when function exits

	// copy so later changes to the caller's slice do not leak in
	m.accounts = make([]models.Account, len(accounts))
	copy(m.accounts, accounts)
	m.saved = true // the previous snapshot is fully replaced, never merged
	return nil
}

// LoadAccounts returns a copy of the stored snapshot, or ErrSourceNotFound
// if nothing was ever saved.
func (m *MemorySnapshotStore) LoadAccounts(ctx context.Context) ([]models.Account, error) {
	m.mu.Lock()         // lock to prevent a concurrent save while reading
	defer m.mu.Unlock() // unlock automatically at the end

	// nothing saved yet is the in-memory version of a missing file
	if !m.saved {
		return nil, storage.ErrSourceNotFound
	}

	// return a copy so the caller can't modify the stored snapshot
	copied := make([]models.Account, len(m.accounts))
	copy(copied, m.accounts)
	return copied, nil
}

var _ interfaces.SnapshotStore = (*MemorySnapshotStore)(nil)
