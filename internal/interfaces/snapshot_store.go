package interfaces

import (
	"context"

	"github.com/sheikh-saqib/simple-ledger/internal/models"
)

// SnapshotStore is a destination for Ledger.Save and a source for Ledger.Load.
// SaveAccounts replaces whatever the store held before; it never merges.
type SnapshotStore interface {
	SaveAccounts(ctx context.Context, accounts []models.Account) error
	LoadAccounts(ctx context.Context) ([]models.Account, error)
}
