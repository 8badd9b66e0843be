package csvfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sheikh-saqib/simple-ledger/internal/interfaces"
	"github.com/sheikh-saqib/simple-ledger/internal/models"
	"github.com/sheikh-saqib/simple-ledger/internal/storage"
)

const DefaultFile = "accounts.csv"

// Store persists a snapshot as a comma-separated file at Path.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultFile
	}
	return &Store{Path: path}
}

// SaveAccounts writes to a temporary file next to Path and renames it into
// place, so a failed save leaves the previous file intact.
func (s *Store) SaveAccounts(ctx context.Context, accounts []models.Account) error {
	tmp := s.Path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := Encode(w, accounts); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, s.Path)
}

func (s *Store) LoadAccounts(ctx context.Context) ([]models.Account, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.Path, storage.ErrSourceNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(bufio.NewReader(f))
}

var _ interfaces.SnapshotStore = (*Store)(nil)
