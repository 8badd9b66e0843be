package ledger

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/sheikh-saqib/simple-ledger/internal/interfaces"
	"github.com/sheikh-saqib/simple-ledger/internal/models"
	"github.com/sheikh-saqib/simple-ledger/internal/storage"
	"github.com/shopspring/decimal"
)

// Ledger owns every Account and enforces the invariants that span accounts:
// unique ids and all-or-nothing transfers.
//
// mu guards the accounts map itself. Balance changes hold mu for reading plus
// the per-account lock of every account they touch; operations that replace
// the map or need a consistent view of all balances hold mu exclusively.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]*Account

	muMap map[string]*sync.Mutex // per-account locks
	mapMu sync.Mutex             // protects muMap
}

func New() *Ledger {
	return &Ledger{
		accounts: make(map[string]*Account),
		muMap:    make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) getAccountLock(accountID string) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[accountID]; !exists {
		l.muMap[accountID] = &sync.Mutex{}
	}
	return l.muMap[accountID]
}

// CreateAccount registers a new account. Nothing is registered on failure.
func (l *Ledger) CreateAccount(id, owner string, initial decimal.Decimal) (models.Account, error) {
	// whitespace-only values are accepted; only truly empty ones are not
	if id == "" || owner == "" {
		return models.Account{}, &Error{Kind: KindInvalidArgument, Msg: msgInvalidArgument}
	}
	// a CR cannot survive the comma-separated format, which folds CRLF to LF
	if strings.ContainsRune(id, '\r') || strings.ContainsRune(owner, '\r') {
		return models.Account{}, &Error{Kind: KindInvalidArgument, Msg: msgCarriageReturn}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.accounts[id]; exists {
		return models.Account{}, newError(KindDuplicateID, nil, "account id %q already exists", id)
	}
	if initial.IsNegative() {
		return models.Account{}, &Error{Kind: KindNegativeInitialBalance, Msg: msgNegativeInitialBalance}
	}

	a := NewAccount(id, owner, initial)
	l.accounts[id] = a
	return a.Snapshot(), nil
}

// GetAccount returns a copy of the account, or false when id is unknown.
func (l *Ledger) GetAccount(id string) (models.Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[id]
	if !ok {
		return models.Account{}, false
	}

	lock := l.getAccountLock(id)
	lock.Lock()
	defer lock.Unlock()
	return a.Snapshot(), true
}

// ListAccounts returns copies of all accounts, sorted by id.
func (l *Ledger) ListAccounts() []models.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.accounts)
}

func (l *Ledger) snapshotLocked() []models.Account {
	out := make([]models.Account, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, a.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (l *Ledger) Deposit(id string, amount decimal.Decimal) (models.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[id]
	if !ok {
		return models.Account{}, notFound(id)
	}
	if !amount.IsPositive() {
		return models.Account{}, errInvalidAmount()
	}

	lock := l.getAccountLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := a.Deposit(amount); err != nil {
		return models.Account{}, newError(KindInternal, err, "deposit into %q failed", id)
	}
	return a.Snapshot(), nil
}

func (l *Ledger) Withdraw(id string, amount decimal.Decimal) (models.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[id]
	if !ok {
		return models.Account{}, notFound(id)
	}
	if !amount.IsPositive() {
		return models.Account{}, errInvalidAmount()
	}

	lock := l.getAccountLock(id)
	lock.Lock()
	defer lock.Unlock()

	if amount.GreaterThan(a.Balance()) {
		return models.Account{}, errInsufficientFunds()
	}
	if err := a.Withdraw(amount); err != nil {
		return models.Account{}, newError(KindInternal, err, "withdrawal from %q failed", id)
	}
	return a.Snapshot(), nil
}

// Transfer moves amount from one account to another. Either both balances
// change or neither does, and their sum is unchanged.
func (l *Ledger) Transfer(fromID, toID string, amount decimal.Decimal) (from, to models.Account, err error) {
	// A transfer needs two distinct accounts
	if fromID == toID {
		return from, to, &Error{Kind: KindSameAccount, Msg: msgSameAccount}
	}

	// Hold the map for reading so Load cannot swap it mid-transfer
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Source is checked before destination
	source, ok := l.accounts[fromID]
	if !ok {
		return from, to, newError(KindNotFound, nil, "source account %q not found", fromID)
	}
	destination, ok := l.accounts[toID]
	if !ok {
		return from, to, newError(KindNotFound, nil, "destination account %q not found", toID)
	}
	// Basic validation: the transfer amount must be positive
	if !amount.IsPositive() {
		return from, to, errInvalidAmount()
	}

	//Get Locks for both accounts
	debitMutex := l.getAccountLock(fromID)
	creditMutex := l.getAccountLock(toID)

	// Lock in id order to avoid deadlocks
	if fromID < toID {
		debitMutex.Lock()
		creditMutex.Lock()
	} else {
		creditMutex.Lock()
		debitMutex.Lock()
	}
	defer debitMutex.Unlock()
	defer creditMutex.Unlock()

	// Funds are checked under both locks so no other debit can interleave
	if amount.GreaterThan(source.Balance()) {
		return from, to, errInsufficientFunds()
	}

	// Debit the source first; nothing has changed yet if this fails
	if err := source.Withdraw(amount); err != nil {
		return from, to, newError(KindInternal, err, "transfer debit from %q failed", fromID)
	}
	// Credit the destination, and put the money back on the source if that fails
	if err := destination.Deposit(amount); err != nil {
		if rbErr := source.Deposit(amount); rbErr != nil {
			return from, to, newError(KindInternal, errors.Join(err, rbErr), "transfer rollback on %q failed", fromID)
		}
		return from, to, newError(KindInternal, err, "transfer credit to %q failed", toID)
	}

	// Both sides applied: the pair's total balance is unchanged
	return source.Snapshot(), destination.Snapshot(), nil
}

// Save writes every account to dst, replacing its previous contents.
func (l *Ledger) Save(ctx context.Context, dst interfaces.SnapshotStore) error {
	if dst == nil {
		return newError(KindInvalidArgument, nil, "no save destination")
	}

	l.mu.Lock()
	accounts := l.snapshotLocked()
	l.mu.Unlock()

	if err := dst.SaveAccounts(ctx, accounts); err != nil {
		return newError(KindIO, err, "saving accounts")
	}
	return nil
}

// Load replaces the whole ledger with the contents of src. It is not a merge:
// accounts missing from src are dropped. The source is read and validated in
// full before the swap, so on any failure the ledger keeps its prior state.
func (l *Ledger) Load(ctx context.Context, src interfaces.SnapshotStore) error {
	if src == nil {
		return newError(KindInvalidArgument, nil, "no load source")
	}

	// Read the whole source before touching the ledger
	records, err := src.LoadAccounts(ctx)
	if err != nil {
		return classifyLoadError(err)
	}

	// Build the replacement map off to the side; any bad record aborts the load
	accounts := make(map[string]*Account, len(records))
	for i, r := range records {
		// Same emptiness rule as CreateAccount: whitespace-only is allowed
		switch {
		case r.ID == "" || r.Owner == "":
			return newError(KindParse, nil, "record %d: account id and owner name are required", i+1)
		case r.Balance.IsNegative():
			return newError(KindParse, nil, "record %d: negative balance for account %q", i+1, r.ID)
		}
		// ids must stay unique, exactly as CreateAccount enforces
		if _, dup := accounts[r.ID]; dup {
			return newError(KindParse, nil, "record %d: duplicate account id %q", i+1, r.ID)
		}
		accounts[r.ID] = NewAccount(r.ID, r.Owner, r.Balance)
	}

	// Every record is valid: swap the map in one step under the exclusive lock
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts = accounts

	// Locks for dropped accounts go with the old map
	l.mapMu.Lock()
	l.muMap = make(map[string]*sync.Mutex, len(accounts))
	l.mapMu.Unlock()
	return nil
}

func classifyLoadError(err error) error {
	var parseErr *storage.ParseError
	switch {
	case errors.Is(err, storage.ErrSourceNotFound):
		return newError(KindNotFound, err, "loading accounts")
	case errors.As(err, &parseErr):
		return newError(KindParse, err, "loading accounts")
	default:
		return newError(KindIO, err, "loading accounts")
	}
}

func notFound(id string) error {
	return newError(KindNotFound, nil, "account %q not found", id)
}
