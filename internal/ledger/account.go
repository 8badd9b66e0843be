package ledger

import (
	"github.com/sheikh-saqib/simple-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// Account holds one balance. Its methods do not lock; the Ledger serializes
// access to every account it owns.
type Account struct {
	id      string
	owner   string
	balance decimal.Decimal
}

// NewAccount starts the account at zero and deposits initial when it is positive.
// Callers are expected to have rejected a negative initial balance already.
func NewAccount(id, owner string, initial decimal.Decimal) *Account {
	a := &Account{id: id, owner: owner, balance: decimal.Zero}
	if initial.IsPositive() {
		_ = a.Deposit(initial)
	}
	return a
}

func (a *Account) ID() string               { return a.id }
func (a *Account) Owner() string            { return a.owner }
func (a *Account) Balance() decimal.Decimal { return a.balance }

// Deposit adds amount to the balance. A non-positive amount changes nothing.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errInvalidAmount()
	}
	a.balance = a.balance.Add(amount)
	return nil
}

// Withdraw subtracts amount when 0 < amount <= balance; otherwise nothing changes.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errInvalidAmount()
	}
	if amount.GreaterThan(a.balance) {
		return errInsufficientFunds()
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

func (a *Account) Snapshot() models.Account {
	return models.Account{ID: a.id, Owner: a.owner, Balance: a.balance}
}
