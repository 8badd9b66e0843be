package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNewAccount(t *testing.T) {
	a := NewAccount("1", "张三", decimal.Zero)
	assert.True(t, a.Balance().IsZero())

	a = NewAccount("2", "李四", dec("100.00"))
	assert.True(t, a.Balance().Equal(dec("100.00")))
	assert.Equal(t, "2", a.ID())
	assert.Equal(t, "李四", a.Owner())

	// a negative initial balance is never applied
	a = NewAccount("3", "王五", dec("-5"))
	assert.True(t, a.Balance().IsZero())
}

func TestAccountDeposit(t *testing.T) {
	a := NewAccount("1", "张三", decimal.Zero)

	assert.NoError(t, a.Deposit(dec("50.75")))
	assert.NoError(t, a.Deposit(dec("25.25")))
	assert.True(t, a.Balance().Equal(dec("76.00")))

	assert.ErrorIs(t, a.Deposit(dec("0.00")), ErrInvalidAmount)
	assert.ErrorIs(t, a.Deposit(dec("-10.00")), ErrInvalidAmount)
	assert.True(t, a.Balance().Equal(dec("76.00")))
}

func TestAccountWithdraw(t *testing.T) {
	a := NewAccount("1", "张三", dec("100.00"))

	assert.NoError(t, a.Withdraw(dec("40.00")))
	assert.True(t, a.Balance().Equal(dec("60.00")))

	assert.ErrorIs(t, a.Withdraw(dec("0.00")), ErrInvalidAmount)
	assert.ErrorIs(t, a.Withdraw(dec("-10.00")), ErrInvalidAmount)
	assert.ErrorIs(t, a.Withdraw(dec("70.00")), ErrInsufficientFunds)
	assert.True(t, a.Balance().Equal(dec("60.00")))

	assert.NoError(t, a.Withdraw(dec("60.00")))
	assert.True(t, a.Balance().IsZero())
}

func TestAccountNoRoundingDrift(t *testing.T) {
	a := NewAccount("1", "A", decimal.Zero)
	for i := 0; i < 1000; i++ {
		assert.NoError(t, a.Deposit(dec("0.10")))
	}
	for i := 0; i < 999; i++ {
		assert.NoError(t, a.Withdraw(dec("0.10")))
	}
	assert.Equal(t, "0.1", a.Balance().String())
}

func TestAccountSnapshotIsCopy(t *testing.T) {
	a := NewAccount("1", "A", dec("5"))
	snap := a.Snapshot()
	assert.NoError(t, a.Deposit(dec("1")))
	assert.True(t, snap.Balance.Equal(dec("5")))
}
