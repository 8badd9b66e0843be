package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeAccountOpened     = "account_opened"
	TypeBalanceChanged    = "balance_changed"
	TypeTransferCompleted = "transfer_completed"
)

type AccountOpened struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	AccountID  string          `json:"account_id"`
	Owner      string          `json:"owner_name"`
	Balance    decimal.Decimal `json:"balance"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// BalanceChanged is emitted for deposits and withdrawals.
// Delta is negative for withdrawals.
type BalanceChanged struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	AccountID  string          `json:"account_id"`
	Delta      decimal.Decimal `json:"delta"`
	Balance    decimal.Decimal `json:"balance"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type TransferCompleted struct {
	EventID     string          `json:"event_id"`
	Type        string          `json:"type"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
