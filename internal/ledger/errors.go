package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies why a ledger operation failed.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindDuplicateID
	KindNegativeInitialBalance
	KindNotFound
	KindInvalidAmount
	KindInsufficientFunds
	KindSameAccount
	KindIO
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindDuplicateID:
		return "duplicate_id"
	case KindNegativeInitialBalance:
		return "negative_initial_balance"
	case KindNotFound:
		return "not_found"
	case KindInvalidAmount:
		return "invalid_amount"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindSameAccount:
		return "same_account"
	case KindIO:
		return "io_error"
	case KindParse:
		return "parse_error"
	default:
		return "internal"
	}
}

// Error is the only error type returned by Ledger and Account operations.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

const (
	msgInvalidArgument        = "account id and owner name must not be empty"
	msgDuplicateID            = "account id already exists"
	msgNegativeInitialBalance = "initial balance must not be negative"
	msgNotFound               = "account not found"
	msgInvalidAmount          = "amount must be > 0"
	msgInsufficientFunds      = "insufficient funds"
	msgSameAccount            = "cannot transfer to the same account"
	msgCarriageReturn         = "account id and owner name must not contain a carriage return"
)

// Targets for errors.Is. Operations never return these values themselves,
// they return a fresh *Error of the same kind.
var (
	ErrInvalidArgument        = &Error{Kind: KindInvalidArgument, Msg: msgInvalidArgument}
	ErrDuplicateID            = &Error{Kind: KindDuplicateID, Msg: msgDuplicateID}
	ErrNegativeInitialBalance = &Error{Kind: KindNegativeInitialBalance, Msg: msgNegativeInitialBalance}
	ErrNotFound               = &Error{Kind: KindNotFound, Msg: msgNotFound}
	ErrInvalidAmount          = &Error{Kind: KindInvalidAmount, Msg: msgInvalidAmount}
	ErrInsufficientFunds      = &Error{Kind: KindInsufficientFunds, Msg: msgInsufficientFunds}
	ErrSameAccount            = &Error{Kind: KindSameAccount, Msg: msgSameAccount}
	ErrIO                     = &Error{Kind: KindIO, Msg: "storage failure"}
	ErrParse                  = &Error{Kind: KindParse, Msg: "malformed record"}
	ErrInternal               = &Error{Kind: KindInternal, Msg: "operation failed"}
)

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func errInvalidAmount() *Error     { return &Error{Kind: KindInvalidAmount, Msg: msgInvalidAmount} }
func errInsufficientFunds() *Error { return &Error{Kind: KindInsufficientFunds, Msg: msgInsufficientFunds} }

// KindOf reports the Kind of err, or KindInternal when err is not a ledger error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
