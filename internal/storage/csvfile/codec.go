package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/simple-ledger/internal/models"
	"github.com/sheikh-saqib/simple-ledger/internal/storage"
)

const (
	ColumnAccountID = "account_id"
	ColumnOwnerName = "owner_name"
	ColumnBalance   = "balance"
)

// ErrCarriageReturn rejects values that cannot be written without loss.
var ErrCarriageReturn = errors.New("carriage return in account id or owner name")

var header = []string{ColumnAccountID, ColumnOwnerName, ColumnBalance}

// Encode writes the header followed by one record per account, in the order given.
func Encode(w io.Writer, accounts []models.Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range accounts {
		// csv.Reader folds CRLF inside quoted fields to LF, so a CR would not survive a reload
		if strings.ContainsRune(a.ID, '\r') || strings.ContainsRune(a.Owner, '\r') {
			return fmt.Errorf("account %q: %w", a.ID, ErrCarriageReturn)
		}
		if err := cw.Write([]string{a.ID, a.Owner, models.FormatAmount(a.Balance)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads a strict account table. The header must match exactly and
// every record must carry a non-empty id, owner and a decimal balance.
func Decode(r io.Reader) ([]models.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	got, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &storage.ParseError{Line: 1, Reason: "missing header"}
	}
	if err != nil {
		return nil, wrapReadError(err)
	}
	if strings.Join(got, ",") != strings.Join(header, ",") {
		return nil, &storage.ParseError{Line: 1, Reason: fmt.Sprintf("unexpected header %q", strings.Join(got, ","))}
	}

	var accounts []models.Account
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapReadError(err)
		}
		line, _ := cr.FieldPos(0)

		// id and owner are taken verbatim, so " " is a valid owner
		for i, v := range rec[:2] {
			if v == "" {
				return nil, &storage.ParseError{Line: line, Field: header[i], Reason: "required field is empty"}
			}
		}
		amount := strings.TrimSpace(rec[2])
		if amount == "" {
			return nil, &storage.ParseError{Line: line, Field: ColumnBalance, Reason: "required field is empty"}
		}
		balance, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, &storage.ParseError{Line: line, Field: ColumnBalance, Reason: "not a decimal", Err: err}
		}

		accounts = append(accounts, models.Account{ID: rec[0], Owner: rec[1], Balance: balance})
	}
	return accounts, nil
}

// wrapReadError maps csv syntax errors, including wrong field counts, to ParseError.
// Anything else is an I/O failure and is returned unchanged.
func wrapReadError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &storage.ParseError{Line: pe.Line, Reason: "malformed record", Err: pe.Err}
	}
	return err
}
