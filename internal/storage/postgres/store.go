package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/simple-ledger/internal/interfaces"
	"github.com/sheikh-saqib/simple-ledger/internal/models"
	"github.com/sheikh-saqib/simple-ledger/internal/storage"
)

// undefined_table
const codeUndefinedTable = "42P01"

const schema = `CREATE TABLE IF NOT EXISTS accounts (
	account_id text PRIMARY KEY,
	owner_name text NOT NULL,
	balance    numeric NOT NULL CHECK (balance >= 0)
)`

type PostgresSnapshotStore struct {
	db *sql.DB
}

func NewPostgresSnapshotStore(db *sql.DB) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{
		db: db,
	}
}

// Open connects with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (p *PostgresSnapshotStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

// SaveAccounts replaces the table contents in a single transaction.
func (p *PostgresSnapshotStore) SaveAccounts(ctx context.Context, accounts []models.Account) (err error) {
	if err := p.EnsureSchema(ctx); err != nil {
		return err
	}

	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	if _, err = dbTx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return err
	}

	stmt, err := dbTx.PrepareContext(ctx, pq.CopyIn("accounts", "account_id", "owner_name", "balance"))
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if _, err = stmt.ExecContext(ctx, a.ID, a.Owner, a.Balance.String()); err != nil {
			stmt.Close()
			return err
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return err
	}
	if err = stmt.Close(); err != nil {
		return err
	}

	return dbTx.Commit()
}

func (p *PostgresSnapshotStore) LoadAccounts(ctx context.Context) ([]models.Account, error) {
	const query = `SELECT account_id, owner_name, balance::text FROM accounts ORDER BY account_id`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(err)
	}

	defer rows.Close()

	var accounts []models.Account
	line := 0
	for rows.Next() {
		line++
		var (
			a       models.Account
			balance string
		)
		if err := rows.Scan(&a.ID, &a.Owner, &balance); err != nil {
			return nil, err
		}
		a.Balance, err = decimal.NewFromString(balance)
		if err != nil {
			return nil, &storage.ParseError{Line: line, Field: "balance", Reason: "not a decimal", Err: err}
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == codeUndefinedTable {
		return fmt.Errorf("%s: %w", pqErr.Message, storage.ErrSourceNotFound)
	}
	return err
}

var _ interfaces.SnapshotStore = (*PostgresSnapshotStore)(nil)
