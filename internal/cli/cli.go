package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/simple-ledger/internal/interfaces"
	"github.com/sheikh-saqib/simple-ledger/internal/ledger"
	"github.com/sheikh-saqib/simple-ledger/internal/models"
	"github.com/sheikh-saqib/simple-ledger/internal/storage/csvfile"
)

const menu = `
===== Simple Ledger =====
1. Create account
2. View account
3. List accounts
4. Deposit
5. Withdraw
6. Transfer
7. Save accounts to file
8. Load accounts from file
9. Exit
=========================`

// CLI is a line-oriented prompt loop over a Ledger.
type CLI struct {
	ledger      *ledger.Ledger
	in          *bufio.Scanner
	out         io.Writer
	logger      *zap.Logger
	defaultFile string
	openStore   func(path string) interfaces.SnapshotStore
}

type Option func(*CLI)

func WithLogger(l *zap.Logger) Option {
	return func(c *CLI) { c.logger = l }
}

// WithDefaultFile sets the file offered when the user leaves the name blank.
func WithDefaultFile(path string) Option {
	return func(c *CLI) { c.defaultFile = path }
}

func WithStoreOpener(open func(path string) interfaces.SnapshotStore) Option {
	return func(c *CLI) { c.openStore = open }
}

func New(l *ledger.Ledger, in io.Reader, out io.Writer, opts ...Option) *CLI {
	c := &CLI{
		ledger:      l,
		in:          bufio.NewScanner(in),
		out:         out,
		logger:      zap.NewNop(),
		defaultFile: csvfile.DefaultFile,
		openStore: func(path string) interfaces.SnapshotStore {
			return csvfile.NewStore(path)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run shows the menu until the user confirms exit or input ends.
func (c *CLI) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(c.out, menu)
		choice, ok := c.prompt("\nEnter your choice (1-9): ")
		if !ok {
			fmt.Fprintln(c.out)
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			c.createAccount()
		case "2":
			c.viewAccount()
		case "3":
			c.listAccounts()
		case "4":
			c.deposit()
		case "5":
			c.withdraw()
		case "6":
			c.transfer()
		case "7":
			c.save(ctx)
		case "8":
			c.load(ctx)
		case "9":
			if c.confirmExit() {
				fmt.Fprintln(c.out, "\nGoodbye.")
				return nil
			}
		default:
			fmt.Fprintln(c.out, "Invalid choice. Enter a number from 1 to 9.")
		}
	}
}

// prompt returns false once input is exhausted.
func (c *CLI) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// promptAmount re-asks until the text parses as a decimal.
func (c *CLI) promptAmount(label string) (decimal.Decimal, bool) {
	for {
		text, ok := c.prompt(label)
		if !ok {
			return decimal.Zero, false
		}
		amount, err := models.ParseAmount(text)
		if err == nil {
			return amount, true
		}
		fmt.Fprintln(c.out, "Error: enter a valid number.")
	}
}

func (c *CLI) fail(action string, err error) {
	c.logger.Debug(action+" failed", zap.String("kind", ledger.KindOf(err).String()), zap.Error(err))
	fmt.Fprintf(c.out, "%s failed: %s\n", action, describe(err))
}

// describe renders a ledger failure for a person rather than a log.
func describe(err error) string {
	switch ledger.KindOf(err) {
	case ledger.KindInvalidArgument:
		return "account id and owner name must not be empty"
	case ledger.KindDuplicateID:
		return "an account with that id already exists"
	case ledger.KindNegativeInitialBalance:
		return "initial balance cannot be negative"
	case ledger.KindInvalidAmount:
		return "amount must be positive"
	case ledger.KindInsufficientFunds:
		return "insufficient funds"
	case ledger.KindSameAccount:
		return "cannot transfer to the same account"
	default:
		return err.Error()
	}
}

func (c *CLI) createAccount() {
	fmt.Fprintln(c.out, "\n----- Create account -----")
	id, ok := c.prompt("Account id: ")
	if !ok {
		return
	}
	owner, ok := c.prompt("Owner name: ")
	if !ok {
		return
	}
	initial, ok := c.promptAmount("Initial balance (0 for empty): ")
	if !ok {
		return
	}

	if _, err := c.ledger.CreateAccount(id, owner, initial); err != nil {
		c.fail("Account creation", err)
		return
	}
	fmt.Fprintf(c.out, "Account created. Id: %s\n", id)
}

func (c *CLI) viewAccount() {
	fmt.Fprintln(c.out, "\n----- View account -----")
	id, ok := c.prompt("Account id: ")
	if !ok {
		return
	}
	a, found := c.ledger.GetAccount(id)
	if !found {
		fmt.Fprintf(c.out, "No account with id '%s'.\n", id)
		return
	}
	fmt.Fprintf(c.out, "\nId:      %s\nOwner:   %s\nBalance: %s\n", a.ID, a.Owner, models.FormatAmount(a.Balance))
}

func (c *CLI) listAccounts() {
	accounts := c.ledger.ListAccounts()
	if len(accounts) == 0 {
		fmt.Fprintln(c.out, "\nNo accounts.")
		return
	}
	fmt.Fprintf(c.out, "\n----- All accounts (%d) -----\n", len(accounts))
	fmt.Fprintf(c.out, "%-10s %-20s %s\n", "ID", "Owner", "Balance")
	fmt.Fprintln(c.out, strings.Repeat("-", 40))
	for _, a := range accounts {
		fmt.Fprintf(c.out, "%-10s %-20s %s\n", a.ID, a.Owner, models.FormatAmount(a.Balance))
	}
}

// promptExisting asks for an account id and reports unknown ids before
// asking for anything else.
func (c *CLI) promptExisting(label string) (string, bool) {
	id, ok := c.prompt(label)
	if !ok {
		return "", false
	}
	if _, found := c.ledger.GetAccount(id); !found {
		fmt.Fprintf(c.out, "No account with id '%s'.\n", id)
		return "", false
	}
	return id, true
}

func (c *CLI) deposit() {
	fmt.Fprintln(c.out, "\n----- Deposit -----")
	id, ok := c.promptExisting("Account id: ")
	if !ok {
		return
	}
	amount, ok := c.promptAmount("Amount: ")
	if !ok {
		return
	}
	a, err := c.ledger.Deposit(id, amount)
	if err != nil {
		c.fail("Deposit", err)
		return
	}
	fmt.Fprintf(c.out, "Deposit done. New balance: %s\n", models.FormatAmount(a.Balance))
}

func (c *CLI) withdraw() {
	fmt.Fprintln(c.out, "\n----- Withdraw -----")
	id, ok := c.promptExisting("Account id: ")
	if !ok {
		return
	}
	amount, ok := c.promptAmount("Amount: ")
	if !ok {
		return
	}
	a, err := c.ledger.Withdraw(id, amount)
	if err != nil {
		c.fail("Withdrawal", err)
		return
	}
	fmt.Fprintf(c.out, "Withdrawal done. New balance: %s\n", models.FormatAmount(a.Balance))
}

func (c *CLI) transfer() {
	fmt.Fprintln(c.out, "\n----- Transfer -----")
	fromID, ok := c.promptExisting("Source account id: ")
	if !ok {
		return
	}
	toID, ok := c.promptExisting("Destination account id: ")
	if !ok {
		return
	}
	amount, ok := c.promptAmount("Amount: ")
	if !ok {
		return
	}
	from, to, err := c.ledger.Transfer(fromID, toID, amount)
	if err != nil {
		c.fail("Transfer", err)
		return
	}
	fmt.Fprintln(c.out, "Transfer done.")
	fmt.Fprintf(c.out, "Source (%s) new balance: %s\n", from.ID, models.FormatAmount(from.Balance))
	fmt.Fprintf(c.out, "Destination (%s) new balance: %s\n", to.ID, models.FormatAmount(to.Balance))
}

func (c *CLI) promptFile() (string, bool) {
	name, ok := c.prompt(fmt.Sprintf("File name (default: %s): ", c.defaultFile))
	if !ok {
		return "", false
	}
	if name == "" {
		name = c.defaultFile
	}
	return name, true
}

func (c *CLI) save(ctx context.Context) {
	fmt.Fprintln(c.out, "\n----- Save accounts -----")
	if c.ledger.Len() == 0 {
		fmt.Fprintln(c.out, "There are no accounts to save.")
		return
	}
	path, ok := c.promptFile()
	if !ok {
		return
	}
	if err := c.ledger.Save(ctx, c.openStore(path)); err != nil {
		c.logger.Error("save failed", zap.String("file", path), zap.Error(err))
		c.fail("Save", err)
		return
	}
	c.logger.Info("accounts saved", zap.String("file", path), zap.Int("accounts", c.ledger.Len()))
	fmt.Fprintf(c.out, "Accounts saved to '%s'.\n", path)
}

func (c *CLI) load(ctx context.Context) {
	fmt.Fprintln(c.out, "\n----- Load accounts -----")
	path, ok := c.promptFile()
	if !ok {
		return
	}
	err := c.ledger.Load(ctx, c.openStore(path))
	switch {
	case err == nil:
		c.logger.Info("accounts loaded", zap.String("file", path), zap.Int("accounts", c.ledger.Len()))
		fmt.Fprintf(c.out, "Accounts loaded from '%s'.\n", path)
	case ledger.KindOf(err) == ledger.KindNotFound:
		fmt.Fprintf(c.out, "File '%s' not found.\n", path)
	default:
		c.logger.Error("load failed", zap.String("file", path), zap.Error(err))
		c.fail("Load", err)
	}
}

func (c *CLI) confirmExit() bool {
	answer, ok := c.prompt("Exit? Unsaved changes will be lost. (y/n): ")
	if !ok {
		return true
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	fmt.Fprintln(c.out, "Exit cancelled.")
	return false
}

// SeedSample creates the two demonstration accounts.
func SeedSample(l *ledger.Ledger) error {
	if _, err := l.CreateAccount("1", "Alice", decimal.RequireFromString("1000.00")); err != nil {
		return err
	}
	_, err := l.CreateAccount("2", "Bob", decimal.RequireFromString("500.00"))
	return err
}
