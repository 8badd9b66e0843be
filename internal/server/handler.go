package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/simple-ledger/internal/ledger"
	"github.com/sheikh-saqib/simple-ledger/internal/models"
	"github.com/sheikh-saqib/simple-ledger/internal/models/events"
)

type createAccountRequest struct {
	AccountID      string              `json:"account_id"`
	OwnerName      string              `json:"owner_name"`
	InitialBalance decimal.NullDecimal `json:"initial_balance"`
}

type amountRequest struct {
	Amount decimal.NullDecimal `json:"amount"`
}

type transferRequest struct {
	FromAccount string              `json:"from_account"`
	ToAccount   string              `json:"to_account"`
	Amount      decimal.NullDecimal `json:"amount"`
}

type transferResponse struct {
	From accountResponse `json:"from"`
	To   accountResponse `json:"to"`
}

// decode rejects bodies that are not valid JSON, including malformed amounts,
// so a bad number never reaches the ledger as zero.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// pathID trims the {id} segment the same way createAccount trims new ids.
func pathID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("id"))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "accounts": s.ledger.Len()})
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !decode(w, r, &req) {
		return
	}

	id := strings.TrimSpace(req.AccountID)
	if id == "" {
		id = s.newID()
	}
	initial := decimal.Zero
	if req.InitialBalance.Valid {
		initial = req.InitialBalance.Decimal
	}

	a, err := s.ledger.CreateAccount(id, strings.TrimSpace(req.OwnerName), initial)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}

	s.publish(r.Context(), a.ID, events.AccountOpened{
		EventID:    s.newID(),
		Type:       events.TypeAccountOpened,
		AccountID:  a.ID,
		Owner:      a.Owner,
		Balance:    a.Balance,
		OccurredAt: s.now(),
	})
	writeJSON(w, http.StatusCreated, toResponse(a))
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := s.ledger.ListAccounts()
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	a, ok := s.ledger.GetAccount(id)
	if !ok {
		writeLedgerErr(w, &ledger.Error{Kind: ledger.KindNotFound, Msg: "account " + id + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, toResponse(a))
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	s.changeBalance(w, r, s.ledger.Deposit, false)
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	s.changeBalance(w, r, s.ledger.Withdraw, true)
}

func (s *Server) changeBalance(w http.ResponseWriter, r *http.Request, op func(string, decimal.Decimal) (models.Account, error), debit bool) {
	var req amountRequest
	if !decode(w, r, &req) {
		return
	}
	if !req.Amount.Valid {
		writeBadRequest(w, "amount is required")
		return
	}

	a, err := op(pathID(r), req.Amount.Decimal)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}
	delta := req.Amount.Decimal
	if debit {
		delta = delta.Neg()
	}
	s.publish(r.Context(), a.ID, events.BalanceChanged{
		EventID:    s.newID(),
		Type:       events.TypeBalanceChanged,
		AccountID:  a.ID,
		Delta:      delta,
		Balance:    a.Balance,
		OccurredAt: s.now(),
	})
	writeJSON(w, http.StatusOK, toResponse(a))
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decode(w, r, &req) {
		return
	}
	if !req.Amount.Valid {
		writeBadRequest(w, "amount is required")
		return
	}

	from, to, err := s.ledger.Transfer(strings.TrimSpace(req.FromAccount), strings.TrimSpace(req.ToAccount), req.Amount.Decimal)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}
	s.publish(r.Context(), from.ID, events.TransferCompleted{
		EventID:     s.newID(),
		Type:        events.TypeTransferCompleted,
		FromAccount: from.ID,
		ToAccount:   to.ID,
		Amount:      req.Amount.Decimal,
		OccurredAt:  s.now(),
	})
	writeJSON(w, http.StatusOK, transferResponse{From: toResponse(from), To: toResponse(to)})
}

func (s *Server) saveSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Save(r.Context(), s.store); err != nil {
		s.logger.Error("snapshot save failed", zap.Error(err))
		writeLedgerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "saved", "accounts": s.ledger.Len()})
}

// loadSnapshot replaces every account with the stored snapshot.
func (s *Server) loadSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Load(r.Context(), s.store); err != nil {
		s.logger.Warn("snapshot load failed", zap.Error(err))
		writeLedgerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "loaded", "accounts": s.ledger.Len()})
}
