package server

import (
	"encoding/json"
	"net/http"

	"github.com/sheikh-saqib/simple-ledger/internal/ledger"
	"github.com/sheikh-saqib/simple-ledger/internal/models"
)

type accountResponse struct {
	AccountID string `json:"account_id"`
	OwnerName string `json:"owner_name"`
	Balance   string `json:"balance"`
}

func toResponse(a models.Account) accountResponse {
	return accountResponse{AccountID: a.ID, OwnerName: a.Owner, Balance: models.FormatAmount(a.Balance)}
}

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "bad_request", Message: msg})
}

func writeLedgerErr(w http.ResponseWriter, err error) {
	kind := ledger.KindOf(err)
	writeJSON(w, statusFor(kind), errorResponse{Kind: kind.String(), Message: err.Error()})
}

func statusFor(kind ledger.Kind) int {
	switch kind {
	case ledger.KindInvalidArgument, ledger.KindNegativeInitialBalance,
		ledger.KindInvalidAmount, ledger.KindSameAccount:
		return http.StatusBadRequest
	case ledger.KindNotFound:
		return http.StatusNotFound
	case ledger.KindDuplicateID, ledger.KindInsufficientFunds:
		return http.StatusConflict
	case ledger.KindParse:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
