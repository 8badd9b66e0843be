package server

import "net/http"

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)

	mux.HandleFunc("POST /accounts", s.createAccount)
	mux.HandleFunc("GET /accounts", s.listAccounts)
	mux.HandleFunc("GET /accounts/{id}", s.getAccount)
	mux.HandleFunc("POST /accounts/{id}/deposit", s.deposit)
	mux.HandleFunc("POST /accounts/{id}/withdraw", s.withdraw)

	mux.HandleFunc("POST /transfers", s.transfer)

	mux.HandleFunc("POST /snapshot/save", s.saveSnapshot)
	mux.HandleFunc("POST /snapshot/load", s.loadSnapshot)

	return s.withLogging(mux)
}
