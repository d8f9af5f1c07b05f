package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"tally/internal/core"
)

// transactionRequest carries the amount and date as strings so the
// handlers control parsing: amounts accept both dot and comma decimal
// separators, dates must be YYYY-MM-DD.
type transactionRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		Text:     req.Text,
		Category: req.Category,
		Amount:   amount,
	}
	if strings.TrimSpace(req.Date) != "" {
		date, err := core.ParseDate(req.Date)
		if err != nil {
			return core.Transaction{}, err
		}
		tx.Date = date
	}
	return tx, nil
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.controller.Transactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	tx, err := req.toTransaction()
	if err != nil {
		writeError(w, err)
		return
	}

	added, err := s.controller.AddTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, err)
		return
	}

	if sess, ok := s.controller.Session(); ok {
		s.InvalidateUser(sess.Username)
	}
	writeJSON(w, http.StatusCreated, added)
}

// handleTransactionByID serves PUT and DELETE on /api/transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid transaction id"})
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.updateTransaction(w, r, id)
	case http.MethodDelete:
		s.removeTransaction(w, r, id)
	default:
		methodNotAllowed(w, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	var req transactionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	fields, err := req.toTransaction()
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.controller.UpdateTransaction(r.Context(), id, fields)
	if err != nil {
		writeError(w, err)
		return
	}

	if sess, ok := s.controller.Session(); ok {
		s.InvalidateUser(sess.Username)
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) removeTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.controller.RemoveTransaction(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	if sess, ok := s.controller.Session(); ok {
		s.InvalidateUser(sess.Username)
	}
	w.WriteHeader(http.StatusNoContent)
}
