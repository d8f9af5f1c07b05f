package http

import (
	"net/http"

	"tally/internal/core"
)

type budgetRequest struct {
	Limit string `json:"limit"`
}

type budgetResponse struct {
	Limit *string `json:"limit"`
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getBudget(w, r)
	case http.MethodPut:
		s.setBudget(w, r)
	case http.MethodDelete:
		s.clearBudget(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) getBudget(w http.ResponseWriter, r *http.Request) {
	limit, err := s.controller.Budget(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := budgetResponse{}
	if limit != nil {
		formatted := core.FormatAmount(*limit)
		resp.Limit = &formatted
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) setBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	limit, err := core.ParseAmount(req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.controller.SetBudget(r.Context(), limit); err != nil {
		writeError(w, err)
		return
	}

	if sess, ok := s.controller.Session(); ok {
		s.InvalidateUser(sess.Username)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.ClearBudget(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	if sess, ok := s.controller.Session(); ok {
		s.InvalidateUser(sess.Username)
	}
	w.WriteHeader(http.StatusNoContent)
}
