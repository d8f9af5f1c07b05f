package http

import (
	"log/slog"
	"net/http"

	"tally/internal/core"
	"tally/internal/report"
)

// handleSnapshot returns the full render state for the active user,
// optionally narrowed by ?q= and ?category=. Unfiltered snapshots are
// served from the per-user cache.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	unfiltered := query == "" && category == ""
	var cacheKey string
	if unfiltered {
		if sess, ok := s.controller.Session(); ok {
			cacheKey = sess.Username
			if snap, found := s.snapshotCache.Get(cacheKey); found {
				slog.DebugContext(r.Context(), "Snapshot cache hit", "username", cacheKey)
				writeJSON(w, http.StatusOK, snap)
				return
			}
		}
	}

	snap, err := s.controller.Snapshot(r.Context(), query, category)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build snapshot", "error", err)
		writeError(w, err)
		return
	}

	if cacheKey != "" {
		s.snapshotCache.Set(cacheKey, snap)
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleExportCSV streams the active user's ledger as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	txs, err := s.ledgerForExport(w, r)
	if err != nil {
		return
	}

	data, err := report.CSV(txs)
	if err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.ExportFilename()+`"`)
	_, _ = w.Write([]byte(data))
}

// handleReport renders the printable HTML report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	txs, err := s.ledgerForExport(w, r)
	if err != nil {
		return
	}

	doc, err := report.Printable(txs)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report rendering failed", "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

// ledgerForExport fetches the full transaction list, writing the error
// response itself. Exports require a session.
func (s *Server) ledgerForExport(w http.ResponseWriter, r *http.Request) ([]core.Transaction, error) {
	if _, ok := s.controller.Session(); !ok {
		writeError(w, core.ErrNoSession)
		return nil, core.ErrNoSession
	}

	txs, err := s.controller.Transactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions for export", "error", err)
		writeError(w, err)
		return nil, err
	}
	return txs, nil
}
