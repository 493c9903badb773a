package httpapi

import (
	"database/sql"
	"log"
	"net/http"
	"sync/atomic"

	"remotive-ranker/internal/config"
	"remotive-ranker/internal/export"
	"remotive-ranker/internal/store"
)

type ListingsHandler struct {
	DB     *sql.DB
	CfgVal *atomic.Value // stores config.Config
}

// List serves the stored ranking snapshot, best first.
func (h ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := store.ListRanked(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if rows == nil {
		rows = []store.RankedListing{}
	}
	writeJSON(w, rows)
}

// Export streams the snapshot as an xlsx workbook.
func (h ListingsHandler) Export(w http.ResponseWriter, r *http.Request) {
	rows, err := store.ListRanked(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	run, _, err := store.LastRun(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	cfg := h.CfgVal.Load().(config.Config)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="remotive_jobs_scored.xlsx"`)
	if err := export.WriteTo(w, rows, run, cfg); err != nil {
		// Headers are out already; a log line is all that's left.
		log.Printf("[httpapi] export write failed: %v", err)
	}
}
