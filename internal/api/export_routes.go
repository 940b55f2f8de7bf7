package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/auradash/aura-metals-backend/internal/export"
	"github.com/auradash/aura-metals-backend/internal/models"
	"github.com/auradash/aura-metals-backend/internal/timeframe"
)

// handleExport streams a CSV of the visible subset. view=full mirrors the
// dashboard's Export CSV button (trailing ex-GST column, filter order);
// view=table mirrors the table export (trailing Change column, newest
// first).
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	metal, err := models.ParseMetal(q.Get("metal"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_METAL", err.Error())
		return
	}

	view := q.Get("view")
	if view == "" {
		view = "full"
	}
	if view != "full" && view != "table" {
		writeError(w, http.StatusBadRequest, "INVALID_VIEW", "view must be full or table")
		return
	}

	snap, ok := s.snapshot(w, r, metal)
	if !ok {
		return
	}

	tf := timeframe.Timeframe(q.Get("timeframe"))
	if tf == "" {
		tf = timeframe.All
	}
	custom, ok := s.customRange(w, q.Get("start_date"), q.Get("end_date"))
	if !ok {
		return
	}
	records := timeframe.Filter(snap.Records, tf, custom, time.Now())

	now := time.Now()
	var filename string
	if view == "table" {
		filename = export.TableFilename(metal, now)
	} else {
		filename = export.FullFilename(metal, now)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if view == "table" {
		err = export.WriteTable(w, models.SortNewestFirst(records))
	} else {
		err = export.WriteFull(w, records)
	}
	if err != nil {
		// Headers are out the door; all that is left is to log it.
		log.Error().Err(err).Str("metal", string(metal)).Str("view", view).Msg("csv export failed mid-stream")
	}
}
