package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/auradash/aura-metals-backend/internal/feed"
	"github.com/auradash/aura-metals-backend/internal/models"
	"github.com/auradash/aura-metals-backend/internal/store"
	"github.com/auradash/aura-metals-backend/internal/timeframe"
)

// handleGetPrices serves the dataset for a metal, optionally filtered when
// action=data. With no action the full dataset is returned.
func (s *Server) handleGetPrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	metal, err := models.ParseMetal(q.Get("metal"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_METAL", err.Error())
		return
	}

	action := q.Get("action")
	if action != "" && action != "data" {
		writeError(w, http.StatusBadRequest, "INVALID_ACTION", "invalid action parameter")
		return
	}

	snap, ok := s.snapshot(w, r, metal)
	if !ok {
		return
	}

	records := snap.Records
	if action == "data" {
		tf := timeframe.Timeframe(q.Get("timeframe"))
		if tf == "" {
			tf = timeframe.Today
		}
		custom, ok := s.customRange(w, q.Get("start_date"), q.Get("end_date"))
		if !ok {
			return
		}
		records = timeframe.Filter(records, tf, custom, time.Now())
	}

	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Data:      records,
		Count:     intPtr(len(records)),
		Source:    s.source(metal),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handlePostPrices forces an immediate refresh and returns the latest record.
func (s *Server) handlePostPrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("action") != "fetch" {
		writeError(w, http.StatusBadRequest, "INVALID_ACTION", "invalid action parameter")
		return
	}

	metal, err := models.ParseMetal(q.Get("metal"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_METAL", err.Error())
		return
	}

	if err := s.refresher.Refresh(r.Context(), metal); err != nil {
		status, code, message := mapFeedError(err)
		writeError(w, status, code, message)
		return
	}

	snap := s.store.Get(metal)
	if len(snap.Records) == 0 {
		writeError(w, http.StatusInternalServerError, "NO_DATA", "no data available from source")
		return
	}

	sorted := models.SortNewestFirst(snap.Records)
	writeJSON(w, http.StatusOK, envelope{
		Success:      true,
		Message:      "Latest price fetched successfully",
		Data:         sorted[0],
		TotalRecords: intPtr(len(snap.Records)),
		Source:       s.source(metal),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

// snapshot returns the metal's current snapshot, refreshing on demand when
// the poller has not populated it yet. A false return means an error
// envelope has already been written.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request, metal models.Metal) (store.Snapshot, bool) {
	snap := s.store.Get(metal)

	// Cold path: nothing fetched yet for this metal.
	if snap.State == store.StateIdle || (snap.State == store.StateLoading && snap.FetchedAt.IsZero()) {
		if err := s.refresher.Refresh(r.Context(), metal); err != nil {
			status, code, message := mapFeedError(err)
			writeError(w, status, code, message)
			return store.Snapshot{}, false
		}
		snap = s.store.Get(metal)
	}

	if snap.State == store.StateError {
		status, code, message := mapFeedError(snap.Err)
		writeError(w, status, code, message)
		return store.Snapshot{}, false
	}

	return snap, true
}

// customRange parses optional start_date/end_date parameters. Absent
// endpoints stay nil so the filter falls back to the unchanged dataset.
func (s *Server) customRange(w http.ResponseWriter, startDate, endDate string) (timeframe.CustomRange, bool) {
	var custom timeframe.CustomRange

	if startDate != "" {
		if !validateDate(startDate) {
			writeError(w, http.StatusBadRequest, "INVALID_DATE", "invalid start_date, expected YYYY-MM-DD")
			return custom, false
		}
		t, _ := time.ParseInLocation("2006-01-02", startDate, time.Local)
		custom.Start = &t
	}
	if endDate != "" {
		if !validateDate(endDate) {
			writeError(w, http.StatusBadRequest, "INVALID_DATE", "invalid end_date, expected YYYY-MM-DD")
			return custom, false
		}
		t, _ := time.ParseInLocation("2006-01-02", endDate, time.Local)
		custom.End = &t
	}
	return custom, true
}

// mapFeedError converts a fetch failure into a stable error code and the
// HTTP status the relay exposes for it.
func mapFeedError(err error) (status int, code, message string) {
	var badStatus *feed.BadStatusError

	switch {
	case errors.Is(err, feed.ErrUnreachable):
		return http.StatusServiceUnavailable, "NETWORK_ERROR", "Unable to connect to external data source"
	case errors.As(err, &badStatus):
		st := badStatus.Status
		if st == 0 {
			st = http.StatusBadGateway
		}
		return st, "EXTERNAL_API_ERROR", err.Error()
	case errors.Is(err, feed.ErrBadContentType):
		return http.StatusBadGateway, "INVALID_CONTENT_TYPE", "External API returned invalid content type"
	case errors.Is(err, feed.ErrBadShape):
		return http.StatusBadGateway, "INVALID_DATA_STRUCTURE", "External API returned data with invalid structure"
	case errors.Is(err, feed.ErrBadPayload):
		return http.StatusBadGateway, "INVALID_DATA_FORMAT", "External API returned invalid data format"
	case err == nil:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error occurred"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", err.Error()
	}
}
