package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/checkin/internal/api/presenter"
	"github.com/darmiel/checkin/internal/attendance"
)

// handleAdminAttendance lists recorded check-ins, optionally for a single presenter.
func (s *Server) handleAdminAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	if s.attendance == nil {
		presenter.Error(w, r, "configured attendance store does not support reading", http.StatusNotImplemented)
		return
	}

	q := r.URL.Query()
	limit := 50
	if limitStr := q.Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v <= 0 {
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = v
	}

	records, err := s.attendance.ListAttendance(ctx, q.Get("identity"), limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list attendance")
		presenter.Error(w, r, "failed to list attendance", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}

	presenter.JSON(w, r, records, http.StatusOK)
}
