package presenter

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/checkin/internal/correlation"
	"github.com/darmiel/checkin/internal/service"
)

type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id"`
}

func JSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write json response")
	}
}

func Error(w http.ResponseWriter, r *http.Request, msg string, status int) {
	resp := ErrorResponse{
		Error:         msg,
		CorrelationID: correlation.FromContext(r.Context()),
	}
	JSON(w, r, resp, status)
}

// Err writes short as the error message, using the status carried by err if any.
// The wrapped error itself is not exposed to the client.
func Err(w http.ResponseWriter, r *http.Request, err error, short string) {
	Error(w, r, short, service.StatusCode(err, http.StatusBadRequest))
}
