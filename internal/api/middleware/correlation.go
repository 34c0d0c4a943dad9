package middleware

import (
	"net/http"
	"regexp"

	"github.com/rs/xid"

	"github.com/darmiel/checkin/internal/correlation"
)

var correlationIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(correlation.Header)
		if !correlationIDPattern.MatchString(id) {
			id = xid.New().String()
		}
		w.Header().Set(correlation.Header, id)

		next.ServeHTTP(w, r.WithContext(correlation.WithID(r.Context(), id)))
	})
}
