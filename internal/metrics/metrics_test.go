package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/checkin/internal/core"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.TokenIssued()
	m.TokenIssued()
	m.TokenValidated(core.OutcomeAccepted)
	m.TokenValidated(core.OutcomeInvalid)
	m.TokenValidated(core.OutcomeInvalid)
	m.RecordFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.issued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validated.WithLabelValues("accepted")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.validated.WithLabelValues("expired_or_reused")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.validated.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recordFailures))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.TokenIssued()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "checkin_token_issued_total 1")
	assert.Contains(t, body, `checkin_token_validations_total{outcome="expired_or_reused"} 0`)
	assert.Contains(t, body, "go_goroutines")
}
