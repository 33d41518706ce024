package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequestCountsByRoute(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/events/:id", "200"))
	ObserveRequest("GET", "/events/:id", http.StatusOK, 15*time.Millisecond)
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/events/:id", "200"))

	assert.Equal(t, before+1, after)
}

func TestRecordTaskLabelsFailures(t *testing.T) {
	before := testutil.ToFloat64(tasksProcessed.WithLabelValues("calls:close-expired", "false"))
	RecordTask("calls:close-expired", errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(tasksProcessed.WithLabelValues("calls:close-expired", "false")))
}

func TestHandlerServesRegistry(t *testing.T) {
	DBRetries.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "startuphub_db_retries_total")
}
