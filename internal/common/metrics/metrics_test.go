package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordJobResult(t *testing.T) {
	completed := testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("metrics-test"))
	failed := testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("metrics-test", "PARSE_ERROR"))

	RecordJobResult("metrics-test", "")
	RecordJobResult("metrics-test", "PARSE_ERROR")
	RecordJobResult("metrics-test", "PARSE_ERROR")

	assert.Equal(t, completed+1, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("metrics-test")))
	assert.Equal(t, failed+2, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("metrics-test", "PARSE_ERROR")))
}
