package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_ExportsJobMeters(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := NewWithRegisterer("taxrefund-test", reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "calculate-lead-score", "completed")
	obs.RecordJobDuration(ctx, "calculate-lead-score", 12*time.Millisecond, "completed")
	obs.RecordLeadSubmitted(ctx, "strong", "sent")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		assert.NotContains(t, f.GetName(), ".", f.GetName())
		names = append(names, f.GetName())
	}
	assert.Subset(t, names, []string{
		"jobs_processed_total",
		"jobs_duration_milliseconds",
		"leads_submitted_total",
	})
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability

	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(context.Background(), "submit-lead", "failed")
		obs.RecordLeadSubmitted(context.Background(), "weak", "failed")
	})
	assert.NoError(t, obs.Shutdown(context.Background()))
}
