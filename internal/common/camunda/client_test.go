package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxrefund-workers/internal/common/config"
	"taxrefund-workers/internal/common/errors"
	"taxrefund-workers/internal/common/logger"
	"taxrefund-workers/internal/common/metrics"
	"taxrefund-workers/internal/common/observability"
)

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		msg      string
		expected bool
	}{
		{msg: "rpc error: code = Unavailable desc = connection refused", expected: true},
		{msg: "context deadline exceeded", expected: true},
		{msg: "write: broken pipe", expected: true},
		{msg: "process definition not found", expected: false},
		{msg: "invalid argument", expected: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, isRetryableZeebeError(stderrors.New(tt.msg)), tt.msg)
	}
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode errors.ErrorCode
	}{
		{name: "timeout", err: stderrors.New("deadline exceeded"), expectedCode: errors.ErrCodeTimeout},
		{name: "not found", err: stderrors.New("job not found"), expectedCode: errors.ErrCodeBusinessRuleViolation},
		{name: "anything else", err: stderrors.New("connection reset by peer"), expectedCode: errors.ErrCodeExternalService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapZeebeError(tt.err, "complete-job", 2)

			stdErr, ok := errors.AsStandardError(mapped)
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	rc := &RetryConfig{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, backoffDelay(rc, 0))
	assert.Equal(t, 2*time.Second, backoffDelay(rc, 1))
	assert.Equal(t, 4*time.Second, backoffDelay(rc, 2))
	assert.Equal(t, 5*time.Second, backoffDelay(rc, 3))
}

func TestExecuteWithRetry(t *testing.T) {
	c := &Client{config: &ClientConfig{RetryConfig: &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}}}

	t.Run("retries transient errors", func(t *testing.T) {
		calls := 0
		result, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
			calls++
			if calls < 3 {
				return nil, stderrors.New("unavailable")
			}
			return "ok", nil
		}, "publish-message")

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent errors", func(t *testing.T) {
		calls := 0
		_, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
			calls++
			return nil, stderrors.New("already exists")
		}, "deploy")

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 2 {
			return stderrors.New("dial tcp: connection refused")
		}
		return nil
	}, 5, time.Millisecond, log, "redis connection")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = RetryWithBackoff(context.Background(), func() error {
		calls++
		return stderrors.New("still down")
	}, 3, time.Millisecond, log, "zeebe connection")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zeebe connection failed after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return stderrors.New("down") }, 5, time.Hour, logger.NewNoOpLogger(), "zeebe connection")

	require.ErrorIs(t, err, context.Canceled)
}

func TestClientConfigFrom(t *testing.T) {
	cc := ClientConfigFrom(config.CamundaConfig{BrokerAddress: "zeebe:26500", UsePlaintext: true, Timeout: 1500, RequestTimeout: 3000})

	assert.Equal(t, "zeebe:26500", cc.GatewayAddress)
	assert.True(t, cc.UsePlaintextConnection)
	assert.Equal(t, 1500*time.Millisecond, cc.ConnectionTimeout)
	assert.Equal(t, 3*time.Second, cc.RequestTimeout)
}

func TestInstrument(t *testing.T) {
	called := false
	handler := Instrument("instrument-test", func(client worker.JobClient, job entities.Job) {
		called = true
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues("instrument-test")))
	})

	handler(nil, entities.Job{})

	assert.True(t, called)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues("instrument-test")))
}

type fakeJobClient struct{}

func (fakeJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 { return nil }
func (fakeJobClient) NewFailJobCommand() commands.FailJobCommandStep1         { return nil }
func (fakeJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1   { return nil }

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := observability.NewWithRegisterer("camunda-test", reg)
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	handlers := []JobHandler{
		func(client worker.JobClient, job entities.Job) { client.NewCompleteJobCommand() },
		func(client worker.JobClient, job entities.Job) { client.NewCompleteJobCommand() },
		func(client worker.JobClient, job entities.Job) { client.NewFailJobCommand() },
		func(client worker.JobClient, job entities.Job) { client.NewThrowErrorCommand() },
		func(client worker.JobClient, job entities.Job) {},
	}
	for _, h := range handlers {
		Observe(obs, "observe-test", h)(fakeJobClient{}, entities.Job{})
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		assert.NotContains(t, mf.GetName(), ".", "exported names must be classic Prometheus names")
		if mf.GetName() != "jobs_processed_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" {
					counts[l.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}

	assert.Equal(t, map[string]float64{
		OutcomeCompleted: 2,
		OutcomeFailed:    1,
		OutcomeThrown:    1,
		OutcomeNone:      1,
	}, counts)
}
