package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name            string
		err             *StandardError
		expectedCode    string
		expectedRetries int
	}{
		{
			name:            "notification failure is never retried",
			err:             NewNotificationSendFailedError("email", errors.New("ses down")),
			expectedCode:    "NOTIFICATION_SEND_FAILED",
			expectedRetries: 0,
		},
		{
			name:            "lock store outage is retried",
			err:             NewLockUnavailableError(errors.New("dial tcp: refused")),
			expectedCode:    "LOCK_UNAVAILABLE",
			expectedRetries: 3,
		},
		{
			name:            "unknown gate reported as input validation",
			err:             NewUnknownGateError("salary"),
			expectedCode:    "INPUT_VALIDATION_FAILED",
			expectedRetries: 0,
		},
		{
			name:            "unmapped code falls back to itself",
			err:             &StandardError{Code: "SOMETHING_ELSE", Retryable: true},
			expectedCode:    "SOMETHING_ELSE",
			expectedRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)

			assert.Equal(t, tt.expectedCode, bpmnErr.Code)
			assert.Equal(t, tt.expectedRetries, bpmnErr.Retries)
			assert.Equal(t, string(tt.err.Code), bpmnErr.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestNotificationSendFailedError_UserMessage(t *testing.T) {
	err := NewNotificationSendFailedError("email", errors.New("throttled"))

	assert.Equal(t, SubmissionFailedMessage, err.Message)
	assert.False(t, err.Retryable)
	assert.Contains(t, err.Details, "throttled")
}

func TestStepIncompleteError_MetadataReachesVariables(t *testing.T) {
	err := NewStepIncompleteError(5, "personalDetails.idNumber: INVALID_CHECKSUM")

	vars := ConvertToBPMNError(err).ToErrorVariables()

	assert.Equal(t, "STEP_INCOMPLETE", vars["errorCode"])
	assert.Equal(t, 5, vars["step"])
	assert.Equal(t, false, vars["retryable"])
}

func TestNormalize(t *testing.T) {
	cause := NewParseError(errors.New("unexpected end of JSON input"))
	wrapped := fmt.Errorf("decode input: %w", cause)

	got := Normalize(wrapped)
	assert.Same(t, cause, got)

	plain := Normalize(errors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestStandardError_Unwrap(t *testing.T) {
	sentinel := errors.New("connection refused")
	err := NewExternalServiceError("sns", sentinel)

	require.ErrorIs(t, err, sentinel)
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected string
	}{
		{code: ErrCodeParseError, expected: "VALIDATION"},
		{code: ErrCodeInputValidationFailed, expected: "VALIDATION"},
		{code: ErrCodeStepIncomplete, expected: "QUESTIONNAIRE"},
		{code: ErrCodeLockUnavailable, expected: "SUBMISSION"},
		{code: ErrCodeNotificationSendFailed, expected: "NOTIFICATION"},
		{code: ErrCodeTimeout, expected: "INFRASTRUCTURE"},
		{code: "MYSTERY", expected: "OTHER"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetErrorCategory(tt.code), "code %s", tt.code)
	}
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeExternalService))
	assert.False(t, IsRetryableErrorCode(ErrCodeNotificationSendFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeStepIncomplete))
}
