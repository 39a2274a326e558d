package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_NoopProvider(t *testing.T) {
	metrics, err := InitMetrics()
	require.NoError(t, err)
	require.NotNil(t, metrics)

	assert.NotPanics(t, func() {
		RecordRequestMetric(context.Background(), metrics, "GET", "/health", 200, time.Millisecond)
		RecordReservationOutcome(context.Background(), metrics, "confirmed")
		RecordRegistration(context.Background(), metrics, "ExternalClient", "Active")
	})
}

func TestRecorders_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordRequestMetric(context.Background(), nil, "GET", "/health", 200, time.Millisecond)
		RecordReservationOutcome(context.Background(), nil, "conflict")
		RecordRegistration(context.Background(), nil, "InternalClient", "PendingVerification")
	})
}

func TestLoggerFromContext_WithoutSpan(t *testing.T) {
	logger := LoggerFromContext(context.Background())
	require.NotNil(t, logger)
}

func TestInitLogger_JSONIncludesServiceAndUser(t *testing.T) {
	var buf bytes.Buffer
	initLogger(&buf, "facility-reservation", "production", "debug")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	ctx := WithUserID(context.Background(), "client-1")
	LoggerFromContext(ctx).Info().Msg("reserved")

	out := buf.String()
	assert.Contains(t, out, `"service":"facility-reservation"`)
	assert.Contains(t, out, `"user_id":"client-1"`)
	assert.Contains(t, out, `"message":"reserved"`)
}

func TestInitLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	initLogger(&buf, "svc", "production", "loud")

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
