package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_NoopProvider(t *testing.T) {
	m, err := InitMetrics()
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.NotPanics(t, func() {
		m.RecordRequest("POST", "/ask", "success", 0.12)
		m.RecordTokensUsed(42, "gemini-2.0-flash")
		m.RecordIngestion(1.5, 12, "success")
		m.RecordQuotaRejection("ask")
		m.RecordCircuitBreakerState("GeminiGenerate", "open")
		m.RecordDatabaseOperation("insert", "queries", true)
	})
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("GET", "/", "success", 0)
		m.RecordTokensUsed(1, "m")
		m.RecordIngestion(0, 0, "failed")
		m.RecordQuotaRejection("user")
		m.RecordDatabaseOperation("find", "users", false)
	})
}
