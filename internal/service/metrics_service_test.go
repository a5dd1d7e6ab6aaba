package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/ledger", 200, 20*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/ledger", 200, 40*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordLedgerCommit(LedgerWriteSaved)
	m.RecordLedgerCommit(LedgerWriteSkipped)
	m.RecordLedgerCommit(LedgerWriteFailed)
	m.RecordResultRows(18)
	m.RecordDocument("ledger_pdf")

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 30.0, snap.AverageRequestDurationMs, 0.001)
	assert.InDelta(t, 2.0/3.0, snap.CacheHitRatio, 0.001)
	assert.Equal(t, uint64(1), snap.LedgerWrites)
	assert.Equal(t, uint64(1), snap.LedgerSkipped)
	assert.Equal(t, uint64(18), snap.ResultRowsSaved)
	assert.Equal(t, uint64(1), snap.DocumentsRendered)
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.RecordLedgerCommit(LedgerWriteSaved)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ledger_cell_commits_total{result="saved"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordLedgerCommit(LedgerWriteSaved)
	m.RecordResultRows(3)
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
