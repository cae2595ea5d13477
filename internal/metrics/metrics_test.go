package metrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getTestMetrics builds Metrics on a private registry so tests never collide
func getTestMetrics() (*Metrics, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	return NewWithRegistry(registry, nil), registry
}

func exerciseAll(m *Metrics) {
	m.RecordHTTPRequest("GET", "/api/projects", 200, time.Millisecond)
	m.RecordDBQuery("SELECT", "projects", time.Millisecond, errors.New("boom"))
	m.UpdateDBStats(sql.DBStats{OpenConnections: 1, MaxOpenConnections: 1})
	m.RecordFlush("debounce", time.Millisecond, nil)
	m.RecordExternalCall("s3", "put_object", time.Millisecond, errors.New("boom"))
	m.SetWebSocketClients(2)
	m.RecordNotification(NotifyLocal)
	m.RecordJobRun("cleanup", nil)
	m.SetProjectsTotal(1)
	m.SetIssuesTotal(3)
	m.IncrementProjectCreated()
	m.IncrementIssueCreated()
	m.RecordPhaseTransition("completed")
}

func TestMetrics_NamingAndHelp(t *testing.T) {
	m, registry := getTestMetrics()
	exerciseAll(m)

	families, err := registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	snake := regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	for _, mf := range families {
		name := mf.GetName()
		assert.True(t, strings.HasPrefix(name, namespace+"_"), "metric %s must be namespaced", name)
		assert.Regexp(t, snake, name)
		assert.NotEmpty(t, strings.TrimSpace(mf.GetHelp()), "metric %s needs help text", name)
	}
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { exerciseAll(m) })
}

func TestRecordFlush(t *testing.T) {
	m, _ := getTestMetrics()

	m.RecordFlush("manual", 10*time.Millisecond, nil)
	m.RecordFlush("debounce", 10*time.Millisecond, errors.New("disk full"))
	m.RecordFlush("debounce", 10*time.Millisecond, errors.New("disk full"))

	assert.Equal(t, 1.0, getCounterValue(t, m.SnapshotFlushTotal.WithLabelValues("manual", "success")))
	assert.Equal(t, 2.0, getCounterValue(t, m.SnapshotFlushTotal.WithLabelValues("debounce", "failure")))
}

func TestRecordDBQuery_NormalizesOperation(t *testing.T) {
	m, _ := getTestMetrics()

	m.RecordDBQuery("INSERT", "projects", time.Millisecond, errors.New("constraint"))

	assert.Equal(t, 1.0, getCounterValue(t, m.DBQueryErrors.WithLabelValues("insert", "projects")))
}

func TestRecordHTTPRequest_StatusCategories(t *testing.T) {
	m, _ := getTestMetrics()

	m.RecordHTTPRequest("POST", "/api/projects", 201, time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/projects", 428, time.Millisecond)

	assert.Equal(t, 1.0, getCounterValue(t, m.HTTPRequestsTotal.WithLabelValues("POST", "/api/projects", "2xx")))
	assert.Equal(t, 1.0, getCounterValue(t, m.HTTPRequestsTotal.WithLabelValues("POST", "/api/projects", "4xx")))
}

func TestShouldSkipEndpoint(t *testing.T) {
	assert.True(t, ShouldSkipEndpoint("/metrics"))
	assert.True(t, ShouldSkipEndpoint("/health"))
	assert.True(t, ShouldSkipEndpoint("/api/ws"))
	assert.True(t, ShouldSkipEndpoint("/api/metrics"))
	assert.False(t, ShouldSkipEndpoint("/api/projects"))
}

func TestUpdateDBStats_WaitCountersAdvanceByDelta(t *testing.T) {
	m, _ := getTestMetrics()

	m.UpdateDBStats(sql.DBStats{OpenConnections: 1, WaitCount: 3, WaitDuration: time.Second})
	m.UpdateDBStats(sql.DBStats{OpenConnections: 1, WaitCount: 5, WaitDuration: 3 * time.Second})
	m.UpdateDBStats(sql.DBStats{OpenConnections: 1, WaitCount: 5, WaitDuration: 3 * time.Second})

	assert.Equal(t, 5.0, getCounterValue(t, m.DBConnectionWaitTotal))
	assert.InDelta(t, 3.0, getCounterValue(t, m.DBConnectionWaitDuration), 1e-9)
	assert.Equal(t, 1.0, getGaugeValue(t, m.DBConnectionsOpen))

	// a non-DBStats value is ignored
	m.UpdateDBStats("not stats")
	assert.Equal(t, 5.0, getCounterValue(t, m.DBConnectionWaitTotal))
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, "timeout", getErrorType(fmt.Errorf("put: %w", context.DeadlineExceeded)))
	assert.Equal(t, "unknown_error", getErrorType(errors.New("x")))
}

// Helper function to get counter value
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Failed to write counter metric: %v", err)
	}
	return metric.Counter.GetValue()
}

// Helper function to get gauge value
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("Failed to write gauge metric: %v", err)
	}
	return metric.Gauge.GetValue()
}
