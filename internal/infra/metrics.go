package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	commandsProcessed atomic.Uint64
	alertsFired       atomic.Uint64
	providerErrors    atomic.Uint64

	// Latency tracking (provider fetches)
	fetchLatencySumNs atomic.Int64
	fetchLatencyCount atomic.Uint64

	// Gauges
	watchedSymbols atomic.Int32
	activeAlerts   atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordCommand records a processed chat command.
func (m *Metrics) RecordCommand() {
	m.commandsProcessed.Add(1)
}

// RecordFetch records a provider fetch with latency.
func (m *Metrics) RecordFetch(latencyNs int64) {
	m.fetchLatencySumNs.Add(latencyNs)
	m.fetchLatencyCount.Add(1)
}

// RecordProviderError records a failed provider call.
func (m *Metrics) RecordProviderError() {
	m.providerErrors.Add(1)
}

// RecordAlertFired records a fired price alert.
func (m *Metrics) RecordAlertFired() {
	m.alertsFired.Add(1)
}

// SetWatchedSymbols sets the current watched symbol count.
func (m *Metrics) SetWatchedSymbols(count int32) {
	m.watchedSymbols.Store(count)
}

// SetActiveAlerts sets the current active alert count.
func (m *Metrics) SetActiveAlerts(count int32) {
	m.activeAlerts.Store(count)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	CommandsProcessed uint64
	AlertsFired       uint64
	ProviderErrors    uint64
	AvgFetchLatencyNs int64
	WatchedSymbols    int32
	ActiveAlerts      int32
	Timestamp         time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.fetchLatencyCount.Load()
	if count > 0 {
		avgLatency = m.fetchLatencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		CommandsProcessed: m.commandsProcessed.Load(),
		AlertsFired:       m.alertsFired.Load(),
		ProviderErrors:    m.providerErrors.Load(),
		AvgFetchLatencyNs: avgLatency,
		WatchedSymbols:    m.watchedSymbols.Load(),
		ActiveAlerts:      m.activeAlerts.Load(),
		Timestamp:         time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.commandsProcessed.Store(0)
	m.alertsFired.Store(0)
	m.providerErrors.Store(0)
	m.fetchLatencySumNs.Store(0)
	m.fetchLatencyCount.Store(0)
	m.watchedSymbols.Store(0)
	m.activeAlerts.Store(0)
}
