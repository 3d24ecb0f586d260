package analytics

import "sync"

// Monitor is a SignalWindow shared between the ingestion loop and readers.
type Monitor struct {
	mu       sync.Mutex
	window   *SignalWindow
	analyzer Analyzer
}

// NewMonitor creates a monitor with the given window capacity and analyzer.
func NewMonitor(capacity int, analyzer Analyzer) *Monitor {
	return &Monitor{
		window:   NewSignalWindow(capacity),
		analyzer: analyzer,
	}
}

// Add records one magnitude.
func (m *Monitor) Add(magnitude float64) {
	m.mu.Lock()
	m.window.Add(magnitude)
	m.mu.Unlock()
}

// Len returns the number of samples held.
func (m *Monitor) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.window.Len()
}

// Features computes features over a snapshot of the window; computation runs outside the lock.
func (m *Monitor) Features() (SignalFeatures, int) {
	m.mu.Lock()
	values := m.window.Values()
	m.mu.Unlock()

	return m.analyzer.Features(values), len(values)
}
