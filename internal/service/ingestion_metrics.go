package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics for one ingestion run
type IngestionMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	PlaysFetched     int
	PlaysStored      int
	GamesFetched     int
	GamesStored      int
	LinesMatched     int
	LinesUnmatched   int
	ValidationErrors int
	Errors           int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.PlaysFetched = 0
	m.PlaysStored = 0
	m.GamesFetched = 0
	m.GamesStored = 0
	m.LinesMatched = 0
	m.LinesUnmatched = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordValidationErrors adds to the validation error count
func (m *IngestionMetrics) RecordValidationErrors(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors += count
}

// RecordError increments the error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf(
		"IngestionMetrics{PlaysFetched=%d, PlaysStored=%d, GamesFetched=%d, GamesStored=%d, LinesMatched=%d, LinesUnmatched=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.PlaysFetched,
		m.PlaysStored,
		m.GamesFetched,
		m.GamesStored,
		m.LinesMatched,
		m.LinesUnmatched,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}
