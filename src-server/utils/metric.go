package utils

import "time"

// Metric channels are drained by the metric package while the server runs.
// Sends never block: when nobody listens the value is dropped.
type Metric struct {
	StorageRead  chan float64
	StorageWrite chan float64
	EventCount   chan float64
}

func NewMetric() *Metric {
	return &Metric{
		StorageRead:  make(chan float64, 1),
		StorageWrite: make(chan float64, 1),
		EventCount:   make(chan float64, 1),
	}
}

func offer(ch chan float64, v float64) {
	select {
	case ch <- v:
	default:
	}
}

func (m *Metric) RecordRead(d time.Duration) {
	offer(m.StorageRead, float64(d.Microseconds()))
}

func (m *Metric) RecordWrite(d time.Duration) {
	offer(m.StorageWrite, float64(d.Microseconds()))
}

// The latest count wins: a stale buffered value is replaced.
func (m *Metric) RecordEventCount(n int) {
	select {
	case <-m.EventCount:
	default:
	}
	offer(m.EventCount, float64(n))
}
