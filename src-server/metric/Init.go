package metric

import (
	"log/slog"
	"time"

	"monthcal/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StorageEmptyReadName = "monthcal_storage_empty_read_microsec"
	StorageReadName      = "monthcal_storage_read_microsec"
	StorageWriteName     = "monthcal_storage_write_microsec"
	EventsTotalName      = "monthcal_events_total"
)

func register(name, help string) prometheus.Gauge {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
	if err := prometheus.Register(gauge); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			slog.Error("can't register "+name+" metric", "error", err)
			return gauge
		}
		// a previous Init in the same process still owns the collector
		if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
			gauge = existing
		}
	}
	slog.Debug(name + " metric registered")
	gauge.Set(0)
	return gauge
}

func unregister(name string, gauge prometheus.Gauge) {
	switch prometheus.Unregister(gauge) {
	case true:
		slog.Debug(name + " metric unregistered")
	case false:
		slog.Warn(name + " metric not registered")
	}
}

// pushed gauges take their value from a channel fed by the store and fall
// back to 0 when nothing happened for a while
func pushed(as *utils.AppState, name, help string, ch chan float64, clearTickerInterval *time.Duration) {
	gauge := register(name, help)
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, gauge)
				return
			case latency := <-ch:
				gauge.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				gauge.Set(0)
			}
		}
	}()
}

func storageEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	gauge := register(StorageEmptyReadName, "The latency of an empty storage read in microseconds")
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(StorageEmptyReadName, gauge)
				return
			case <-ticker.C:
				latency, err := storage(as)
				if err != nil {
					slog.Error("can't get storage latency", "error", err)
					continue
				}
				gauge.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

// events total keeps its last value, an idle calendar still has events
func eventsTotal(as *utils.AppState) {
	gauge := register(EventsTotalName, "The number of events in the calendar")
	gauge.Set(float64(as.Store.Count()))
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(EventsTotalName, gauge)
				return
			case count := <-as.MetricChans.EventCount:
				gauge.Set(count)
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	storageEmptyRead(as, &tickerInterval)
	pushed(as, StorageReadName, "The latency of a calendar load in microseconds", as.MetricChans.StorageRead, &clearTickerInterval)
	pushed(as, StorageWriteName, "The latency of a calendar save in microseconds", as.MetricChans.StorageWrite, &clearTickerInterval)
	eventsTotal(as)
}
