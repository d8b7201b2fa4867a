// Package metrics provides observability for the kitchen server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance and gameplay counters.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Gameplay
	Interactions     int64
	Misuses          int64 // scoring/boost/time calls naming an unknown cook
	CustomersServed  int64
	CustomersExpired int64
	MatchesEnded     int64

	// Journal
	EventsWritten    int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTick records a tick cycle completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.TickLatencyMax) {
		atomic.StoreInt64(&c.TickLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordInteraction counts a cook using a station.
func (c *Collector) RecordInteraction() {
	atomic.AddInt64(&c.Interactions, 1)
}

// RecordMisuse counts a call that referenced a cook the match does not know.
func (c *Collector) RecordMisuse() {
	atomic.AddInt64(&c.Misuses, 1)
}

// RecordServe counts a customer leaving, served or not.
func (c *Collector) RecordServe(served bool) {
	if served {
		atomic.AddInt64(&c.CustomersServed, 1)
	} else {
		atomic.AddInt64(&c.CustomersExpired, 1)
	}
}

// RecordMatchEnd counts a finished match.
func (c *Collector) RecordMatchEnd() {
	atomic.AddInt64(&c.MatchesEnded, 1)
}

// RecordEventWrite records a journal write to a persister.
func (c *Collector) RecordEventWrite(err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)

	var tickAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      c.LastTickTime.Format(time.RFC3339),
		},

		"gameplay": map[string]interface{}{
			"interactions":      atomic.LoadInt64(&c.Interactions),
			"misuses":           atomic.LoadInt64(&c.Misuses),
			"customers_served":  atomic.LoadInt64(&c.CustomersServed),
			"customers_expired": atomic.LoadInt64(&c.CustomersExpired),
			"matches_ended":     atomic.LoadInt64(&c.MatchesEnded),
		},

		"events": map[string]interface{}{
			"written": atomic.LoadInt64(&c.EventsWritten),
			"errors":  atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		counter := func(name, help string, v int64) {
			fmt.Fprintf(w, "# HELP %s %s\n", name, help)
			fmt.Fprintf(w, "# TYPE %s counter\n", name)
			fmt.Fprintf(w, "%s %d\n\n", name, v)
		}

		counter("kitchen_tick_count", "Total tick cycles", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP kitchen_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE kitchen_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "kitchen_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		counter("kitchen_interactions_total", "Station interactions", atomic.LoadInt64(&c.Interactions))
		counter("kitchen_misuses_total", "Calls naming an unknown cook", atomic.LoadInt64(&c.Misuses))

		fmt.Fprintf(w, "# HELP kitchen_customers_total Customers that left a seat\n")
		fmt.Fprintf(w, "# TYPE kitchen_customers_total counter\n")
		fmt.Fprintf(w, "kitchen_customers_total{outcome=\"served\"} %d\n", atomic.LoadInt64(&c.CustomersServed))
		fmt.Fprintf(w, "kitchen_customers_total{outcome=\"expired\"} %d\n\n", atomic.LoadInt64(&c.CustomersExpired))

		counter("kitchen_matches_ended_total", "Finished matches", atomic.LoadInt64(&c.MatchesEnded))
		counter("kitchen_events_written", "Journal events handed to persisters", atomic.LoadInt64(&c.EventsWritten))
		counter("kitchen_event_write_errors", "Journal write errors", atomic.LoadInt64(&c.EventWriteErrors))

		fmt.Fprintf(w, "# HELP kitchen_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE kitchen_ws_connections gauge\n")
		fmt.Fprintf(w, "kitchen_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP kitchen_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE kitchen_ws_messages_total counter\n")
		fmt.Fprintf(w, "kitchen_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "kitchen_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
