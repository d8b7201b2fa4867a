package metrics

import (
	"errors"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordTickTracksMax(t *testing.T) {
	c := &Collector{StartTime: time.Now()}
	c.RecordTick(2 * time.Millisecond)
	c.RecordTick(5 * time.Millisecond)
	c.RecordTick(1 * time.Millisecond)

	assert.EqualValues(t, 3, c.TickCount)
	assert.EqualValues(t, 5*time.Millisecond, c.TickLatencyMax)

	tick := c.Snapshot()["tick"].(map[string]interface{})
	assert.InDelta(t, 8.0/3.0, tick["avg_latency_ms"].(float64), 1e-6)
}

func TestGameplayCounters(t *testing.T) {
	c := &Collector{StartTime: time.Now()}
	c.RecordServe(true)
	c.RecordServe(false)
	c.RecordServe(false)
	c.RecordMisuse()
	c.RecordEventWrite(nil)
	c.RecordEventWrite(errors.New("locked"))

	g := c.Snapshot()["gameplay"].(map[string]interface{})
	assert.EqualValues(t, 1, g["customers_served"])
	assert.EqualValues(t, 2, g["customers_expired"])
	assert.EqualValues(t, 1, g["misuses"])
	assert.EqualValues(t, 1, atomic.LoadInt64(&c.EventWriteErrors))
}

func TestPrometheusHandler(t *testing.T) {
	Get().RecordInteraction()

	rec := httptest.NewRecorder()
	PrometheusHandler()(rec, httptest.NewRequest("GET", "/metrics/prometheus", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "kitchen_interactions_total")
	assert.Contains(t, body, `kitchen_customers_total{outcome="served"}`)
}
