package metrics

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Metrics is a point-in-time snapshot of service counters.
type Metrics struct {
	TotalRequests       uint64 `json:"total_requests"`
	SettingsReads       uint64 `json:"settings_reads"`
	SettingsWrites      uint64 `json:"settings_writes"`
	RateLimitedRequests uint64 `json:"rate_limited_requests"`
	ShopsTracked        int    `json:"shops_tracked"`

	StartTime time.Time `json:"start_time"`
	Uptime    string    `json:"uptime"`
}

// ShopCounter reports how many shops currently have settings. The
// settings store satisfies it.
type ShopCounter interface {
	Len() int
}

// Collector accumulates service counters.
type Collector struct {
	totalRequests       uint64
	settingsReads       uint64
	settingsWrites      uint64
	rateLimitedRequests uint64
	startTime           time.Time
	shops               ShopCounter
}

// NewCollector creates a collector reading the shop gauge from shops.
func NewCollector(shops ShopCounter) *Collector {
	return &Collector{
		startTime: time.Now(),
		shops:     shops,
	}
}

// RecordRequest records a handled HTTP request.
func (c *Collector) RecordRequest() {
	atomic.AddUint64(&c.totalRequests, 1)
}

// RecordSettingsRead records a settings fetch.
func (c *Collector) RecordSettingsRead() {
	atomic.AddUint64(&c.settingsReads, 1)
}

// RecordSettingsWrite records a settings update.
func (c *Collector) RecordSettingsWrite() {
	atomic.AddUint64(&c.settingsWrites, 1)
}

// RecordRateLimited records a request rejected by the rate limiter.
func (c *Collector) RecordRateLimited() {
	atomic.AddUint64(&c.rateLimitedRequests, 1)
}

// GetMetrics returns a snapshot of the current counters.
func (c *Collector) GetMetrics() Metrics {
	snapshot := Metrics{
		TotalRequests:       atomic.LoadUint64(&c.totalRequests),
		SettingsReads:       atomic.LoadUint64(&c.settingsReads),
		SettingsWrites:      atomic.LoadUint64(&c.settingsWrites),
		RateLimitedRequests: atomic.LoadUint64(&c.rateLimitedRequests),
		StartTime:           c.startTime,
		Uptime:              time.Since(c.startTime).String(),
	}
	if c.shops != nil {
		snapshot.ShopsTracked = c.shops.Len()
	}
	return snapshot
}

// Handler returns an HTTP handler serving the metrics snapshot as JSON.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(c.GetMetrics()); err != nil {
			http.Error(w, "Failed to encode metrics", http.StatusInternalServerError)
			return
		}
	}
}
