// Package metrics defines the Prometheus instruments shared across packages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StreamConnectedClients tracks currently open SSE connections.
	StreamConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stream_connected_clients",
		Help: "Number of currently connected SSE clients",
	})

	// StreamEventsTotal counts broadcast events by event name.
	StreamEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_events_total",
		Help: "Total SSE events broadcast, by event name",
	}, []string{"event"})

	// StreamDroppedFramesTotal counts frames dropped because a client's
	// buffer was full. Dropped frames are recovered by a full re-fetch.
	StreamDroppedFramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stream_dropped_frames_total",
		Help: "Total SSE frames dropped due to slow clients",
	})

	// CacheHitsTotal counts content cache hits.
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_hits_total",
		Help: "Total content cache hits",
	})

	// CacheMissesTotal counts content cache misses (absent or expired).
	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_misses_total",
		Help: "Total content cache misses",
	})

	// CacheEvictions counts entries removed by the expiry sweeper.
	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_evictions_total",
		Help: "Total expired content cache entries evicted",
	})

	// CacheSize tracks the number of entries in the in-memory cache.
	CacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "content_cache_size",
		Help: "Current number of in-memory content cache entries",
	})

	// ContactMailFailuresTotal counts failed contact notification emails.
	ContactMailFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contact_mail_failures_total",
		Help: "Total contact notification emails that failed to send",
	})
)
