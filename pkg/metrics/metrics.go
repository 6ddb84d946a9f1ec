package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movie_catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPSlowRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_catalog_http_slow_requests_total",
			Help: "Requests slower than the configured threshold",
		},
		[]string{"method", "route"},
	)

	ThrottleRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_catalog_throttle_rejections_total",
			Help: "Requests rejected by the per-user throttle",
		},
		[]string{"route"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_catalog_cache_lookups_total",
			Help: "Movie cache lookups by result",
		},
		[]string{"cache", "result"}, // result: hit, miss, error
	)

	LikeEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_catalog_like_events_published_total",
			Help: "Movie like events handed to the broker",
		},
		[]string{"outcome"},
	)

	ScheduledTaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movie_catalog_scheduled_task_duration_seconds",
			Help:    "Duration of background schedule tasks",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task"},
	)
)

func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func RecordCacheLookup(cache, result string) {
	CacheLookups.WithLabelValues(cache, result).Inc()
}
