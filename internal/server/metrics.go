package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docdrift",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "docdrift",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	alertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docdrift",
		Name:      "alerts_total",
		Help:      "Drift alerts returned.",
	})

	newLinksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docdrift",
		Name:      "new_links_total",
		Help:      "Newly added documentation links reported.",
	})

	pagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docdrift",
		Name:      "gitbook_files_total",
		Help:      "Files produced by skeleton sync.",
	}, []string{"operation"})
)

func observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
