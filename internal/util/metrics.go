package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RAPCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rap_cache_hits_total",
		Help: "Total number of RAP lookups served from cache",
	})

	RAPRecomputesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rap_recomputes_total",
		Help: "Total number of RAP recomputations from receipt history",
	})

	RAPLookupsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rap_lookups_failed_total",
		Help: "Total number of failed RAP lookups",
	}, []string{"reason"})

	PriceResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "price_resolutions_total",
		Help: "Total number of current-price resolutions",
	}, []string{"outcome"})

	ListingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listings_created_total",
		Help: "Total number of resale listings created",
	})

	ListingsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listings_failed_total",
		Help: "Total number of rejected resale listings",
	}, []string{"reason"})

	ReceiptsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipts_recorded_total",
		Help: "Total number of sale receipts recorded",
	})

	RAPComputeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rap_compute_latency_seconds",
		Help:    "Latency of RAP recomputation",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
