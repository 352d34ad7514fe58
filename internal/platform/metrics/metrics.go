package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_http_request_duration_seconds",
		Help:    "Latency of HTTP requests by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	SalesCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sales_committed_total",
		Help: "Sales that reached PAID or COMPLETED and had stock taken.",
	}, []string{"payment_method"})

	SalesReversed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sales_reversed_total",
		Help: "Sales cancelled or refunded after stock was taken.",
	}, []string{"status"})

	NumbersAllocated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_numbers_allocated_total",
		Help: "Invoice and draft numbers handed out.",
	}, []string{"kind"})

	RetryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_concurrency_retries_total",
		Help: "Retries after a concurrency conflict.",
	}, []string{"operation"})

	StockAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_stock_adjustments_total",
		Help: "Stock updates by direction.",
	}, []string{"direction"})

	NegativeStock = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_negative_stock_total",
		Help: "Stock updates that left a product below zero.",
	})
)
