package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartLinesAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_cart_lines_added_total",
		Help: "Total number of successful add-to-cart operations",
	})

	CartLinesRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_cart_lines_removed_total",
		Help: "Total number of lines removed from carts",
	})

	OperationsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_operations_rejected_total",
		Help: "Total number of rejected kiosk operations",
	}, []string{"operation", "reason"})

	TransactionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_transactions_created_total",
		Help: "Total number of transactions created",
	})

	PaymentsAcceptedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_payments_accepted_total",
		Help: "Total number of accepted payments",
	})

	SalesCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_sales_completed_total",
		Help: "Total number of completed sales",
	})

	UnitsSoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_units_sold_total",
		Help: "Total number of units taken out of stock by completed sales",
	})

	SaleAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kiosk_sale_amount",
		Help:    "Total amount of completed sales",
		Buckets: []float64{1, 2.5, 5, 10, 20, 50, 100, 250},
	})

	ProductStock = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "kiosk_product_stock",
		Help: "Current stock per product",
	}, []string{"product_id"})

	SinkErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_sink_errors_total",
		Help: "Total number of events a sink failed to accept",
	}, []string{"event_type"})

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
