// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rental_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// BillsCreated counts bills by kind: rent or utility
	BillsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_bills_created_total",
			Help: "Bills created, by kind",
		},
		[]string{"kind"},
	)

	// BillsSettled counts bills flipped to PAID, by kind and how (manual or reconciliation)
	BillsSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_bills_settled_total",
			Help: "Bills marked paid, by kind and source",
		},
		[]string{"kind", "source"},
	)

	BillsOverdue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_bills_overdue_total",
		Help: "Rent bills moved to OVERDUE",
	})

	PaymentsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_payments_submitted_total",
		Help: "Payment verification requests submitted by tenants",
	})

	PaymentsVerified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_payments_verified_total",
		Help: "Payments verified by an admin",
	})

	StaffPayments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_staff_payments_total",
			Help: "Staff payroll rows recorded, by type",
		},
		[]string{"type"},
	)

	NotificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_notifications_published_total",
			Help: "Notifications pushed to the realtime channel, by outcome",
		},
		[]string{"outcome"},
	)

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rental_websocket_clients",
		Help: "Currently connected notification websocket clients",
	})
)
