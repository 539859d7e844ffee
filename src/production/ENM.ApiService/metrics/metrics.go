// Package metrics exposes the Prometheus instrumentation of the API service
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WebhookEventsReceived counts every webhook delivery, processed or not
	WebhookEventsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enm_webhook_events_received_total",
		Help: "Total number of webhook events received from the messaging platform.",
	})

	// WebhookEventsProcessed counts webhook events accepted by the filter
	WebhookEventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enm_webhook_events_processed_total",
		Help: "Total number of webhook events that passed the processing filter.",
	})

	// PipelineFailures counts accepted events whose pipeline failed
	PipelineFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enm_pipeline_failures_total",
		Help: "Total number of accepted events whose parse/aggregate/generate pipeline failed.",
	})

	// MessagesSent counts messages delivered to conversations, by kind
	// (answer or apology)
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enm_messages_sent_total",
		Help: "Total number of messages delivered to conversations, by kind.",
	}, []string{"kind"})
)

// Handler exposes the Prometheus registry as a Gin handler
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
