package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mailflow/mailq/common"
)

type PrometheusMetricsService struct {
	messagesPeekedTotal   *prometheus.CounterVec
	messagesDeletedTotal  *prometheus.CounterVec
	messagesRedrivenTotal *prometheus.CounterVec
	queuePurgesTotal      *prometheus.CounterVec
	backendErrorsTotal    *prometheus.CounterVec
	queueDepth            *prometheus.GaugeVec
	queueInFlight         *prometheus.GaugeVec
}

func newPrometheusMetricsService() *PrometheusMetricsService {
	srv := &PrometheusMetricsService{
		messagesPeekedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailq_messages_peeked_total",
				Help: "Total number of messages returned by dashboard listings. Peeked, not consumed: the messages stay in the queue",
			},
			[]string{"queue_name", "queue_type"},
		),

		messagesDeletedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailq_messages_deleted_total",
				Help: "Total number of single messages deleted by operators",
			},
			[]string{"queue_name", "queue_type"},
		),

		// no queue type label here, as redriving targets a source queue by definition.
		// queue_name is the queue the message is redriven to.
		messagesRedrivenTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailq_messages_redriven_total",
				Help: "Total number of messages moved from a DLQ back to a source queue by operators",
			},
			[]string{"queue_name"},
		),

		queuePurgesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailq_queue_purges_total",
				Help: "Total number of queue purges issued by operators",
			},
			[]string{"queue_name", "queue_type"},
		),

		backendErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailq_backend_errors_total",
				Help: "Total number of failed SQS calls, by operation",
			},
			[]string{"operation"},
		),

		queueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mailq_queue_depth",
				Help: "Approximate number of visible messages in the queue",
			},
			[]string{"queue_name", "queue_type"},
		),

		queueInFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mailq_queue_in_flight",
				Help: "Approximate number of messages currently hidden by visibility timeouts",
			},
			[]string{"queue_name", "queue_type"},
		),
	}

	prometheus.MustRegister(srv.messagesPeekedTotal)
	prometheus.MustRegister(srv.messagesDeletedTotal)
	prometheus.MustRegister(srv.messagesRedrivenTotal)
	prometheus.MustRegister(srv.queuePurgesTotal)
	prometheus.MustRegister(srv.backendErrorsTotal)
	prometheus.MustRegister(srv.queueDepth)
	prometheus.MustRegister(srv.queueInFlight)

	return srv
}

func (pms *PrometheusMetricsService) IncMessagesPeekedTotalBy(count int64, queueName string) {
	pms.messagesPeekedTotal.WithLabelValues(queueName, common.QueueTypeOf(queueName)).Add(float64(count))
}

func (pms *PrometheusMetricsService) IncMessagesDeletedTotalBy(count int64, queueName string) {
	pms.messagesDeletedTotal.WithLabelValues(queueName, common.QueueTypeOf(queueName)).Add(float64(count))
}

func (pms *PrometheusMetricsService) IncMessagesRedrivenTotalBy(count int64, queueName string) {
	pms.messagesRedrivenTotal.WithLabelValues(queueName).Add(float64(count))
}

func (pms *PrometheusMetricsService) IncQueuePurgesTotalBy(count int64, queueName string) {
	pms.queuePurgesTotal.WithLabelValues(queueName, common.QueueTypeOf(queueName)).Add(float64(count))
}

func (pms *PrometheusMetricsService) IncBackendErrorsTotalBy(count int64, operation string) {
	pms.backendErrorsTotal.WithLabelValues(operation).Add(float64(count))
}

func (pms *PrometheusMetricsService) SetQueueDepth(queueName string, depth int64) {
	pms.queueDepth.WithLabelValues(queueName, common.QueueTypeOf(queueName)).Set(float64(depth))
}

func (pms *PrometheusMetricsService) SetQueueInFlight(queueName string, inFlight int64) {
	pms.queueInFlight.WithLabelValues(queueName, common.QueueTypeOf(queueName)).Set(float64(inFlight))
}
