package metrics

type Service interface {
	IncMessagesPeekedTotalBy(count int64, queueName string)
	IncMessagesDeletedTotalBy(count int64, queueName string)
	IncMessagesRedrivenTotalBy(count int64, queueName string)
	IncQueuePurgesTotalBy(count int64, queueName string)
	IncBackendErrorsTotalBy(count int64, operation string)
	SetQueueDepth(queueName string, depth int64)
	SetQueueInFlight(queueName string, inFlight int64)
}

func NewMetricsService(metricsEnabled bool) Service {
	if metricsEnabled {
		return newPrometheusMetricsService()
	}
	return newNoopMetricsService()
}
