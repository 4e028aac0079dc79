package metrics

type NoopMetricsService struct {
}

func newNoopMetricsService() *NoopMetricsService {
	return &NoopMetricsService{}
}

func (nms *NoopMetricsService) IncMessagesPeekedTotalBy(count int64, queueName string) {
	// no-op
}

func (nms *NoopMetricsService) IncMessagesDeletedTotalBy(count int64, queueName string) {
	// no-op
}

func (nms *NoopMetricsService) IncMessagesRedrivenTotalBy(count int64, queueName string) {
	// no-op
}

func (nms *NoopMetricsService) IncQueuePurgesTotalBy(count int64, queueName string) {
	// no-op
}

func (nms *NoopMetricsService) IncBackendErrorsTotalBy(count int64, operation string) {
	// no-op
}

func (nms *NoopMetricsService) SetQueueDepth(queueName string, depth int64) {
	// no-op
}

func (nms *NoopMetricsService) SetQueueInFlight(queueName string, inFlight int64) {
	// no-op
}
