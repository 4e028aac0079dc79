package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mailflow/mailq/backend"
	"github.com/mailflow/mailq/metrics"
)

// QueuesDepthMetricsJob periodically polls every queue's approximate
// counters into the depth and in-flight gauges.
type QueuesDepthMetricsJob struct {
	ticker *time.Ticker
	done   chan struct{}
}

func NewQueuesDepthMetricsJob(metricsService metrics.Service, backendClient backend.Client, intervalMs int64) *QueuesDepthMetricsJob {
	ticker := time.NewTicker(time.Duration(intervalMs) * time.Millisecond)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				ctx, cancelFunc := context.WithTimeout(context.Background(), time.Duration(intervalMs-1000)*time.Millisecond)
				recordQueueDepths(ctx, metricsService, backendClient)
				cancelFunc()
			case <-done:
				return
			}
		}
	}()

	return &QueuesDepthMetricsJob{
		ticker: ticker,
		done:   done,
	}
}

func recordQueueDepths(ctx context.Context, metricsService metrics.Service, backendClient backend.Client) {
	queueUrls, err := backendClient.ListQueueUrls(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list queues by QueuesDepthMetricsJob")
		return
	}

	for _, queueUrl := range queueUrls {
		queueName := queueUrl
		if idx := strings.LastIndex(queueUrl, "/"); idx >= 0 {
			queueName = queueUrl[idx+1:]
		}

		attrs, err := backendClient.GetQueueAttributes(ctx, queueUrl)
		if err != nil {
			log.Error().Err(err).Str("queue", queueName).Msg("failed to get queue attributes by QueuesDepthMetricsJob")
			continue
		}

		metricsService.SetQueueDepth(queueName, int64(attrs.ApproxMessageCount))
		metricsService.SetQueueInFlight(queueName, int64(attrs.ApproxInFlightCount))
	}
}

func (j *QueuesDepthMetricsJob) Close() error {
	j.ticker.Stop()
	close(j.done)
	return nil
}
