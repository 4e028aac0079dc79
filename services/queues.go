package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mailflow/mailq/backend"
	"github.com/mailflow/mailq/common"
	"github.com/mailflow/mailq/metrics"
)

type QueuesService struct {
	backend        backend.Client
	metricsService metrics.Service
}

func NewQueuesService(backendClient backend.Client, metricsService metrics.Service) *QueuesService {
	return &QueuesService{
		backend:        backendClient,
		metricsService: metricsService,
	}
}

// ListQueues enumerates all queues with their approximate counters. A failed
// attribute fetch degrades that one queue to zero counters instead of failing
// the whole listing.
func (qs *QueuesService) ListQueues(ctx context.Context) (*common.QueuesResponse, error) {
	queueUrls, err := qs.backend.ListQueueUrls(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list queues")
		qs.metricsService.IncBackendErrorsTotalBy(1, "list_queues")
		return nil, common.BackendError(err.Error())
	}

	queues := make([]common.QueueInfo, 0, len(queueUrls))
	for _, queueUrl := range queueUrls {
		queueName := queueNameFromUrl(queueUrl)

		attrs, err := qs.backend.GetQueueAttributes(ctx, queueUrl)
		if err != nil {
			log.Warn().Err(err).Str("queue", queueName).Msg("failed to get queue attributes, reporting zero counters")
			attrs = backend.QueueAttributes{}
		}

		queues = append(queues, common.QueueInfo{
			Name:             queueName,
			Url:              queueUrl,
			Type:             common.QueueTypeOf(queueName),
			MessageCount:     attrs.ApproxMessageCount,
			MessagesInFlight: attrs.ApproxInFlightCount,
		})
	}

	return &common.QueuesResponse{Queues: queues}, nil
}

// PurgeQueue drops every message in the queue. Not cancellable once issued.
func (qs *QueuesService) PurgeQueue(queueName string, ctx context.Context) (*common.OperationResponse, error) {
	log.Warn().Str("queue", queueName).Msg("purging queue, all messages will be deleted")

	queueUrl, err := qs.queueUrlOf(queueName, ctx)
	if err != nil {
		return nil, err
	}

	if err := qs.backend.PurgeQueue(ctx, queueUrl); err != nil {
		log.Error().Err(err).Str("queue", queueName).Msg("failed to purge queue")
		qs.metricsService.IncBackendErrorsTotalBy(1, "purge_queue")
		return nil, common.BackendError(fmt.Sprintf("failed to purge queue: %s", err))
	}

	qs.metricsService.IncQueuePurgesTotalBy(1, queueName)
	log.Info().Str("queue", queueName).Msg("queue purged")

	return &common.OperationResponse{
		Success: true,
		Message: fmt.Sprintf("Queue '%s' has been purged successfully", queueName),
	}, nil
}

// DeleteMessage deletes one delivery by its receipt handle. The handle must
// come from a listing whose visibility timeout has not yet elapsed.
func (qs *QueuesService) DeleteMessage(queueName string, receiptHandle string, ctx context.Context) (*common.OperationResponse, error) {
	log.Info().
		Str("queue", queueName).
		Str("receipt_handle_prefix", receiptHandlePrefix(receiptHandle)).
		Msg("deleting message from queue")

	queueUrl, err := qs.queueUrlOf(queueName, ctx)
	if err != nil {
		return nil, err
	}

	if err := qs.backend.DeleteMessage(ctx, queueUrl, receiptHandle); err != nil {
		log.Error().Err(err).Str("queue", queueName).Msg("failed to delete message")
		qs.metricsService.IncBackendErrorsTotalBy(1, "delete_message")
		return nil, common.BackendError(err.Error())
	}

	qs.metricsService.IncMessagesDeletedTotalBy(1, queueName)

	return &common.OperationResponse{
		Success: true,
		Message: "Message deleted successfully",
	}, nil
}

// RedriveMessage sends the message body to the target queue, then deletes the
// original delivery from the source queue. There is no compensating action:
// if the send lands but the delete fails, the message now exists in both
// queues until reconciled manually, and the caller gets the delete error.
func (qs *QueuesService) RedriveMessage(queueName string, redrive common.RedriveMessageRequest, ctx context.Context) (*common.OperationResponse, error) {
	log.Info().
		Str("source_queue", queueName).
		Str("target_queue", redrive.TargetQueueName).
		Msg("redriving message from DLQ to source queue")

	sourceQueueUrl, err := qs.queueUrlOf(queueName, ctx)
	if err != nil {
		return nil, err
	}
	targetQueueUrl, err := qs.queueUrlOf(redrive.TargetQueueName, ctx)
	if err != nil {
		return nil, err
	}

	if err := qs.backend.SendMessage(ctx, targetQueueUrl, redrive.Body); err != nil {
		log.Error().Err(err).Str("target_queue", redrive.TargetQueueName).Msg("failed to send message to target queue")
		qs.metricsService.IncBackendErrorsTotalBy(1, "send_message")
		return nil, common.BackendError(fmt.Sprintf("failed to send message to target queue: %s", err))
	}

	if err := qs.backend.DeleteMessage(ctx, sourceQueueUrl, redrive.ReceiptHandle); err != nil {
		// the send already landed: the message is duplicated until someone
		// reconciles, so this must surface as an error, not success
		log.Error().Err(err).
			Str("source_queue", queueName).
			Str("target_queue", redrive.TargetQueueName).
			Msg("failed to delete message from DLQ after send, message is now in both queues")
		qs.metricsService.IncBackendErrorsTotalBy(1, "delete_message")
		return nil, common.BackendError(fmt.Sprintf("failed to delete message from DLQ: %s", err))
	}

	qs.metricsService.IncMessagesRedrivenTotalBy(1, redrive.TargetQueueName)

	return &common.OperationResponse{
		Success: true,
		Message: fmt.Sprintf("Message moved from %s to %s", queueName, redrive.TargetQueueName),
	}, nil
}

func (qs *QueuesService) queueUrlOf(queueName string, ctx context.Context) (string, error) {
	queueUrl, err := qs.backend.GetQueueUrl(ctx, queueName)
	if err != nil {
		if errors.Is(err, backend.ErrQueueNotFound) {
			return "", common.NotFoundError(fmt.Sprintf("Queue not found: %s", queueName))
		}
		log.Error().Err(err).Str("queue", queueName).Msg("failed to get queue url")
		qs.metricsService.IncBackendErrorsTotalBy(1, "get_queue_url")
		return "", common.BackendError(err.Error())
	}
	return queueUrl, nil
}

func queueNameFromUrl(queueUrl string) string {
	if idx := strings.LastIndex(queueUrl, "/"); idx >= 0 {
		return queueUrl[idx+1:]
	}
	return queueUrl
}

func receiptHandlePrefix(receiptHandle string) string {
	if len(receiptHandle) > 20 {
		return receiptHandle[:20]
	}
	return receiptHandle
}
