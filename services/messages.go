package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mailflow/mailq/backend"
	"github.com/mailflow/mailq/common"
	"github.com/mailflow/mailq/configs"
	"github.com/mailflow/mailq/metrics"
)

type MessagesService struct {
	backend        backend.Client
	appConfigs     *configs.AppConfigs
	metricsService metrics.Service
}

func NewMessagesService(backendClient backend.Client, appConfigs *configs.AppConfigs, metricsService metrics.Service) *MessagesService {
	return &MessagesService{
		backend:        backendClient,
		appConfigs:     appConfigs,
		metricsService: metricsService,
	}
}

// ListMessages peeks at up to the dashboard budget of distinct messages
// without consuming them. limit is the per-call receive size and is clamped
// to the backend's hard cap.
func (ms *MessagesService) ListMessages(queueName string, limit int32, ctx context.Context) (*common.MessagesResponse, error) {
	if limit <= 0 {
		limit = ms.appConfigs.DefaultMessageLimit
	}
	if limit > common.MaxMessagesPerReceive {
		limit = common.MaxMessagesPerReceive
	}

	log.Info().Str("queue", queueName).Int32("limit", limit).Msg("fetching messages from queue")

	queueUrl, err := ms.queueUrlOf(queueName, ctx)
	if err != nil {
		return nil, err
	}

	attrs, err := ms.backend.GetQueueAttributes(ctx, queueUrl)
	if err != nil {
		log.Error().Err(err).Str("queue", queueName).Msg("failed to get queue attributes")
		ms.metricsService.IncBackendErrorsTotalBy(1, "get_queue_attributes")
		return nil, common.BackendError(err.Error())
	}

	peeked, err := ms.peekMessages(queueUrl, limit, attrs.ApproxMessageCount, ctx)
	if err != nil {
		log.Error().Err(err).Str("queue", queueName).Msg("failed to receive messages")
		ms.metricsService.IncBackendErrorsTotalBy(1, "receive_messages")
		return nil, common.BackendError(err.Error())
	}

	messages := make([]common.MessageInfo, 0, len(peeked))
	for _, msg := range peeked {
		attributes := msg.Attributes
		if attributes == nil {
			attributes = map[string]string{}
		}
		messages = append(messages, common.MessageInfo{
			MessageId:     msg.Id,
			ReceiptHandle: msg.ReceiptHandle,
			Body:          msg.Body,
			Attributes:    attributes,
			Preview:       buildPreview(msg.Body, ms.appConfigs),
		})
	}

	ms.metricsService.IncMessagesPeekedTotalBy(int64(len(messages)), queueName)

	return &common.MessagesResponse{
		QueueName:  queueName,
		Messages:   messages,
		TotalCount: attrs.ApproxMessageCount,
		QueueInfo: &common.QueueInfo{
			Name:             queueName,
			Url:              queueUrl,
			Type:             common.QueueTypeOf(queueName),
			MessageCount:     attrs.ApproxMessageCount,
			MessagesInFlight: attrs.ApproxInFlightCount,
		},
	}, nil
}

// peekMessages aggregates bounded receive calls into a deduplicated listing.
// The seen-set is scoped to this one aggregation: concurrent listings must
// not share it. Calls run sequentially because each stopping decision depends
// on the previous call's result.
func (ms *MessagesService) peekMessages(queueUrl string, perCall int32, approxTotal int, ctx context.Context) ([]backend.Message, error) {
	// a queue smaller than one batch can't need a second call
	batchCount := 1
	if approxTotal > int(perCall) {
		batchCount = ms.appConfigs.DashboardBatchCount
	}

	budget := ms.appConfigs.DashboardMessageLimit
	seenMessageIds := make(map[string]struct{})
	var collected []backend.Message

	for batch := 0; batch < batchCount; batch++ {
		received, err := ms.backend.ReceiveMessages(ctx, queueUrl, perCall, ms.appConfigs.PeekVisibilityTimeoutSec)
		if err != nil {
			// no partial success: a truncated listing that looks complete is
			// worse than a failed one
			return nil, err
		}

		for _, msg := range received {
			if len(collected) >= budget {
				break
			}
			if _, seen := seenMessageIds[msg.Id]; seen {
				continue
			}
			seenMessageIds[msg.Id] = struct{}{}
			collected = append(collected, msg)
		}

		// a short batch means the backend has nothing more to offer right now
		if len(received) < int(perCall) {
			break
		}
		if len(collected) >= budget {
			break
		}
	}

	return collected, nil
}

func (ms *MessagesService) queueUrlOf(queueName string, ctx context.Context) (string, error) {
	queueUrl, err := ms.backend.GetQueueUrl(ctx, queueName)
	if err != nil {
		if errors.Is(err, backend.ErrQueueNotFound) {
			return "", common.NotFoundError(fmt.Sprintf("Queue not found: %s", queueName))
		}
		log.Error().Err(err).Str("queue", queueName).Msg("failed to get queue url")
		ms.metricsService.IncBackendErrorsTotalBy(1, "get_queue_url")
		return "", common.BackendError(err.Error())
	}
	return queueUrl, nil
}
