package backend

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type SqsClient struct {
	sqs *sqs.Client
}

func NewSqsClient(awsConfig aws.Config) *SqsClient {
	return &SqsClient{
		sqs: sqs.NewFromConfig(awsConfig),
	}
}

func (sc *SqsClient) ListQueueUrls(ctx context.Context) ([]string, error) {
	out, err := sc.sqs.ListQueues(ctx, &sqs.ListQueuesInput{})
	if err != nil {
		return nil, fmt.Errorf("list queues: %w", err)
	}
	return out.QueueUrls, nil
}

func (sc *SqsClient) GetQueueUrl(ctx context.Context, queueName string) (string, error) {
	out, err := sc.sqs.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(queueName),
	})
	if err != nil {
		var notFound *types.QueueDoesNotExist
		if errors.As(err, &notFound) {
			return "", ErrQueueNotFound
		}
		return "", fmt.Errorf("get queue url for %s: %w", queueName, err)
	}
	return aws.ToString(out.QueueUrl), nil
}

func (sc *SqsClient) GetQueueAttributes(ctx context.Context, queueUrl string) (QueueAttributes, error) {
	out, err := sc.sqs.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(queueUrl),
		AttributeNames: []types.QueueAttributeName{types.QueueAttributeNameAll},
	})
	if err != nil {
		return QueueAttributes{}, fmt.Errorf("get queue attributes: %w", err)
	}

	return QueueAttributes{
		ApproxMessageCount:  attrAsInt(out.Attributes, types.QueueAttributeNameApproximateNumberOfMessages),
		ApproxInFlightCount: attrAsInt(out.Attributes, types.QueueAttributeNameApproximateNumberOfMessagesNotVisible),
	}, nil
}

func (sc *SqsClient) ReceiveMessages(ctx context.Context, queueUrl string, maxMessages int32, visibilityTimeoutSec int32) ([]Message, error) {
	out, err := sc.sqs.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:                    aws.String(queueUrl),
		MaxNumberOfMessages:         maxMessages,
		VisibilityTimeout:           visibilityTimeoutSec,
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{types.MessageSystemAttributeNameAll},
	})
	if err != nil {
		return nil, fmt.Errorf("receive messages: %w", err)
	}

	messages := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		messages = append(messages, Message{
			Id:            aws.ToString(m.MessageId),
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
			Body:          aws.ToString(m.Body),
			Attributes:    m.Attributes,
		})
	}
	return messages, nil
}

func (sc *SqsClient) DeleteMessage(ctx context.Context, queueUrl string, receiptHandle string) error {
	_, err := sc.sqs.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueUrl),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (sc *SqsClient) PurgeQueue(ctx context.Context, queueUrl string) error {
	_, err := sc.sqs.PurgeQueue(ctx, &sqs.PurgeQueueInput{
		QueueUrl: aws.String(queueUrl),
	})
	if err != nil {
		return fmt.Errorf("purge queue: %w", err)
	}
	return nil
}

func (sc *SqsClient) SendMessage(ctx context.Context, queueUrl string, body string) error {
	_, err := sc.sqs.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueUrl),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func attrAsInt(attributes map[string]string, name types.QueueAttributeName) int {
	count, err := strconv.Atoi(attributes[string(name)])
	if err != nil {
		return 0
	}
	return count
}
